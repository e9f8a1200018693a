package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/task-dashboard/dashboard"
)

const maxTitleWidth = 40

// writeTaskTable prints the rows of v followed by a paging footer.
func writeTaskTable(w io.Writer, v dashboard.View) {
	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tDUE")
		for _, t := range v.Tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, displayTitle(t.Title), t.Status, t.DueDate.UTC().Format(time.DateOnly))
		}
		tw.Flush()
	}

	pages := v.Pages
	if pages == 0 {
		pages = 1
	}
	fmt.Fprintf(w, "page %d of %d, %d matching, %d total\n", v.Query.Page, pages, v.Total, v.AllTotal)
}

// displayTitle puts a title on one line and shortens long ones.
func displayTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return "(untitled)"
	}
	if r := []rune(title); len(r) > maxTitleWidth {
		return string(r[:maxTitleWidth-1]) + "…"
	}
	return title
}
