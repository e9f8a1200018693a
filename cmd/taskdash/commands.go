package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/task-dashboard/dashboard"
	domain "github.com/example/task-dashboard/domain/task"
	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:3000"

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage")

// apiFactory builds the API client for a base URL.
type apiFactory func(baseURL string) dashboard.API

func newRootCmd(newAPI apiFactory) *cobra.Command {
	baseURL := os.Getenv("TASKDASH_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	root := &cobra.Command{
		Use:           "taskdash",
		Short:         "Manage tasks on a task dashboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "server base URL (env TASKDASH_URL)")

	api := func() dashboard.API { return newAPI(baseURL) }

	root.AddCommand(
		newListCmd(api),
		newAddCmd(api),
		newEditCmd(api),
		newRmCmd(api),
	)
	return root
}

func newListCmd(api func() dashboard.API) *cobra.Command {
	var (
		page, limit    int
		search, status string
		order, sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := dashboard.DefaultQueryState().
				WithSearch(search).
				WithStatus(domain.Status(status)).
				WithOrder(domain.Order(strings.ToLower(order))).
				WithSortBy(sortBy).
				WithLimit(limit).
				WithPage(page)

			if _, err := state.Request().Normalize(); err != nil {
				return fmt.Errorf("%w: %v", errUsage, validationText(err))
			}

			c := newController(api(), dashboard.WithQueryState(state))
			c.Refresh(cmd.Context())

			v := c.View()
			if v.LastError != nil {
				return v.LastError
			}
			writeTaskTable(cmd.OutOrStdout(), v)
			return nil
		},
	}

	def := domain.DefaultListQuery()
	f := cmd.Flags()
	f.IntVarP(&page, "page", "p", def.Page, "page number")
	f.IntVarP(&limit, "limit", "n", def.Limit, "tasks per page")
	f.StringVarP(&search, "search", "s", "", "case-insensitive title search")
	f.StringVar(&status, "status", string(def.Status), "status filter: "+string(domain.StatusAll)+", "+domain.StatusNames(", "))
	f.StringVar(&order, "order", string(def.Order), "sort direction: asc or desc")
	f.StringVar(&sortBy, "sort", def.SortBy, "sort field: dueDate, createdAt, updatedAt, title, status")
	return cmd
}

func newAddCmd(api func() dashboard.API) *cobra.Command {
	form := dashboard.NewForm()
	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Status = domain.Status(status)

			c := newController(api())
			c.OpenCreate()
			if err := c.Submit(cmd.Context(), form); err != nil {
				return err
			}

			v := c.View()
			if v.LastError != nil {
				return v.LastError
			}
			if len(v.Tasks) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", v.Tasks[0].ID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&form.Title, "title", "t", "", "task title")
	f.StringVarP(&form.Description, "description", "d", "", "task description")
	f.StringVar(&status, "status", string(domain.StatusPending), "task status: "+domain.StatusNames(", "))
	f.StringVar(&form.DueDate, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newEditCmd(api func() dashboard.API) *cobra.Command {
	var title, description, status, due string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.UpdateInput
			f := cmd.Flags()
			if f.Changed("title") {
				in.Title = &title
			}
			if f.Changed("description") {
				in.Description = &description
			}
			if f.Changed("status") {
				s := domain.Status(status)
				in.Status = &s
			}
			if f.Changed("due") {
				in.DueDate = &due
			}
			if in == (domain.UpdateInput{}) {
				return fmt.Errorf("%w: nothing to change; pass at least one of --title, --description, --status, --due", errUsage)
			}

			t, err := api().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", t.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "new title")
	f.StringVarP(&description, "description", "d", "", "new description")
	f.StringVar(&status, "status", "", "new status: "+domain.StatusNames(", "))
	f.StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	return cmd
}

func newRmCmd(api func() dashboard.API) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			c := newController(api())
			c.RequestDelete(id)

			if !yes && !confirm(cmd, fmt.Sprintf("Delete task %s? [y/N] ", id)) {
				c.CancelDelete()
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}

			c.ConfirmDelete(cmd.Context())
			if err := c.View().LastError; err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// confirm prints prompt and reports whether the answer is y or yes.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// newController returns a controller that does not log; commands report
// View().LastError themselves.
func newController(api dashboard.API, opts ...dashboard.Option) *dashboard.Controller {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dashboard.NewController(api, append([]dashboard.Option{dashboard.WithLogger(quiet)}, opts...)...)
}

func validationText(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}
