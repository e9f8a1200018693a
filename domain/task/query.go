package task

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// List query defaults and bounds.
const (
	DefaultPage   = 1
	DefaultLimit  = 5
	DefaultSortBy = "dueDate"
	DefaultOrder  = OrderDesc
	MaxLimit      = 100
)

// Query parameter names understood by the list endpoint.
const (
	ParamPage         = "page"
	ParamLimit        = "limit"
	ParamSortBy       = "sortBy"
	ParamOrder        = "order"
	ParamSearchQuery  = "searchQuery"
	ParamStatusFilter = "statusFilter"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// sortColumns maps public sort fields to storage columns.
var sortColumns = map[string]string{
	"dueDate":   "due_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"status":    "status",
}

// ListQuery is the validated input of the task list operation.
type ListQuery struct {
	Page   int
	Limit  int
	SortBy string
	Order  Order
	Search string
	Status Status
}

// ListResult is one page of tasks plus the filtered and unfiltered counts.
type ListResult struct {
	Tasks    []Task `json:"tasks"`
	Total    int64  `json:"total"`
	AllTotal int64  `json:"allTotal"`
}

// DefaultListQuery returns the query used when no parameters are given.
func DefaultListQuery() ListQuery {
	return ListQuery{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		SortBy: DefaultSortBy,
		Order:  DefaultOrder,
		Status: StatusAll,
	}
}

// ParseListQuery builds a ListQuery from raw parameters. get returns ""
// for absent parameters; fiber's Ctx.Query and url.Values.Get both fit.
func ParseListQuery(get func(key string) string) (ListQuery, error) {
	q := DefaultListQuery()

	if raw := get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListQuery{}, fmt.Errorf("%w: page must be a positive integer", ErrValidation)
		}
		q.Page = page
	}

	if raw := get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ListQuery{}, fmt.Errorf("%w: limit must be a positive integer", ErrValidation)
		}
		q.Limit = limit
	}

	if raw := get(ParamSortBy); raw != "" {
		q.SortBy = raw
	}

	if raw := get(ParamOrder); raw != "" {
		q.Order = Order(strings.ToLower(raw))
	}

	q.Search = get(ParamSearchQuery)

	if raw := get(ParamStatusFilter); raw != "" {
		q.Status = Status(raw)
	}

	return q.Normalize()
}

// Normalize fills zero fields with defaults, caps the limit and validates
// the remaining fields.
func (q ListQuery) Normalize() (ListQuery, error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.Order == "" {
		q.Order = DefaultOrder
	}
	if q.Status == "" {
		q.Status = StatusAll
	}

	if q.Page < 1 {
		return ListQuery{}, fmt.Errorf("%w: page must be a positive integer", ErrValidation)
	}
	if q.Limit < 1 {
		return ListQuery{}, fmt.Errorf("%w: limit must be a positive integer", ErrValidation)
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		return ListQuery{}, fmt.Errorf("%w: unsupported sortBy %q", ErrValidation, q.SortBy)
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return ListQuery{}, fmt.Errorf("%w: order must be asc or desc", ErrValidation)
	}
	if q.Status != StatusAll && !q.Status.Valid() {
		return ListQuery{}, fmt.Errorf("%w: unsupported statusFilter %q", ErrValidation, q.Status)
	}
	return q, nil
}

// Offset returns the number of records skipped before this page. It
// saturates at math.MaxInt so huge page numbers stay past the end.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// SortColumn returns the storage column for SortBy.
func (q ListQuery) SortColumn() string {
	if col, ok := sortColumns[q.SortBy]; ok {
		return col
	}
	return sortColumns[DefaultSortBy]
}

// Descending reports whether results are sorted newest/largest first.
func (q ListQuery) Descending() bool {
	return q.Order != OrderAsc
}

// FiltersStatus reports whether the query restricts results to one status.
func (q ListQuery) FiltersStatus() bool {
	return q.Status != "" && q.Status != StatusAll
}

// Values encodes the query as URL parameters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(q.Page))
	v.Set(ParamLimit, strconv.Itoa(q.Limit))
	v.Set(ParamSortBy, q.SortBy)
	v.Set(ParamOrder, string(q.Order))
	v.Set(ParamSearchQuery, q.Search)
	v.Set(ParamStatusFilter, string(q.Status))
	return v
}

// CacheKey returns a deterministic key identifying the query's result.
func (q ListQuery) CacheKey() string {
	return q.Values().Encode()
}

// PageCount returns the number of pages needed to show total items.
func PageCount(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
