package dashboard

import domain "github.com/example/task-dashboard/domain/task"

// QueryState is the list view's filter, sort and paging state. It is a
// value: every With method returns a new state. Changing anything other
// than the page moves back to page 1.
type QueryState struct {
	Search string
	Status domain.Status
	SortBy string
	Order  domain.Order
	Page   int
	Limit  int
}

// DefaultQueryState returns the state the dashboard opens with.
func DefaultQueryState() QueryState {
	q := domain.DefaultListQuery()
	return QueryState{
		Status: q.Status,
		SortBy: q.SortBy,
		Order:  q.Order,
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

// WithSearch sets the title search text.
func (s QueryState) WithSearch(search string) QueryState {
	s.Search = search
	s.Page = 1
	return s
}

// WithStatus sets the status filter; domain.StatusAll disables it.
func (s QueryState) WithStatus(status domain.Status) QueryState {
	s.Status = status
	s.Page = 1
	return s
}

// WithOrder sets the sort direction.
func (s QueryState) WithOrder(order domain.Order) QueryState {
	s.Order = order
	s.Page = 1
	return s
}

// WithSortBy sets the sort field.
func (s QueryState) WithSortBy(field string) QueryState {
	s.SortBy = field
	s.Page = 1
	return s
}

// WithLimit sets the page size, capped at domain.MaxLimit like the server caps it.
func (s QueryState) WithLimit(limit int) QueryState {
	s.Limit = min(limit, domain.MaxLimit)
	s.Page = 1
	return s
}

// WithPage moves to page n. Values below 1 select the first page.
func (s QueryState) WithPage(n int) QueryState {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// Request returns the list query for this state.
func (s QueryState) Request() domain.ListQuery {
	return domain.ListQuery{
		Page:   s.Page,
		Limit:  s.Limit,
		SortBy: s.SortBy,
		Order:  s.Order,
		Search: s.Search,
		Status: s.Status,
	}
}
