package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

// fakeAPI serves list results keyed by search text and records mutations.
type fakeAPI struct {
	mu       sync.Mutex
	results  map[string]domain.ListResult
	gates    map[string]chan struct{}
	queries  []domain.ListQuery
	listErr  error
	mutErr   error
	created  []domain.CreateInput
	updated  map[string]domain.UpdateInput
	deleted  []string
	nextTask domain.Task
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		results: map[string]domain.ListResult{},
		gates:   map[string]chan struct{}{},
		updated: map[string]domain.UpdateInput{},
	}
}

// gate makes List block for search until the returned channel is closed.
func (f *fakeAPI) gate(search string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[search] = ch
	f.mu.Unlock()
	return ch
}

func (f *fakeAPI) List(_ context.Context, q domain.ListQuery) (domain.ListResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gates[q.Search]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return domain.ListResult{}, f.listErr
	}
	return f.results[q.Search], nil
}

func (f *fakeAPI) Create(_ context.Context, in domain.CreateInput) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return domain.Task{}, f.mutErr
	}
	f.created = append(f.created, in)
	return f.nextTask, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, in domain.UpdateInput) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return domain.Task{}, f.mutErr
	}
	f.updated[id] = in
	t := domain.Task{ID: id}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	return t, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return f.mutErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) lastQuery() domain.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func rows(ids ...string) []domain.Task {
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Task{ID: id, Title: "task " + id, Status: domain.StatusPending})
	}
	return out
}

func newTestController(api API) *Controller {
	return NewController(api,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return testNow }),
	)
}

func validForm() Form {
	return Form{
		Title:       "Write report",
		Description: "Q3 summary",
		Status:      domain.StatusPending,
		DueDate:     "2026-10-20",
	}
}

func TestController_Refresh(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a", "b"), Total: 7, AllTotal: 10}
	c := newTestController(api)

	c.Refresh(context.Background())

	v := c.View()
	assert.Equal(t, PhaseIdle, v.Phase)
	assert.Len(t, v.Tasks, 2)
	assert.Equal(t, int64(7), v.Total)
	assert.Equal(t, int64(10), v.AllTotal)
	assert.Equal(t, 2, v.Pages)
	assert.NoError(t, v.LastError)
	assert.Equal(t, DefaultQueryState().Request(), api.lastQuery())
}

func TestController_PagesUseCappedLimit(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a"), Total: 250, AllTotal: 250}
	c := NewController(api,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithQueryState(DefaultQueryState().WithLimit(500)),
	)

	c.Refresh(context.Background())

	v := c.View()
	assert.Equal(t, domain.MaxLimit, api.lastQuery().Limit)
	assert.Equal(t, 3, v.Pages)
}

func TestController_StateChangesRefreshAndResetPage(t *testing.T) {
	api := newFakeAPI()
	c := newTestController(api)
	ctx := context.Background()

	c.SetPage(ctx, 3)
	assert.Equal(t, 3, api.lastQuery().Page)

	c.SetSearch(ctx, "report")
	q := api.lastQuery()
	assert.Equal(t, "report", q.Search)
	assert.Equal(t, 1, q.Page)

	c.SetPage(ctx, 2)
	c.SetStatus(ctx, domain.StatusCompleted)
	q = api.lastQuery()
	assert.Equal(t, domain.StatusCompleted, q.Status)
	assert.Equal(t, 1, q.Page)

	c.SetPage(ctx, 2)
	c.SetOrder(ctx, domain.OrderAsc)
	q = api.lastQuery()
	assert.Equal(t, domain.OrderAsc, q.Order)
	assert.Equal(t, 1, q.Page)

	c.SetSortBy(ctx, "title")
	assert.Equal(t, "title", api.lastQuery().SortBy)

	assert.Len(t, api.queries, 7)
}

func TestController_DiscardsStaleResponse(t *testing.T) {
	api := newFakeAPI()
	api.results["re"] = domain.ListResult{Tasks: rows("stale"), Total: 1, AllTotal: 5}
	api.results["report"] = domain.ListResult{Tasks: rows("fresh"), Total: 1, AllTotal: 5}
	slow := api.gate("re")
	c := newTestController(api)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		c.SetSearch(ctx, "re")
		close(done)
	}()

	// Wait until the slow request is in flight.
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.queries) == 1
	}, time.Second, 5*time.Millisecond)

	c.SetSearch(ctx, "report")
	close(slow)
	<-done

	v := c.View()
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "fresh", v.Tasks[0].ID)
	assert.Equal(t, "report", v.Query.Search)
	assert.Equal(t, PhaseIdle, v.Phase)
}

func TestController_RefreshFailureIsSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a"), Total: 1, AllTotal: 1}
	c := newTestController(api)
	c.Refresh(context.Background())

	api.listErr = errors.New("connection refused")
	c.Refresh(context.Background())

	v := c.View()
	assert.Equal(t, PhaseIdle, v.Phase)
	assert.Len(t, v.Tasks, 1, "rows survive a failed refresh")
	assert.EqualError(t, v.LastError, "connection refused")
}

func TestController_SubmitCreate(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a", "b", "c", "d", "e"), Total: 6, AllTotal: 6}
	api.nextTask = domain.Task{ID: "new", Title: "Write report", Status: domain.StatusPending}
	c := newTestController(api)
	ctx := context.Background()
	c.Refresh(ctx)

	c.OpenCreate()
	assert.Equal(t, DialogCreate, c.View().Dialog)

	require.NoError(t, c.Submit(ctx, validForm()))

	v := c.View()
	assert.Equal(t, DialogClosed, v.Dialog)
	assert.Nil(t, v.EditTarget)
	require.Len(t, v.Tasks, 5, "page keeps its size")
	assert.Equal(t, "new", v.Tasks[0].ID)
	assert.Equal(t, int64(7), v.Total)
	assert.Equal(t, int64(7), v.AllTotal)
	require.Len(t, api.created, 1)
	assert.Equal(t, "2026-10-20", api.created[0].DueDate)
}

func TestController_SubmitEdit(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a", "b"), Total: 2, AllTotal: 2}
	c := newTestController(api)
	ctx := context.Background()
	c.Refresh(ctx)

	target := c.View().Tasks[1]
	c.OpenEdit(target)
	v := c.View()
	assert.Equal(t, DialogEdit, v.Dialog)
	require.NotNil(t, v.EditTarget)
	assert.Equal(t, "b", v.EditTarget.ID)

	f := FormFromTask(target)
	f.Title = "renamed"
	f.Status = domain.StatusCompleted
	f.DueDate = "2026-01-01" // past dates are allowed when editing

	require.NoError(t, c.Submit(ctx, f))

	v = c.View()
	assert.Equal(t, DialogClosed, v.Dialog)
	assert.Nil(t, v.EditTarget)
	assert.Equal(t, "renamed", v.Tasks[1].Title)
	assert.Equal(t, domain.StatusCompleted, v.Tasks[1].Status)
	assert.Contains(t, api.updated, "b")
}

func TestController_SubmitValidation(t *testing.T) {
	api := newFakeAPI()
	c := newTestController(api)

	assert.ErrorIs(t, c.Submit(context.Background(), validForm()), ErrDialogClosed)

	c.OpenCreate()
	f := validForm()
	f.DueDate = "2026-10-18"
	err := c.Submit(context.Background(), f)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Due date cannot be in the past", fe["dueDate"])
	assert.Equal(t, DialogCreate, c.View().Dialog)
	assert.Empty(t, api.created)
}

func TestController_SubmitFailureKeepsDialogOpen(t *testing.T) {
	api := newFakeAPI()
	api.mutErr = &APIError{Status: 500, Message: "Error adding task"}
	c := newTestController(api)

	c.OpenCreate()
	require.NoError(t, c.Submit(context.Background(), validForm()))

	v := c.View()
	assert.Equal(t, DialogCreate, v.Dialog)
	assert.Error(t, v.LastError)
	assert.Empty(t, v.Tasks)
}

func TestController_Delete(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a", "b", "c"), Total: 3, AllTotal: 4}
	c := newTestController(api)
	ctx := context.Background()
	c.Refresh(ctx)

	// Nothing happens without a confirmation.
	c.ConfirmDelete(ctx)
	assert.Empty(t, api.deleted)

	c.RequestDelete("b")
	v := c.View()
	assert.True(t, v.ConfirmOpen)
	assert.Equal(t, "b", v.DeleteTarget)

	c.ConfirmDelete(ctx)

	v = c.View()
	assert.False(t, v.ConfirmOpen)
	assert.Empty(t, v.DeleteTarget)
	assert.Equal(t, []string{"b"}, api.deleted)
	require.Len(t, v.Tasks, 2)
	assert.Equal(t, "a", v.Tasks[0].ID)
	assert.Equal(t, "c", v.Tasks[1].ID)
	assert.Equal(t, int64(2), v.Total)
	assert.Equal(t, int64(3), v.AllTotal)
}

func TestController_CancelDelete(t *testing.T) {
	api := newFakeAPI()
	c := newTestController(api)

	c.RequestDelete("a")
	c.CancelDelete()
	c.ConfirmDelete(context.Background())

	assert.False(t, c.View().ConfirmOpen)
	assert.Empty(t, api.deleted)
}

func TestController_DeleteFailure(t *testing.T) {
	api := newFakeAPI()
	api.results[""] = domain.ListResult{Tasks: rows("a"), Total: 1, AllTotal: 1}
	c := newTestController(api)
	ctx := context.Background()
	c.Refresh(ctx)

	api.mutErr = &APIError{Status: 404, Message: "Task not found"}
	c.RequestDelete("a")
	c.ConfirmDelete(ctx)

	v := c.View()
	assert.True(t, v.ConfirmOpen)
	assert.Len(t, v.Tasks, 1)
	assert.ErrorIs(t, v.LastError, ErrNotFound)
}

func TestPhaseAndDialogStrings(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "closed", DialogClosed.String())
	assert.Equal(t, "open-create", DialogCreate.String())
	assert.Equal(t, "open-edit", DialogEdit.String())
}
