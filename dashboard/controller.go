package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
)

// Phase is the fetch cycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
)

func (p Phase) String() string {
	if p == PhaseLoading {
		return "loading"
	}
	return "idle"
}

// Dialog is the task dialog state.
type Dialog int

const (
	DialogClosed Dialog = iota
	DialogCreate
	DialogEdit
)

func (d Dialog) String() string {
	switch d {
	case DialogCreate:
		return "open-create"
	case DialogEdit:
		return "open-edit"
	}
	return "closed"
}

// ErrDialogClosed is returned by Submit when no dialog is open.
var ErrDialogClosed = errors.New("task dialog is not open")

// View is a snapshot of everything the dashboard renders.
type View struct {
	Phase        Phase
	Query        QueryState
	Tasks        []domain.Task
	Total        int64
	AllTotal     int64
	Pages        int
	Dialog       Dialog
	EditTarget   *domain.Task
	ConfirmOpen  bool
	DeleteTarget string
	LastError    error
}

// Controller drives the dashboard: it owns the query state, issues list
// requests when that state changes and patches the displayed rows after
// mutations. Request failures are logged and kept in LastError rather
// than returned. It is safe for concurrent use.
type Controller struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	state        QueryState
	phase        Phase
	seq          uint64
	rows         []domain.Task
	total        int64
	allTotal     int64
	dialog       Dialog
	editTarget   *domain.Task
	confirmOpen  bool
	deleteTarget string
	lastErr      error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock sets the time source used by form validation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithQueryState sets the initial query state.
func WithQueryState(s QueryState) Option {
	return func(c *Controller) { c.state = s }
}

// NewController creates a controller backed by api.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		logger: slog.Default(),
		now:    time.Now,
		state:  DefaultQueryState(),
		rows:   []domain.Task{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:        c.phase,
		Query:        c.state,
		Tasks:        append([]domain.Task(nil), c.rows...),
		Total:        c.total,
		AllTotal:     c.allTotal,
		Pages:        domain.PageCount(c.total, c.state.Limit),
		Dialog:       c.dialog,
		ConfirmOpen:  c.confirmOpen,
		DeleteTarget: c.deleteTarget,
		LastError:    c.lastErr,
	}
	if c.editTarget != nil {
		t := *c.editTarget
		v.EditTarget = &t
	}
	return v
}

// SetSearch changes the search text and refreshes.
func (c *Controller) SetSearch(ctx context.Context, search string) {
	c.update(ctx, func(s QueryState) QueryState { return s.WithSearch(search) })
}

// SetStatus changes the status filter and refreshes.
func (c *Controller) SetStatus(ctx context.Context, status domain.Status) {
	c.update(ctx, func(s QueryState) QueryState { return s.WithStatus(status) })
}

// SetOrder changes the sort direction and refreshes.
func (c *Controller) SetOrder(ctx context.Context, order domain.Order) {
	c.update(ctx, func(s QueryState) QueryState { return s.WithOrder(order) })
}

// SetSortBy changes the sort field and refreshes.
func (c *Controller) SetSortBy(ctx context.Context, field string) {
	c.update(ctx, func(s QueryState) QueryState { return s.WithSortBy(field) })
}

// SetPage moves to page n and refreshes.
func (c *Controller) SetPage(ctx context.Context, n int) {
	c.update(ctx, func(s QueryState) QueryState { return s.WithPage(n) })
}

func (c *Controller) update(ctx context.Context, fn func(QueryState) QueryState) {
	c.mu.Lock()
	c.state = fn(c.state)
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh fetches the rows for the current query state. A response that
// arrives after a newer refresh was started is discarded.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.phase = PhaseLoading
	q := c.state.Request()
	c.mu.Unlock()

	res, err := c.api.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("Discarding stale list response", "seq", seq, "latest", c.seq)
		return
	}
	c.phase = PhaseIdle

	if err != nil {
		c.fail("Error fetching tasks", err)
		return
	}
	c.rows = res.Tasks
	if c.rows == nil {
		c.rows = []domain.Task{}
	}
	c.total = res.Total
	c.allTotal = res.AllTotal
	c.lastErr = nil
}

// OpenCreate opens the dialog for a new task.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = DialogCreate
	c.editTarget = nil
}

// OpenEdit opens the dialog for editing t.
func (c *Controller) OpenEdit(t domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = DialogEdit
	c.editTarget = &t
}

// CloseDialog closes the dialog and clears the edit target.
func (c *Controller) CloseDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDialog()
}

func (c *Controller) closeDialog() {
	c.dialog = DialogClosed
	c.editTarget = nil
}

// Submit validates f and creates or updates a task depending on the open
// dialog. Form problems are returned as FieldErrors and leave the dialog
// open. A failed request is logged, recorded in LastError and also
// leaves the dialog open; Submit returns nil in that case.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	c.mu.Lock()
	dialog := c.dialog
	var id string
	if c.editTarget != nil {
		id = c.editTarget.ID
	}
	c.mu.Unlock()

	if dialog == DialogClosed {
		return ErrDialogClosed
	}

	creating := dialog == DialogCreate
	if err := ValidateForm(f, c.now(), creating); err != nil {
		return err
	}

	if creating {
		t, err := c.api.Create(ctx, f.CreateInput())
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.fail("Error adding task", err)
			return nil
		}
		c.prepend(t)
		c.closeDialog()
		c.lastErr = nil
		return nil
	}

	t, err := c.api.Update(ctx, id, f.UpdateInput())
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("Error updating task", err)
		return nil
	}
	c.replace(t)
	c.closeDialog()
	c.lastErr = nil
	return nil
}

// prepend shows a new task at the top of the current page.
func (c *Controller) prepend(t domain.Task) {
	rows := make([]domain.Task, 0, len(c.rows)+1)
	rows = append(rows, t)
	rows = append(rows, c.rows...)
	if c.state.Limit > 0 && len(rows) > c.state.Limit {
		rows = rows[:c.state.Limit]
	}
	c.rows = rows
	c.total++
	c.allTotal++
}

func (c *Controller) replace(t domain.Task) {
	for i := range c.rows {
		if c.rows[i].ID == t.ID {
			c.rows[i] = t
			return
		}
	}
}

// RequestDelete opens the delete confirmation for task id.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmOpen = true
	c.deleteTarget = id
}

// CancelDelete closes the delete confirmation without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmOpen = false
	c.deleteTarget = ""
}

// ConfirmDelete deletes the task awaiting confirmation, removes its row
// and closes the confirmation. It does nothing when no confirmation is
// open. A failed request is logged and leaves the confirmation open.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	open, id := c.confirmOpen, c.deleteTarget
	c.mu.Unlock()

	if !open || id == "" {
		return
	}

	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("Error deleting task", err)
		return
	}

	for i := range c.rows {
		if c.rows[i].ID == id {
			c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
			break
		}
	}
	if c.total > 0 {
		c.total--
	}
	if c.allTotal > 0 {
		c.allTotal--
	}
	c.confirmOpen = false
	c.deleteTarget = ""
	c.lastErr = nil
}

// fail records a swallowed error. Callers hold mu.
func (c *Controller) fail(msg string, err error) {
	c.lastErr = err
	c.logger.Error(msg, "error", err)
}
