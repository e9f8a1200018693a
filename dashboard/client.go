// Package dashboard is the client side of the task dashboard: a REST
// client, the list query state, the view controller and form validation.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a single request when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("task not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is match ErrNotFound on 404 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// API is the set of task operations the dashboard needs.
type API interface {
	List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	Create(ctx context.Context, in domain.CreateInput) (domain.Task, error)
	Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// Client talks to the task REST API using fiber's HTTP agent.
type Client struct {
	baseURL string
	timeout time.Duration
}

var _ API = (*Client)(nil)

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:3000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
}

// List fetches one page of tasks.
func (c *Client) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	var res domain.ListResult
	a := fiber.Get(c.tasksURL("")).QueryString(q.Values().Encode())
	if err := c.do(ctx, a, &res); err != nil {
		return domain.ListResult{}, err
	}
	if res.Tasks == nil {
		res.Tasks = []domain.Task{}
	}
	return res, nil
}

// Create adds a task and returns the stored record.
func (c *Client) Create(ctx context.Context, in domain.CreateInput) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, fiber.Post(c.tasksURL("")).JSON(in), &t); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Update replaces the given fields of task id.
func (c *Client) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, fiber.Put(c.tasksURL(id)).JSON(in), &t); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Delete removes task id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, fiber.Delete(c.tasksURL(id)), nil)
}

func (c *Client) tasksURL(id string) string {
	if id == "" {
		return c.baseURL + "/api/tasks"
	}
	return c.baseURL + "/api/tasks/" + id
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, a *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	code, body, errs := a.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	if code < 200 || code > 299 {
		apiErr := &APIError{Status: code}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
