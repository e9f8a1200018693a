package task

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateInput is the payload accepted by the create operation.
type CreateInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=2000"`
	Status      Status `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     string `json:"dueDate" validate:"required,duedate,notpast"`
}

// UpdateInput is the payload accepted by the update operation.
// Absent fields keep their stored value.
type UpdateInput struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=1,max=2000"`
	Status      *Status `json:"status,omitempty" validate:"omitnil,oneof=pending in-progress completed"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitnil,duedate"`
}

// Validator checks task payloads against the task schema.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates a Validator. now supplies the reference time for
// the due date rule; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.validate.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	})
	_ = v.validate.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		due, err := ParseDueDate(fl.Field().String())
		if err != nil {
			return false
		}
		return !due.Before(Today(v.now()))
	})

	return v
}

// Create validates in and returns the task it describes. The returned task
// has no identifier or timestamps yet; an empty status becomes pending.
func (v *Validator) Create(in CreateInput) (Task, error) {
	if err := v.validate.Struct(in); err != nil {
		return Task{}, translate(err)
	}

	due, _ := ParseDueDate(in.DueDate)
	status := in.Status
	if status == "" {
		status = StatusPending
	}

	return Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     due,
	}, nil
}

// Update validates the provided fields of in and returns them as a Patch.
// The due date is not checked against today.
func (v *Validator) Update(in UpdateInput) (Patch, error) {
	if err := v.validate.Struct(in); err != nil {
		return Patch{}, translate(err)
	}

	patch := Patch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	if in.DueDate != nil {
		due, _ := ParseDueDate(*in.DueDate)
		patch.DueDate = &due
	}
	return patch, nil
}

// translate converts validator errors into ErrValidation-wrapped errors.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "notpast":
			return ErrPastDueDate
		case "required", "min":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "duedate":
			msgs = append(msgs, fe.Field()+" must be a date (YYYY-MM-DD)")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// ParseDueDate parses a calendar date given as YYYY-MM-DD or RFC 3339 and
// returns midnight UTC of that date.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Today returns midnight UTC of the calendar date of now.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
