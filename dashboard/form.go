package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/go-playground/validator/v10"
)

// Form is the task dialog's input.
type Form struct {
	Title       string        `json:"title" validate:"required,max=255"`
	Description string        `json:"description" validate:"required,max=2000"`
	Status      domain.Status `json:"status" validate:"required,oneof=pending in-progress completed"`
	DueDate     string        `json:"dueDate" validate:"required"`
}

// NewForm returns an empty form with the default status.
func NewForm() Form {
	return Form{Status: domain.StatusPending}
}

// FormFromTask prefills a form for editing t.
func FormFromTask(t domain.Task) Form {
	return Form{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate.UTC().Format(time.DateOnly),
	}
}

// CreateInput converts the form into a create payload.
func (f Form) CreateInput() domain.CreateInput {
	return domain.CreateInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		DueDate:     f.DueDate,
	}
}

// UpdateInput converts the form into an update payload carrying every field.
func (f Form) UpdateInput() domain.UpdateInput {
	title, desc, status, due := f.Title, f.Description, f.Status, f.DueDate
	return domain.UpdateInput{
		Title:       &title,
		Description: &desc,
		Status:      &status,
		DueDate:     &due,
	}
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

var formValidate = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// ValidateForm checks f the way the task dialog does. When forCreate is
// set the due date may not be earlier than the calendar date of now.
// It returns FieldErrors or nil.
func ValidateForm(f Form, now time.Time, forCreate bool) error {
	errs := FieldErrors{}

	if err := formValidate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs[fe.Field()] = fieldMessage(fe)
		}
	}

	if _, ok := errs["dueDate"]; !ok {
		due, err := domain.ParseDueDate(f.DueDate)
		switch {
		case err != nil:
			errs["dueDate"] = "dueDate must be a date (YYYY-MM-DD)"
		case forCreate && due.Before(domain.Today(now)):
			errs["dueDate"] = "Due date cannot be in the past"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
