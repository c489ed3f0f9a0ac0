package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Task represents a single to-do item owned by the store.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCreate carries the client-supplied fields for a new task. The
// store assigns id and created_at; completed defaults to false.
type TaskCreate struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Completed   bool   `json:"completed"`
}

// TaskPatch carries a partial update. A nil field is left unchanged,
// so an explicit JSON null behaves exactly like an omitted field.
type TaskPatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   *bool   `json:"completed"`
}

// ValidationError names the first field that failed a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the constraints for creating a task.
func (c TaskCreate) Validate() error {
	return asValidationError(validate.Struct(c))
}

// Validate checks the constraints on every field present in the patch.
func (p TaskPatch) Validate() error {
	return asValidationError(validate.Struct(p))
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}

	fe := fields[0]
	msg := "is invalid"
	switch fe.Tag() {
	case "required", "min":
		msg = "must not be empty"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
