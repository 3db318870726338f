package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// Error carries every field violation found in a request, keyed by the JSON
// field name.
type Error struct {
	Details map[string]string
}

func (e *Error) Error() string {
	return "validation failed"
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

// Create checks a TaskCreate body and reports all violations at once.
func (va *Validator) Create(in model.TaskCreate) error {
	details := map[string]string{}

	if err := va.v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			details[fe.Field()] = message(fe.Tag(), fe.Param())
		}
	}

	switch {
	case in.DueDate.IsZero():
		details["due_date"] = "is required"
	case in.DueDate.Before(model.Today().Time):
		details["due_date"] = "must not be in the past"
	}

	if len(details) > 0 {
		return &Error{Details: details}
	}
	return nil
}

// Update checks a TaskUpdate body. Only fields present in the payload are
// validated; set fields must satisfy the same constraints as on create, and
// explicit null is only legal for description.
func (va *Validator) Update(in model.TaskUpdate) error {
	details := map[string]string{}

	if in.Title.Set {
		if !in.Title.Valid {
			details["title"] = "must not be null"
		} else if err := va.v.Var(in.Title.V, "required,max=200"); err != nil {
			details["title"] = varMessage(err)
		}
	}

	if in.Priority.Set {
		if !in.Priority.Valid {
			details["priority"] = "must not be null"
		} else if err := va.v.Var(in.Priority.V, "gte=1,lte=5"); err != nil {
			details["priority"] = varMessage(err)
		}
	}

	if in.DueDate.Set {
		switch {
		case !in.DueDate.Valid:
			details["due_date"] = "must not be null"
		case in.DueDate.V.Before(model.Today().Time):
			details["due_date"] = "must not be in the past"
		}
	}

	if in.Completed.Set && !in.Completed.Valid {
		details["completed"] = "must not be null"
	}

	if len(details) > 0 {
		return &Error{Details: details}
	}
	return nil
}

func varMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0].Tag(), verrs[0].Param())
	}
	return "is invalid"
}

func message(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "gte":
		return fmt.Sprintf("must be at least %s", param)
	case "lte":
		return fmt.Sprintf("must be at most %s", param)
	default:
		return "is invalid"
	}
}
