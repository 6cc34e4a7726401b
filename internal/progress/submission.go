package progress

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hiddenuae/gems-service/internal/gem"
)

// SubmissionInput is the raw form data of a gem suggestion.
type SubmissionInput struct {
	Name       string `json:"name"`
	Emirate    string `json:"emirate" validate:"emirate"`
	MapsLink   string `json:"mapsLink" validate:"omitempty,url"`
	Why        string `json:"why"`
	Photogenic bool   `json:"photogenic"`
	Budget     string `json:"budget" validate:"budget"`
}

// ValidationError lists every field that failed, keyed by its JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidSubmission.
func (e *ValidationError) Unwrap() error { return ErrInvalidSubmission }

var submissionValidator = newSubmissionValidator()

func newSubmissionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("emirate", func(fl validator.FieldLevel) bool {
		return gem.IsValidEmirate(fl.Field().String())
	})
	_ = v.RegisterValidation("budget", func(fl validator.FieldLevel) bool {
		return gem.IsValidBudget(fl.Field().String())
	})
	return v
}

// Trimmed returns the input with surrounding whitespace removed from every text field.
func (in SubmissionInput) Trimmed() SubmissionInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Emirate = strings.TrimSpace(in.Emirate)
	in.MapsLink = strings.TrimSpace(in.MapsLink)
	in.Why = strings.TrimSpace(in.Why)
	in.Budget = strings.TrimSpace(in.Budget)
	return in
}

// Validate checks the trimmed input against limits. Lengths are counted in characters, not bytes.
func (in SubmissionInput) Validate(limits SubmissionLimits) error {
	in = in.Trimmed()
	problems := make(map[string]string)

	if err := submissionValidator.Var(in.Name, fmt.Sprintf("min=%d", limits.MinNameLength)); err != nil {
		problems["name"] = fmt.Sprintf("name must be at least %d characters", limits.MinNameLength)
	}
	if err := submissionValidator.Var(in.Why, fmt.Sprintf("min=%d", limits.MinWhyLength)); err != nil {
		problems["why"] = fmt.Sprintf("why must be at least %d characters", limits.MinWhyLength)
	}

	if err := submissionValidator.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems[fe.Field()] = fieldMessage(fe)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "emirate":
		return "emirate must be one of the seven emirates"
	case "budget":
		return "budget must be one of: free, low, mid"
	case "url":
		return "mapsLink must be a valid URL"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
