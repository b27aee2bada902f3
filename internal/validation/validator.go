package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// TagGameKey is the custom rule for lower-case snake-case catalog keys
const TagGameKey = "gamekey"

var gameKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// New creates a validator reporting fields by their json name
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation(TagGameKey, validateGameKey)

	return &Validator{validate: v}
}

// Get returns the shared validator instance
func Get() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Struct validates s and converts the first failure into a *domain.ValidationError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	first := validationErrors[0]
	return domain.NewValidationError(first.Field(), describe(first))
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		errs[domainErr.Field] = domainErr.Reason
		return errs
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid input"
		return errs
	}

	for _, e := range validationErrors {
		errs[e.Field()] = describe(e)
	}
	return errs
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case TagGameKey:
		return "must be a lower-case game key"
	default:
		return "is invalid"
	}
}

func validateGameKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	// Allow empty if not required (handled by 'required' tag if needed)
	if key == "" {
		return true
	}
	return gameKeyPattern.MatchString(key)
}
