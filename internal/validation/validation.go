package validation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Request structs carry a single set of `binding` tags; gin and the services
// validate against the same rules.
const tagName = "binding"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	once sync.Once
	std  *validator.Validate
)

func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(tagName)

	if err := register(v); err != nil {
		panic(err)
	}

	return v
}

func Default() *validator.Validate {
	once.Do(func() {
		std = New()
	})
	return std
}

// RegisterGin installs the custom rules on gin's binding validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground validator")
	}
	return register(v)
}

func register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"isodate":  isoDate,
		"hhmm":     clockTime,
		"notblank": notBlank,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Check validates s and converts failures into an *apperr.ValidationError.
func Check(s any) error {
	err := Default().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &apperr.ValidationError{Fields: FieldErrors(verrs, s)}
	}

	return &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}}
}

func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func IsClockTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

func isoDate(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

func clockTime(fl validator.FieldLevel) bool {
	return IsClockTime(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
