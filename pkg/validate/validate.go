package validate

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// simpleEmail accepts anything shaped like local@domain.tld.
var simpleEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CustomValidator struct {
	validator *validator.Validate
}

type Option func(v *validator.Validate)

// WithValidation registers an additional validation tag.
func WithValidation(tag string, fn validator.Func) Option {
	return func(v *validator.Validate) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// NewCustomValidator reports fields under their json names and knows the
// simple_email and notblank tags.
func NewCustomValidator(opts ...Option) *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	WithValidation("simple_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})(v)
	WithValidation("notblank", notBlank)(v)
	for _, opt := range opts {
		opt(v)
	}
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// notBlank rejects strings made only of whitespace. Other kinds pass.
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

func IsEmail(s string) bool {
	return simpleEmail.MatchString(s)
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
