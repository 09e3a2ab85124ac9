// Package validation wires the custom field rules used across request DTOs
// into gin's binding engine and turns validator failures into the details
// list carried by error envelopes.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	registerOnce   sync.Once
	standaloneOnce sync.Once
	standalone     *validator.Validate
)

// FieldError is one entry of the envelope's details list.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// IsDate reports whether s has the YYYY-MM-DD shape. Calendar validity is
// deliberately not checked.
func IsDate(s string) bool {
	return datePattern.MatchString(s)
}

// IsClock reports whether s is a 24h HH:MM time of day.
func IsClock(s string) bool {
	return timePattern.MatchString(s)
}

// Register installs the custom rules on gin's validator. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configure(v)
		}
	})
}

// Struct validates s with a validator configured like gin's engine. Used
// outside the HTTP path (seed fixtures).
func Struct(s interface{}) error {
	standaloneOnce.Do(func() {
		standalone = validator.New()
		standalone.SetTagName("binding")
		configure(standalone)
	})
	return standalone.Struct(s)
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "yaml"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Details flattens validator errors into the envelope details list. It
// returns nil for errors that did not come from the validator.
func Details(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldPath drops Go type names from a validator namespace: the root struct
// and any embedded struct. Wire names are always lower case.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && !unicode.IsUpper(rune(p[0])) {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}
