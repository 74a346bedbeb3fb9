// Package validation checks submitted form values against a declarative
// per-field schema and collects one message per failing field.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// PhonePattern accepts digits with the usual separators.
var PhonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("phone", validatePhone)
	return v
}

func validatePhone(fl validator.FieldLevel) bool {
	return PhonePattern.MatchString(fl.Field().String())
}

// ruleMessages are the default messages for validator tags, formatted with
// the field label.
var ruleMessages = map[string]string{
	"email":   "%s must be a valid email address",
	"numeric": "%s must be a number",
	"phone":   "%s must be a valid phone number",
}

// Field describes the checks applied to one form value. Checks run in
// order (required, length, rules, equality) and stop at the first failure.
type Field struct {
	// Name is the form field name and the key of any error.
	Name string

	// Label names the field in generated messages. Defaults to Name with
	// its first letter upper-cased.
	Label string

	// Required rejects empty values. Optional empty values skip every
	// other check except EqualTo.
	Required bool

	// Min and Max bound the length in characters. Zero means unbounded.
	Min int
	Max int

	// Rules is a go-playground/validator tag applied to the value, for
	// example "email" or "numeric".
	Rules string

	// EqualTo names another field that must hold the same value.
	EqualTo string

	// Message replaces every generated message for this field.
	Message string
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}

	if f.Name == "" {
		return ""
	}

	return strings.ToUpper(f.Name[:1]) + f.Name[1:]
}

// Schema is an ordered list of field checks.
type Schema []Field

// Errors maps a field name to its message.
type Errors map[string]string

// Validate runs every field check against values and returns the errors,
// or nil when all fields pass.
func (s Schema) Validate(values map[string]string) Errors {
	errs := Errors{}

	for _, f := range s {
		if msg, ok := f.check(values); !ok {
			errs[f.Name] = msg
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

func (f Field) check(values map[string]string) (string, bool) {
	value := values[f.Name]

	fail := func(format string, args ...any) (string, bool) {
		if f.Message != "" {
			return f.Message, false
		}
		return fmt.Sprintf(format, args...), false
	}

	if value == "" {
		switch {
		case f.Required:
			return fail("%s is required", f.label())
		case f.EqualTo != "" && values[f.EqualTo] != "":
			return fail("%s must match %s", f.label(), f.EqualTo)
		}
		return "", true
	}

	n := utf8.RuneCountInString(value)
	switch {
	case f.Min > 0 && f.Max > 0 && (n < f.Min || n > f.Max):
		return fail("%s must be at least %d characters and not more than %d", f.label(), f.Min, f.Max)
	case f.Min > 0 && n < f.Min:
		return fail("%s must be at least %d characters", f.label(), f.Min)
	case f.Max > 0 && n > f.Max:
		return fail("%s must not be more than %d characters", f.label(), f.Max)
	}

	if f.Rules != "" {
		if err := validate.Var(value, f.Rules); err != nil {
			return fail("%s", ruleMessage(err, f.label()))
		}
	}

	if f.EqualTo != "" && value != values[f.EqualTo] {
		return fail("%s must match %s", f.label(), f.EqualTo)
	}

	return "", true
}

func ruleMessage(err error, label string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if format, ok := ruleMessages[verrs[0].Tag()]; ok {
			return fmt.Sprintf(format, label)
		}
	}

	return label + " is invalid"
}

// Sanitize returns the named form values with surrounding whitespace
// removed. Fields missing from the form are omitted.
func Sanitize(form url.Values, names []string) map[string]string {
	values := make(map[string]string, len(names))

	for _, name := range names {
		if _, ok := form[name]; !ok {
			continue
		}
		values[name] = strings.TrimSpace(form.Get(name))
	}

	return values
}
