package pkg

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	statePattern      = regexp.MustCompile(`^[A-Za-z]{2}$`)
	platePattern      = regexp.MustCompile(`^[A-Za-z0-9]{1,4}-?[A-Za-z0-9]{1,5}$`)

	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the domain validation tags to gin's validator:
//
//	postalcode  8 digits, optional hyphen after the fifth (01310-100)
//	statecode   two letters (SP, rj)
//	plate       letters and digits, optional single hyphen (ABC1D23, ABC-1234)
//
// It also makes validation errors name fields by their json (or form) tag.
// It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterTagNameFunc(wireName)
		for tag, re := range map[string]*regexp.Regexp{
			"postalcode": postalCodePattern,
			"statecode":  statePattern,
			"plate":      platePattern,
		} {
			if err := v.RegisterValidation(tag, matchPattern(re)); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// wireName is the name a client uses for f: its json tag, else its form tag.
func wireName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

// fieldName is the key of fe in a validation response. Without a registered
// tag name func the Go field name is used with its first letter lowered.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// fieldMessage renders one failed rule for clients.
func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min", "gte":
		return "Must be at least " + fe.Param() + unit
	case "max", "lte":
		return "Must be at most " + fe.Param() + unit
	case "len":
		return "Must be exactly " + fe.Param() + unit
	case "postalcode":
		return "Must be a valid postal code"
	case "statecode":
		return "Must be a two-letter state code"
	case "plate":
		return "Must be a valid license plate"
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
