package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{6,19}$`)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings. Coupon codes and guest
	// names must have meaningful content.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "phone" accepts an optional leading + followed by 6-19 digits. Phone
	// is the natural key for guest lookup, so junk here creates junk users.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return phoneRe.MatchString(str)
	})

	return v
}
