package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts the first validator failure into a stable,
// human-readable message naming the offending field in its JSON form.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field := snakeCase(fe.Field())

	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be whitespace only"
	case "phone":
		return "invalid request: " + field + " is not a valid phone number"
	case "max":
		return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
	case "min", "gte", "gt":
		return "invalid request: " + field + " is below the minimum of " + fe.Param()
	case "lte":
		return "invalid request: " + field + " exceeds the maximum of " + fe.Param()
	case "oneof":
		return "invalid request: " + field + " must be one of " + fe.Param()
	}
	return "invalid request: " + field + " is invalid"
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(s[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
