// Package valutil holds the small string predicates shared by the format
// registry, the binding engine and the message helpers.
package valutil

import (
	"strings"
	"time"
)

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsNum reports whether s is a plain decimal number: an optional minus sign,
// an integer part without leading zeros and an optional fraction.
func IsNum(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if !IsDigits(intPart) {
		return false
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return false
	}
	if hasFrac && !IsDigits(frac) {
		return false
	}
	return true
}

// IsDate reports whether s is an eight digit YYYYMMDD string naming a real
// calendar day.
func IsDate(s string) bool {
	if len(s) != 8 || !IsDigits(s) {
		return false
	}
	parsed, err := time.Parse("20060102", s)
	if err != nil {
		return false
	}
	return parsed.Format("20060102") == s
}

var trueValues = map[string]struct{}{
	"1":    {},
	"true": {},
	"yes":  {},
	"on":   {},
}

// IsTrue interprets loosely typed flags the way page payloads encode them.
func IsTrue(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		_, ok := trueValues[strings.ToLower(strings.TrimSpace(value))]
		return ok
	case int:
		return value == 1
	case int64:
		return value == 1
	case float64:
		return value == 1
	default:
		return false
	}
}
