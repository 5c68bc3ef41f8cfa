// Package phone canonicalizes Ethiopian mobile numbers into E.164 form.
package phone

import (
	"regexp"
	"strings"
)

// CountryCode is the Ethiopian dialing prefix applied during normalization.
const CountryCode = "251"

var (
	nonDigits = regexp.MustCompile(`\D`)

	// Ethiopian mobile numbers: +251 followed by 9 subscriber digits
	// starting with 7 or 9.
	canonicalPattern = regexp.MustCompile(`^\+251[79]\d{8}$`)
)

// Normalize converts a user-typed phone number into canonical +251XXXXXXXXX
// form. It accepts local (0911…), bare subscriber (911…), prefixed
// (251911…) and already-canonical (+251911…) inputs. Unrecognizable digit
// strings are still prefixed with the country code; callers must pair
// Normalize with IsValid before trusting the result.
// Normalize is pure and idempotent.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	digits := nonDigits.ReplaceAllString(trimmed, "")

	var canonical string
	switch {
	case strings.HasPrefix(digits, "0"):
		canonical = CountryCode + digits[1:]
	case strings.HasPrefix(digits, CountryCode):
		canonical = digits
	case strings.HasPrefix(trimmed, "+"+CountryCode):
		canonical = digits
	case len(digits) == 9:
		canonical = CountryCode + digits
	default:
		// Lenient fallback: accept the digits as a subscriber number even
		// though the result may be invalid. IsValid catches those.
		canonical = CountryCode + digits
	}

	return "+" + canonical
}

// IsValid reports whether raw normalizes to a canonical Ethiopian mobile
// number (+251 plus 9 digits, first digit 7 or 9).
func IsValid(raw string) bool {
	return canonicalPattern.MatchString(Normalize(raw))
}

// Mask hides all but the last 4 digits of a phone number for display and
// logging.
func Mask(number string) string {
	if len(number) < 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
