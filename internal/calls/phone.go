package calls

import "strings"

// NormalizePhone reduces an Indian phone number to its 10 significant digits.
// It drops every non-digit, then the trunk "0" prefix, then the "91" country
// code when present. Inputs like "+91 98765-43210", "09876543210" and
// "9876543210" all normalize to "9876543210".
//
// Webhook caller ids and stored numbers are compared only in this form.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	for strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	if len(digits) > 10 && strings.HasPrefix(digits, "91") {
		digits = digits[len(digits)-10:]
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// SamePhone reports whether two raw numbers refer to the same line.
func SamePhone(a, b string) bool {
	na := NormalizePhone(a)
	return na != "" && na == NormalizePhone(b)
}
