package models

import "strings"

// NormalizePhone canonicalizes a Chilean mobile number to local format:
// strip everything that is not a digit, drop the "56" country prefix, and
// require exactly 9 digits starting with '9'. Already-normalized numbers pass
// through unchanged.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "56")
	if len(digits) == 9 && digits[0] == '9' {
		return digits, true
	}
	return "", false
}
