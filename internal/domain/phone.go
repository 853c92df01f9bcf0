package domain

import "strings"

// NormalizePhone returns the number in (AAA) BBB-CCCC form, or false when the
// text does not hold a 10-digit number (11 with a leading country digit).
// Normalizing an already-normalized number returns it unchanged.
func NormalizePhone(text string) (string, bool) {
	digits := digitsOnly(text)
	if len(digits) == 11 {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:10], true
}

// PhoneDigits returns the digits of a normalized phone.
func PhoneDigits(phone string) string {
	return digitsOnly(phone)
}

func digitsOnly(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
