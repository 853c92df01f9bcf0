package domain

import (
	"regexp"
	"strings"
)

var (
	addressPadding = strings.NewReplacer(" ", "", ",", "", "-", "", "/", "")
	addressNA      = regexp.MustCompile(`(?i)na`)
)

// IsPlausibleAddress reports whether an address carries real content.
//
// Padding characters and every "NA" token are removed; an empty remainder or a
// lone two-letter state fragment (e.g. "Ga") is not plausible. "na" is removed
// inside words as well, so "Canal" is read as "Cal".
func IsPlausibleAddress(text string) bool {
	rest := addressPadding.Replace(text)
	rest = addressNA.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return false
	}
	if len(rest) == 2 && isLetters(rest) {
		return false
	}
	return true
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
