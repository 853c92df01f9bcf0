package extract

import (
	"regexp"
	"strings"

	"contact-relay/internal/domain"
)

// Rule extracts one field: the text after Start up to the earliest End anchor
// that follows it, or to the end of the input when no End anchor is present.
type Rule struct {
	Field    string
	Start    string
	End      []string
	Required bool
	Collapse bool // collapse runs of whitespace (newlines included) to single spaces
}

// Grammar is an ordered list of rules for one source format.
type Grammar struct {
	Source domain.Source
	Rules  []Rule
}

// Apply runs every rule against text. A missing required anchor is reported
// as a *domain.ParseError naming the field; optional misses are left out of
// the result.
func (g Grammar) Apply(text string) (domain.FieldMap, error) {
	fields := make(domain.FieldMap, len(g.Rules))
	for _, rule := range g.Rules {
		value, ok := rule.find(text)
		if !ok {
			if rule.Required {
				return nil, &domain.ParseError{
					Source: g.Source,
					Field:  rule.Field,
					Anchor: rule.Start,
				}
			}
			continue
		}
		if rule.Collapse {
			value = collapseSpace(value)
		}
		fields[rule.Field] = strings.TrimSpace(value)
	}
	return fields, nil
}

func (r Rule) find(text string) (string, bool) {
	start := strings.Index(text, r.Start)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(r.Start):]

	end := len(rest)
	for _, anchor := range r.End {
		if i := strings.Index(rest, anchor); i >= 0 && i < end {
			end = i
		}
	}
	return rest[:end], true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var hyphenRun = regexp.MustCompile(`-{2,}`)

// stripPadding removes runs of hyphens used as visual separators and collapses
// the whitespace that remains.
func stripPadding(s string) string {
	return collapseSpace(hyphenRun.ReplaceAllString(s, " "))
}
