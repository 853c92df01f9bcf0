package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"contact-relay/internal/domain"
)

const submittedAt = "Submitted at"

// websiteForm is the structured form post.
type websiteForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Message string `json:"message"`
}

// Website reads contact-form submissions, either as a JSON object or as the
// notification e-mail blob:
//
//	name: Jane Doe
//	-----------------
//	email: jane@example.com
//	phone: 555-123-4567
//	address: 1 Main St
//	message: Please call me back
//	Submitted at 10/17/2026 09:14
type Website struct {
	blob Grammar
}

// NewWebsite creates the website form extractor.
func NewWebsite() *Website {
	anchors := []struct {
		field    string
		anchor   string
		required bool
	}{
		{domain.FieldName, "name:", true},
		{domain.FieldEmail, "email:", false},
		{domain.FieldPhone, "phone:", false},
		{domain.FieldAddress, "address:", false},
		{domain.FieldMessage, "message:", true},
	}

	rules := make([]Rule, 0, len(anchors))
	for i, a := range anchors {
		var end []string
		for _, next := range anchors[i+1:] {
			end = append(end, next.anchor)
		}
		end = append(end, submittedAt)
		rules = append(rules, Rule{Field: a.field, Start: a.anchor, End: end, Required: a.required})
	}

	return &Website{blob: Grammar{Source: domain.SourceWebsite, Rules: rules}}
}

func (w *Website) Source() domain.Source { return domain.SourceWebsite }
func (w *Website) ContactType() string   { return domain.ContactTypeWebsite }
func (w *Website) SourceLabel() string   { return "Website" }

// Extract parses a JSON form or a text blob.
func (w *Website) Extract(raw domain.RawMessage) (domain.FieldMap, error) {
	body := bytes.TrimSpace(raw.Body)
	if len(body) > 0 && body[0] == '{' {
		return w.extractStructured(body)
	}

	fields, err := w.blob.Apply(string(body))
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		fields[k] = stripPadding(v)
	}
	return fields, nil
}

func (w *Website) extractStructured(body []byte) (domain.FieldMap, error) {
	var form websiteForm
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, &domain.ParseError{
			Source: domain.SourceWebsite,
			Field:  "body",
			Err:    fmt.Errorf("decode form: %w", err),
		}
	}

	fields := domain.FieldMap{
		domain.FieldName:    collapseSpace(form.Name),
		domain.FieldEmail:   collapseSpace(form.Email),
		domain.FieldPhone:   collapseSpace(form.Phone),
		domain.FieldAddress: collapseSpace(form.Address),
		domain.FieldMessage: collapseSpace(form.Message),
	}
	if fields[domain.FieldName] == "" && fields[domain.FieldEmail] == "" && fields[domain.FieldPhone] == "" {
		return nil, &domain.ParseError{Source: domain.SourceWebsite, Field: domain.FieldName}
	}
	return fields, nil
}
