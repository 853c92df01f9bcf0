package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"contact-relay/internal/domain"
)

// AdLeadPayload is the lead form webhook body.
type AdLeadPayload struct {
	LeadID         string         `json:"lead_id"`
	GoogleKey      string         `json:"google_key"`
	CampaignID     json.Number    `json:"campaign_id"`
	FormID         json.Number    `json:"form_id"`
	IsTest         bool           `json:"is_test"`
	UserColumnData []AdLeadColumn `json:"user_column_data"`
}

// AdLeadColumn is one answered question of the lead form.
type AdLeadColumn struct {
	ColumnID    string `json:"column_id"`
	ColumnName  string `json:"column_name"`
	StringValue string `json:"string_value"`
}

// column ids folded into the field map; anything else is ignored.
var adLeadColumns = map[string]string{
	"FULL_NAME":       domain.FieldName,
	"PHONE_NUMBER":    domain.FieldPhone,
	"EMAIL":           domain.FieldEmail,
	"WORK_EMAIL":      domain.FieldEmail,
	"STREET_ADDRESS":  domain.FieldAddress,
	"CITY":            domain.FieldCity,
	"REGION":          domain.FieldState,
	"POSTAL_CODE":     domain.FieldZip,
	"SERVICE":         domain.FieldMessage,
	"JOB_DESCRIPTION": domain.FieldMessage,
}

// AdLead reads ad-platform lead form submissions.
type AdLead struct{}

// NewAdLead creates the lead form extractor.
func NewAdLead() *AdLead {
	return &AdLead{}
}

func (a *AdLead) Source() domain.Source { return domain.SourceAdLead }
func (a *AdLead) ContactType() string   { return domain.ContactTypeAdLead }
func (a *AdLead) SourceLabel() string   { return "Google Ads" }

// DecodeAdLead decodes a lead form body.
func DecodeAdLead(body []byte) (*AdLeadPayload, error) {
	var payload AdLeadPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{
			Source: domain.SourceAdLead,
			Field:  "body",
			Err:    fmt.Errorf("%w: %v", errInvalidJSON, err),
		}
	}
	return &payload, nil
}

// Extract folds the column list into a field map.
func (a *AdLead) Extract(raw domain.RawMessage) (domain.FieldMap, error) {
	payload, err := DecodeAdLead(raw.Body)
	if err != nil {
		return nil, err
	}
	if len(payload.UserColumnData) == 0 {
		return nil, &domain.ParseError{Source: domain.SourceAdLead, Field: "user_column_data"}
	}

	fields := domain.FieldMap{}
	var first, last string
	for _, col := range payload.UserColumnData {
		value := collapseSpace(col.StringValue)
		switch col.ColumnID {
		case "FIRST_NAME":
			first = value
		case "LAST_NAME":
			last = value
		default:
			key, ok := adLeadColumns[col.ColumnID]
			if !ok || value == "" {
				continue
			}
			if _, set := fields[key]; !set {
				fields[key] = value
			}
		}
	}

	if _, ok := fields[domain.FieldName]; !ok {
		if name := strings.TrimSpace(first + " " + last); name != "" {
			fields[domain.FieldName] = name
		}
	}

	return fields, nil
}
