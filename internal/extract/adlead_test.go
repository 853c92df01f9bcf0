package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-relay/internal/domain"
)

func TestAdLead_Extract(t *testing.T) {
	body := `{
		"lead_id": "TeSter-123-ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"google_key": "secret",
		"campaign_id": 123456,
		"user_column_data": [
			{"column_id": "FIRST_NAME", "string_value": "Jane"},
			{"column_id": "LAST_NAME", "string_value": "Doe"},
			{"column_id": "PHONE_NUMBER", "string_value": "+1 555-123-4567"},
			{"column_id": "EMAIL", "string_value": "jane@example.com"},
			{"column_id": "CITY", "string_value": "Atlanta"},
			{"column_id": "SERVICE", "string_value": "Drain cleaning"},
			{"column_id": "HOW_DID_YOU_HEAR", "string_value": "radio"}
		]
	}`

	fields, err := NewAdLead().Extract(domain.NewRawMessage(domain.SourceAdLead, []byte(body), "application/json"))
	require.NoError(t, err)

	assert.Equal(t, domain.FieldMap{
		domain.FieldName:    "Jane Doe",
		domain.FieldPhone:   "+1 555-123-4567",
		domain.FieldEmail:   "jane@example.com",
		domain.FieldCity:    "Atlanta",
		domain.FieldMessage: "Drain cleaning",
	}, fields)
}

func TestAdLead_FullNameWins(t *testing.T) {
	body := `{"user_column_data": [
		{"column_id": "FIRST_NAME", "string_value": "J"},
		{"column_id": "FULL_NAME", "string_value": "Jane Doe"}
	]}`

	fields, err := NewAdLead().Extract(domain.NewRawMessage(domain.SourceAdLead, []byte(body), ""))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", fields[domain.FieldName])
}

func TestAdLead_MissingColumns(t *testing.T) {
	_, err := NewAdLead().Extract(domain.NewRawMessage(domain.SourceAdLead, []byte(`{"lead_id":"1"}`), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "user_column_data", parseErr.Field)
}

func TestDecodeAdLead_InvalidJSON(t *testing.T) {
	_, err := DecodeAdLead([]byte(`[`))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.ErrorIs(t, err, errInvalidJSON)
}
