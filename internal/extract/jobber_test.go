package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-relay/internal/domain"
)

const jobberRequest = `{
  "data": {
    "request": {
      "id": "Z2lkOi8vSm9iYmVyL1JlcXVlc3QvMQ==",
      "title": "Gutter cleaning",
      "details": "Two storey house,\n back gutter overflowing",
      "client": {
        "name": "Jane Doe",
        "phones": [
          {"number": "555-234-5678", "primary": false},
          {"number": "555-123-4567", "primary": true}
        ],
        "emails": [{"address": "jane@example.com", "primary": true}],
        "billingAddress": {"street1": "9 Billing Rd", "city": "Decatur", "province": "GA", "postalCode": "30030"}
      },
      "property": {
        "address": {"street1": "1 Main St", "street2": "Unit 4", "city": "Atlanta", "province": "GA", "postalCode": "30334"}
      }
    }
  }
}`

func TestJobber_Extract(t *testing.T) {
	fields, err := NewJobber().Extract(domain.NewRawMessage(domain.SourceJobber, []byte(jobberRequest), "application/json"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", fields[domain.FieldName])
	assert.Equal(t, "555-123-4567", fields[domain.FieldPhone])
	assert.Equal(t, "555-234-5678", fields[domain.FieldCallerID])
	assert.Equal(t, "jane@example.com", fields[domain.FieldEmail])
	assert.Equal(t, "1 Main St Unit 4", fields[domain.FieldAddress])
	assert.Equal(t, "Atlanta", fields[domain.FieldCity])
	assert.Equal(t, "GA", fields[domain.FieldState])
	assert.Equal(t, "30334", fields[domain.FieldZip])
	assert.Equal(t, "Two storey house, back gutter overflowing", fields[domain.FieldMessage])
}

func TestJobber_FallsBackToBillingAddress(t *testing.T) {
	body := `{"request": {"title": "Quote", "client": {
		"firstName": "Sam", "lastName": "Lee",
		"phones": [{"number": "5551234567"}],
		"billingAddress": {"street1": "9 Billing Rd", "city": "Decatur", "province": "GA", "postalCode": "30030"}
	}, "property": {"address": {"street1": "", "city": ""}}}}`

	fields, err := NewJobber().Extract(domain.NewRawMessage(domain.SourceJobber, []byte(body), ""))
	require.NoError(t, err)

	assert.Equal(t, "Sam Lee", fields[domain.FieldName])
	assert.Equal(t, "9 Billing Rd", fields[domain.FieldAddress])
	assert.Equal(t, "Decatur", fields[domain.FieldCity])
	assert.Equal(t, "Quote", fields[domain.FieldMessage])
	assert.NotContains(t, fields, domain.FieldCallerID)

	c, err := domain.NewContact(domain.ContactTypeJobber, "Jobber", fields)
	require.NoError(t, err)
	assert.Equal(t, "9 Billing Rd, Decatur GA, 30030", c.Address().Value)
}

func TestJobber_MissingClient(t *testing.T) {
	_, err := NewJobber().Extract(domain.NewRawMessage(domain.SourceJobber, []byte(`{"request":{"title":"x"}}`), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "client", parseErr.Field)
}

func TestJobber_InvalidJSON(t *testing.T) {
	_, err := NewJobber().Extract(domain.NewRawMessage(domain.SourceJobber, []byte(`not json`), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "body", parseErr.Field)
}
