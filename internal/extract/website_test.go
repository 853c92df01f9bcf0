package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-relay/internal/domain"
)

func TestWebsite_ExtractBlob(t *testing.T) {
	body := "New submission\n" +
		"------------------------\n" +
		"name: Jane Doe\n" +
		"------------------------\n" +
		"email: jane@example.com\n\n" +
		"phone: 555-123-4567\n" +
		"--------\n" +
		"address: 1 Main St, Springfield IL\n" +
		"message: Water heater is\nmaking noise\n" +
		"------------------------\n" +
		"Submitted at 10/17/2026 09:14\n"

	fields, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte(body), "text/plain"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", fields[domain.FieldName])
	assert.Equal(t, "jane@example.com", fields[domain.FieldEmail])
	assert.Equal(t, "555-123-4567", fields[domain.FieldPhone])
	assert.Equal(t, "1 Main St, Springfield IL", fields[domain.FieldAddress])
	assert.Equal(t, "Water heater is making noise", fields[domain.FieldMessage])
}

func TestWebsite_ExtractBlobWithoutOptionalFields(t *testing.T) {
	body := "name: Sam\nmessage: hi there\nSubmitted at noon"

	fields, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte(body), ""))
	require.NoError(t, err)

	assert.Equal(t, "Sam", fields[domain.FieldName])
	assert.Equal(t, "hi there", fields[domain.FieldMessage])
	assert.NotContains(t, fields, domain.FieldEmail)
}

func TestWebsite_ExtractBlobMissingMessage(t *testing.T) {
	_, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte("name: Sam\nemail: s@x.io"), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, domain.FieldMessage, parseErr.Field)
	assert.Equal(t, "message:", parseErr.Anchor)
}

func TestWebsite_ExtractStructured(t *testing.T) {
	body := `{"name":"  Jane  Doe ","email":"jane@example.com","phone":"(555) 123-4567","address":"","message":"Need a quote"}`

	fields, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte(body), "application/json"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", fields[domain.FieldName])
	assert.Equal(t, "(555) 123-4567", fields[domain.FieldPhone])
	assert.Equal(t, "Need a quote", fields[domain.FieldMessage])
	assert.Equal(t, "", fields[domain.FieldAddress])
}

func TestWebsite_ExtractStructuredWithoutIdentity(t *testing.T) {
	_, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte(`{"message":"hi"}`), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, domain.FieldName, parseErr.Field)
}

func TestWebsite_ExtractStructuredInvalidJSON(t *testing.T) {
	_, err := NewWebsite().Extract(domain.NewRawMessage(domain.SourceWebsite, []byte(`{"name":`), ""))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "body", parseErr.Field)
}
