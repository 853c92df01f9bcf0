package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact_NormalizesOnConstruction(t *testing.T) {
	c, err := NewContact(ContactTypeCall, "Answering Service", FieldMap{
		FieldName:     "  JOHN DOE ",
		FieldPhone:    "123-456-7890",
		FieldCallerID: "1234567890",
		FieldAddress:  "206 Washington St SW",
		FieldCity:     "Atlanta",
		FieldState:    "GA",
		FieldZip:      "30334",
		FieldMessage:  "THIS IS A TEST MESSAGE.",
		FieldEmail:    "   ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Call", c.Type())
	assert.Equal(t, Some("JOHN DOE"), c.Name())
	assert.Equal(t, Some("(123) 456-7890"), c.Phone())
	assert.Equal(t, Some("1234567890"), c.PhoneDigits())
	assert.Equal(t, Some("(123) 456-7890"), c.AlternatePhone())
	assert.Equal(t, Some("1234567890"), c.AlternatePhoneDigits())
	assert.Equal(t, Some("206 Washington St SW, Atlanta GA, 30334"), c.Address())
	assert.Equal(t, Some("THIS IS A TEST MESSAGE."), c.Message())
	assert.False(t, c.Email().Valid, "blank email must be absent, not empty")
	assert.NotEmpty(t, c.ID())
}

func TestNewContact_PhonesFailIndependently(t *testing.T) {
	c, err := NewContact(ContactTypeCall, "", FieldMap{
		FieldPhone:    "555 123 4567",
		FieldCallerID: "12",
	})
	require.NoError(t, err)

	assert.Equal(t, Some("(555) 123-4567"), c.Phone())
	assert.False(t, c.AlternatePhone().Valid)
	assert.False(t, c.AlternatePhoneDigits().Valid)
	assert.False(t, c.Source().Valid)
}

func TestNewContact_ImplausibleAddressIsAbsent(t *testing.T) {
	c, err := NewContact(ContactTypeWebsite, "Website", FieldMap{FieldAddress: "NA, NA NA, NA"})
	require.NoError(t, err)
	assert.False(t, c.Address().Valid)
}

func TestNewContact_RequiresType(t *testing.T) {
	_, err := NewContact("  ", "Website", FieldMap{})
	assert.ErrorIs(t, err, ErrMissingContactType)
}

func TestContact_SettersKeepDigitsInStep(t *testing.T) {
	c, err := NewContact(ContactTypeCall, "", FieldMap{FieldPhone: "1234567890"})
	require.NoError(t, err)

	require.NoError(t, c.SetPhone("(987) 654-3210"))
	assert.Equal(t, Some("9876543210"), c.PhoneDigits())

	require.NoError(t, c.SetPhone("bogus"))
	assert.False(t, c.Phone().Valid)
	assert.False(t, c.PhoneDigits().Valid)

	require.NoError(t, c.SetAlternatePhone("1-800-555-0100"))
	assert.Equal(t, Some("(800) 555-0100"), c.AlternatePhone())
	assert.Equal(t, Some("8005550100"), c.AlternatePhoneDigits())
}

func TestContact_FrozenRejectsWrites(t *testing.T) {
	c, err := NewContact(ContactTypeCall, "", FieldMap{FieldName: "Jane"})
	require.NoError(t, err)

	c.Freeze()
	assert.True(t, c.Frozen())
	assert.ErrorIs(t, c.SetName("Other"), ErrContactFrozen)
	assert.ErrorIs(t, c.SetPhone("1234567890"), ErrContactFrozen)
	assert.ErrorIs(t, c.SetAlternatePhone("1234567890"), ErrContactFrozen)
	assert.ErrorIs(t, c.SetEmail("jane@example.com"), ErrContactFrozen)
	assert.ErrorIs(t, c.SetAddress("1 Main St"), ErrContactFrozen)
	assert.ErrorIs(t, c.SetMessage("hello"), ErrContactFrozen)
	assert.Equal(t, Some("Jane"), c.Name())
	assert.False(t, c.Email().Valid)
	assert.False(t, c.Message().Valid)
}

func TestContact_SettersBeforeFreeze(t *testing.T) {
	c, err := NewContact(ContactTypeWebsite, "Website", FieldMap{})
	require.NoError(t, err)

	require.NoError(t, c.SetEmail("jane@example.com"))
	require.NoError(t, c.SetMessage("Need a quote"))
	assert.Equal(t, Some("jane@example.com"), c.Email())
	assert.Equal(t, Some("Need a quote"), c.Message())
}

func TestContact_MarshalJSON(t *testing.T) {
	c, err := NewContact(ContactTypeWebsite, "Website", FieldMap{FieldName: "Jane", FieldPhone: "5551234567"})
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Jane", decoded["name"])
	assert.Equal(t, "(555) 123-4567", decoded["phone"])
	assert.Equal(t, "5551234567", decoded["phone_digits"])
	assert.Nil(t, decoded["email"])
	assert.Contains(t, decoded, "email")
	assert.Equal(t, "Message from Website", decoded["type"])
}

func TestContact_Fingerprint(t *testing.T) {
	a, _ := NewContact(ContactTypeCall, "", FieldMap{FieldPhone: "1234567890", FieldMessage: "hi"})
	b, _ := NewContact(ContactTypeCall, "other", FieldMap{FieldPhone: "(123) 456-7890", FieldMessage: "hi"})
	c, _ := NewContact(ContactTypeCall, "", FieldMap{FieldPhone: "1234567890", FieldMessage: "bye"})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestRenderMessage_Plain(t *testing.T) {
	c, err := NewContact(ContactTypeCall, "", FieldMap{
		FieldName:     "Test Name",
		FieldPhone:    "(555) 123-4567",
		FieldCallerID: "(555) 234-5678",
		FieldEmail:    "email@address.com",
		FieldAddress:  "240 Wallaby Way, Sydney Australia",
		FieldMessage:  "Hello",
	})
	require.NoError(t, err)

	lines := strings.Split(c.RenderMessage(StylePlain), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "New Call", lines[0])
	assert.Equal(t, "Caller: Test Name ( Left (555) 123-4567 but called from: (555) 234-5678 ) ( email@address.com )", lines[1])
	assert.Equal(t, "Address: https://www.google.com/maps/search/?api=1&query=240+Wallaby+Way%2C+Sydney+Australia", lines[2])
	assert.Equal(t, "Message: Hello", lines[3])
}

func TestRenderMessage_CallerVariants(t *testing.T) {
	tests := []struct {
		name   string
		fields FieldMap
		want   string
	}{
		{
			name:   "same alternate renders primary only",
			fields: FieldMap{FieldName: "A", FieldPhone: "5551234567", FieldCallerID: "15551234567"},
			want:   "Caller: A ( (555) 123-4567 )",
		},
		{
			name:   "primary only with email",
			fields: FieldMap{FieldName: "A", FieldPhone: "5551234567", FieldEmail: "a@b.co"},
			want:   "Caller: A ( (555) 123-4567 ) ( a@b.co )",
		},
		{
			name:   "alternate only",
			fields: FieldMap{FieldName: "A", FieldCallerID: "5552345678"},
			want:   "Caller: A ( (555) 234-5678 )",
		},
		{
			name:   "no channels",
			fields: FieldMap{},
			want:   "Caller: Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContact(ContactTypeCall, "", tt.fields)
			require.NoError(t, err)
			lines := strings.Split(c.RenderMessage(StylePlain), "\n")
			assert.Equal(t, tt.want, lines[1])
		})
	}
}

func TestRenderMessage_MarkupMatchesPlainStructure(t *testing.T) {
	c, err := NewContact(ContactTypeWebsite, "", FieldMap{
		FieldName:    "Test Name",
		FieldPhone:   "5551234567",
		FieldEmail:   "email@address.com",
		FieldAddress: "-, - -, -",
	})
	require.NoError(t, err)

	plain := strings.Split(c.RenderMessage(StylePlain), "\n")
	markup := strings.Split(c.RenderMessage(StyleMarkup), "\n")
	require.Len(t, markup, len(plain))

	assert.Equal(t, "*New Message from Website*", markup[0])
	assert.Equal(t, "Caller: Test Name ( <tel:+15551234567|(555) 123-4567> ) ( <mailto:email@address.com|email@address.com> )", markup[1])
	assert.Equal(t, "Address: No address left", markup[2])
	assert.Equal(t, "Address: No address left", plain[2])
	assert.Equal(t, "Message: No message left", markup[3])
}
