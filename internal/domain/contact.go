package domain

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Contact types as shown in message headers.
const (
	ContactTypeCall    = "Call"
	ContactTypeWebsite = "Message from Website"
	ContactTypeJobber  = "Jobber Request"
	ContactTypeAdLead  = "Google Ads Lead"
)

// Contact is the canonical record of one inbound customer interaction.
//
// Fields are only reachable through accessors. Setters are allowed until the
// contact is frozen by the coordinator on publish; after that it is read-only
// and may be read from any number of goroutines.
type Contact struct {
	id          string
	receivedAt  time.Time
	contactType string
	source      Optional

	name                 Optional
	phone                Optional
	phoneDigits          Optional
	alternatePhone       Optional
	alternatePhoneDigits Optional
	email                Optional
	address              Optional
	message              Optional

	frozen atomic.Bool
}

// NewContact builds a contact from an extractor's field map. Phone numbers are
// normalized independently; a rejected number or implausible address is stored
// as absent.
func NewContact(contactType, source string, fields FieldMap) (*Contact, error) {
	contactType = strings.TrimSpace(contactType)
	if contactType == "" {
		return nil, ErrMissingContactType
	}

	c := &Contact{
		id:          uuid.NewString(),
		receivedAt:  time.Now(),
		contactType: contactType,
		source:      Some(source),
		name:        Some(fields[FieldName]),
		email:       Some(fields[FieldEmail]),
		message:     Some(fields[FieldMessage]),
	}
	c.setPhone(fields[FieldPhone])
	c.setAlternatePhone(fields[FieldCallerID])
	c.setAddress(composeAddress(fields))

	return c, nil
}

// composeAddress joins street, "city state" and zip, skipping missing parts.
func composeAddress(fields FieldMap) string {
	var parts []string
	if street := strings.TrimSpace(fields[FieldAddress]); street != "" {
		parts = append(parts, street)
	}
	locality := strings.TrimSpace(strings.TrimSpace(fields[FieldCity]) + " " + strings.TrimSpace(fields[FieldState]))
	if locality != "" {
		parts = append(parts, locality)
	}
	if zip := strings.TrimSpace(fields[FieldZip]); zip != "" {
		parts = append(parts, zip)
	}
	return strings.Join(parts, ", ")
}

func (c *Contact) setPhone(text string) {
	c.phone, c.phoneDigits = normalizedPair(text)
}

func (c *Contact) setAlternatePhone(text string) {
	c.alternatePhone, c.alternatePhoneDigits = normalizedPair(text)
}

func (c *Contact) setAddress(text string) {
	if !IsPlausibleAddress(text) {
		c.address = None
		return
	}
	c.address = Some(text)
}

func normalizedPair(text string) (Optional, Optional) {
	phone, ok := NormalizePhone(text)
	if !ok {
		return None, None
	}
	return Some(phone), Some(PhoneDigits(phone))
}

// Freeze marks the contact read-only. It is safe to call more than once.
func (c *Contact) Freeze() {
	c.frozen.Store(true)
}

// Frozen reports whether the contact has been published.
func (c *Contact) Frozen() bool {
	return c.frozen.Load()
}

func (c *Contact) mutable() error {
	if c.frozen.Load() {
		return ErrContactFrozen
	}
	return nil
}

// SetPhone replaces the primary phone and its digits.
func (c *Contact) SetPhone(text string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.setPhone(text)
	return nil
}

// SetAlternatePhone replaces the alternate phone and its digits.
func (c *Contact) SetAlternatePhone(text string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.setAlternatePhone(text)
	return nil
}

// SetName replaces the name.
func (c *Contact) SetName(name string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.name = Some(name)
	return nil
}

// SetEmail replaces the email.
func (c *Contact) SetEmail(email string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.email = Some(email)
	return nil
}

// SetAddress replaces the address, dropping it when implausible.
func (c *Contact) SetAddress(address string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.setAddress(address)
	return nil
}

// SetMessage replaces the message.
func (c *Contact) SetMessage(message string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	c.message = Some(message)
	return nil
}

func (c *Contact) ID() string                     { return c.id }
func (c *Contact) ReceivedAt() time.Time          { return c.receivedAt }
func (c *Contact) Type() string                   { return c.contactType }
func (c *Contact) Source() Optional               { return c.source }
func (c *Contact) Name() Optional                 { return c.name }
func (c *Contact) Phone() Optional                { return c.phone }
func (c *Contact) PhoneDigits() Optional          { return c.phoneDigits }
func (c *Contact) AlternatePhone() Optional       { return c.alternatePhone }
func (c *Contact) AlternatePhoneDigits() Optional { return c.alternatePhoneDigits }
func (c *Contact) Email() Optional                { return c.email }
func (c *Contact) Address() Optional              { return c.address }
func (c *Contact) Message() Optional              { return c.message }

// Fingerprint identifies "the same contact" for dedup: type, both phone
// digit views, email and message.
func (c *Contact) Fingerprint() uint64 {
	d := xxhash.New()
	for _, part := range []string{
		c.contactType,
		c.phoneDigits.Value,
		c.alternatePhoneDigits.Value,
		strings.ToLower(c.email.Value),
		c.message.Value,
	} {
		_, _ = d.WriteString(part)
		_, _ = d.WriteString("\x00")
	}
	return d.Sum64()
}

type contactJSON struct {
	ID                   string    `json:"id"`
	ReceivedAt           time.Time `json:"received_at"`
	Type                 string    `json:"type"`
	Source               Optional  `json:"source"`
	Name                 Optional  `json:"name"`
	Phone                Optional  `json:"phone"`
	PhoneDigits          Optional  `json:"phone_digits"`
	AlternatePhone       Optional  `json:"alternate_phone"`
	AlternatePhoneDigits Optional  `json:"alternate_phone_digits"`
	Email                Optional  `json:"email"`
	Address              Optional  `json:"address"`
	Message              Optional  `json:"message"`
}

// MarshalJSON encodes the contact with absent fields as null.
func (c *Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(contactJSON{
		ID:                   c.id,
		ReceivedAt:           c.receivedAt,
		Type:                 c.contactType,
		Source:               c.source,
		Name:                 c.name,
		Phone:                c.phone,
		PhoneDigits:          c.phoneDigits,
		AlternatePhone:       c.alternatePhone,
		AlternatePhoneDigits: c.alternatePhoneDigits,
		Email:                c.email,
		Address:              c.address,
		Message:              c.message,
	})
}
