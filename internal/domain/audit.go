package domain

import (
	"encoding/json"
	"time"
)

// AuditRecord is what the audit store keeps for every accepted contact.
type AuditRecord struct {
	ContactID  string          `json:"contact_id"`
	Source     string          `json:"source"`
	Type       string          `json:"contact_type"`
	ReceivedAt time.Time       `json:"received_at"`
	StoredAt   time.Time       `json:"stored_at"`
	Contact    json.RawMessage `json:"contact"`
	Raw        string          `json:"raw"`
}

// NewAuditRecord snapshots contact and its raw payload.
func NewAuditRecord(contact *Contact, raw []byte) (*AuditRecord, error) {
	body, err := json.Marshal(contact)
	if err != nil {
		return nil, err
	}
	return &AuditRecord{
		ContactID:  contact.ID(),
		Source:     contact.Source().Or(""),
		Type:       contact.Type(),
		ReceivedAt: contact.ReceivedAt(),
		StoredAt:   time.Now().UTC(),
		Contact:    body,
		Raw:        string(raw),
	}, nil
}
