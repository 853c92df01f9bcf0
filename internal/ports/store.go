package ports

import (
	"context"

	"contact-relay/internal/domain"
)

// Ledger records which contacts a scope has already handled.
type Ledger interface {
	// Claim returns true the first time a contact is claimed for scope and
	// false for every later claim while the record lives.
	Claim(ctx context.Context, scope string, contact *domain.Contact) (bool, error)

	// Release drops a claim so a failed delivery can be attempted again.
	Release(ctx context.Context, scope string, contact *domain.Contact) error
}

// AuditStore keeps the raw payload and canonical contact for later inspection.
type AuditStore interface {
	// Save stores the record for contact.
	Save(ctx context.Context, contact *domain.Contact, raw []byte) error

	// Get returns the record for a contact id or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.AuditRecord, error)

	// Recent returns up to limit of the newest records, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}
