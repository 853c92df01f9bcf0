package redis

import (
	"context"
	"fmt"
	"time"

	"contact-relay/internal/domain"
)

// Ledger implements ports.Ledger with SETNX claims that expire after ttl.
type Ledger struct {
	client *Client
	ttl    time.Duration
}

// NewLedger creates a new dedup ledger.
func NewLedger(client *Client, ttl time.Duration) *Ledger {
	return &Ledger{
		client: client,
		ttl:    ttl,
	}
}

// Claim records contact for scope. Only the first claim of the same
// fingerprint within ttl returns true.
func (l *Ledger) Claim(ctx context.Context, scope string, contact *domain.Contact) (bool, error) {
	key := fmt.Sprintf(KeyPatternContactClaim, scope, contact.Fingerprint())

	ok, err := l.client.SetNX(ctx, key, contact.ID(), l.ttl)
	if err != nil {
		return false, fmt.Errorf("claim contact %s: %w", contact.ID(), err)
	}

	return ok, nil
}

// Release removes the claim for contact in scope.
func (l *Ledger) Release(ctx context.Context, scope string, contact *domain.Contact) error {
	key := fmt.Sprintf(KeyPatternContactClaim, scope, contact.Fingerprint())

	if err := l.client.Del(ctx, key); err != nil {
		return fmt.Errorf("release contact %s: %w", contact.ID(), err)
	}

	return nil
}
