package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"contact-relay/internal/domain"
)

// AuditStore implements ports.AuditStore. Each record lives under its own key
// with a TTL; contacts:recent holds the newest ids, capped to limit.
type AuditStore struct {
	client *Client
	ttl    time.Duration
	limit  int64
	logger *slog.Logger
}

// NewAuditStore creates a new audit store.
func NewAuditStore(client *Client, ttl time.Duration, limit int64, logger *slog.Logger) *AuditStore {
	return &AuditStore{
		client: client,
		ttl:    ttl,
		limit:  limit,
		logger: logger,
	}
}

// Save stores the contact and its raw payload.
func (s *AuditStore) Save(ctx context.Context, contact *domain.Contact, raw []byte) error {
	record, err := domain.NewAuditRecord(contact, raw)
	if err != nil {
		return fmt.Errorf("build audit record: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	key := fmt.Sprintf(KeyPatternContactAudit, contact.ID())
	_, err = s.client.Native().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, s.ttl)
		pipe.LPush(ctx, KeyContactsRecent, contact.ID())
		pipe.LTrim(ctx, KeyContactsRecent, 0, s.limit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save audit record: %w", err)
	}

	return nil
}

// Get retrieves the record for a contact id.
func (s *AuditStore) Get(ctx context.Context, id string) (*domain.AuditRecord, error) {
	key := fmt.Sprintf(KeyPatternContactAudit, id)

	data, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get audit record: %w", err)
	}

	var record domain.AuditRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("unmarshal audit record: %w", err)
	}

	return &record, nil
}

// Recent returns up to limit records, newest first. Ids whose record has
// expired are skipped.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := s.client.Native().LRange(ctx, KeyContactsRecent, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent contacts: %w", err)
	}

	records := make([]*domain.AuditRecord, 0, len(ids))
	for _, id := range ids {
		record, err := s.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("failed to read audit record", "contact_id", id, "error", err)
			}
			continue
		}
		records = append(records, record)
	}

	s.logger.Debug("recent contacts listed", "requested", limit, "count", len(records))
	return records, nil
}
