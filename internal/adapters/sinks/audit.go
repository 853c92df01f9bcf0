package sinks

import (
	"context"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
	"contact-relay/internal/ports"
)

// AuditSink keeps the raw payload and canonical contact in the audit store.
type AuditSink struct {
	store ports.AuditStore
}

// NewAuditSink creates an audit sink.
func NewAuditSink(store ports.AuditStore) *AuditSink {
	return &AuditSink{store: store}
}

// Name implements ports.Sink.
func (s *AuditSink) Name() string { return config.SinkAudit }

// Accept implements ports.Sink.
func (s *AuditSink) Accept(ctx context.Context, contact *domain.Contact, raw []byte) error {
	if err := s.store.Save(ctx, contact, raw); err != nil {
		return &domain.SinkError{Sink: s.Name(), Op: "save", Err: err}
	}
	return nil
}
