package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
	"contact-relay/internal/events"
	"contact-relay/internal/extract"
)

// Publisher fans an event out to its subscribers.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event) *events.Delivery
}

// ErrEmptyFeedback is returned when a feedback submission carries no values.
var ErrEmptyFeedback = errors.New("feedback has no values")

// Ingestor turns raw upstream payloads into published contacts.
type Ingestor struct {
	registry  *extract.Registry
	publisher Publisher
	dispatch  config.DispatchConfig
	logger    *slog.Logger
}

// NewIngestor creates a new ingestor with injected dependencies.
func NewIngestor(
	registry *extract.Registry,
	publisher Publisher,
	dispatch config.DispatchConfig,
	logger *slog.Logger,
) *Ingestor {
	return &Ingestor{
		registry:  registry,
		publisher: publisher,
		dispatch:  dispatch,
		logger:    logger,
	}
}

// Ingest extracts, normalises and publishes one payload. A ParseError means
// nothing was published. Sink failures never fail the ingest; they are
// collected on the returned Delivery.
func (i *Ingestor) Ingest(ctx context.Context, raw domain.RawMessage) (*domain.Contact, *events.Delivery, error) {
	logger := i.logger.With("source", raw.Source)

	extractor, err := i.registry.Lookup(raw.Source)
	if err != nil {
		return nil, nil, err
	}

	topic, ok := events.TopicFor(raw.Source)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no topic for %s", domain.ErrUnknownSource, raw.Source)
	}

	fields, err := extractor.Extract(raw)
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("payload rejected", "field", parseErr.Field, "anchor", parseErr.Anchor, "error", err)
		}
		return nil, nil, err
	}

	contact, err := domain.NewContact(extractor.ContactType(), extractor.SourceLabel(), fields)
	if err != nil {
		return nil, nil, fmt.Errorf("build contact: %w", err)
	}
	logRejected(logger, fields, contact)

	delivery := i.publisher.Publish(ctx, events.Event{
		Topic:   topic,
		Contact: contact,
		Raw:     raw.Body,
	})

	logger.Info("contact published",
		"contact_id", contact.ID(),
		"topic", topic,
		"event_id", delivery.EventID,
		"handlers", delivery.Handlers,
	)

	i.await(ctx, delivery, logger)

	return contact, delivery, nil
}

// Feedback publishes a website feedback submission. It never becomes a Contact.
func (i *Ingestor) Feedback(ctx context.Context, attrs map[string]string) (*events.Delivery, error) {
	clean := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if v = strings.TrimSpace(v); v != "" {
			clean[k] = v
		}
	}
	if len(clean) == 0 {
		return nil, ErrEmptyFeedback
	}

	delivery := i.publisher.Publish(ctx, events.Event{
		Topic: events.TopicWebsiteFeedback,
		Attrs: clean,
	})

	i.logger.Info("feedback published", "event_id", delivery.EventID, "handlers", delivery.Handlers)
	i.await(ctx, delivery, i.logger)

	return delivery, nil
}

// await blocks for the delivery when configured to. Lambda needs this, since
// the process may be frozen as soon as the response is returned.
func (i *Ingestor) await(ctx context.Context, delivery *events.Delivery, logger *slog.Logger) {
	if !i.dispatch.AwaitDelivery || delivery.Handlers == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.dispatch.DeliveryTimeout)
	defer cancel()

	failed, err := delivery.WaitContext(ctx)
	if err != nil {
		logger.Warn("delivery still running after timeout",
			"event_id", delivery.EventID,
			"timeout", i.dispatch.DeliveryTimeout,
		)
		return
	}

	logger.Info("delivery complete",
		"event_id", delivery.EventID,
		"handlers", delivery.Handlers,
		"failed", len(failed),
	)
}

// logRejected notes phone values the normaliser dropped.
func logRejected(logger *slog.Logger, fields domain.FieldMap, contact *domain.Contact) {
	if v := strings.TrimSpace(fields[domain.FieldPhone]); v != "" && !contact.Phone().Valid {
		logger.Debug("phone dropped", "field", domain.FieldPhone, "value", v, "error", domain.ErrNormalizationRejected)
	}
	if v := strings.TrimSpace(fields[domain.FieldCallerID]); v != "" && !contact.AlternatePhone().Valid {
		logger.Debug("phone dropped", "field", domain.FieldCallerID, "value", v, "error", domain.ErrNormalizationRejected)
	}
}
