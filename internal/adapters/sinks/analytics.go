package sinks

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
)

// AnalyticsSink records each contact as a capture event.
type AnalyticsSink struct {
	client *resty.Client
	apiKey string
	opts   Options
}

type captureEvent struct {
	APIKey     string          `json:"api_key"`
	Event      string          `json:"event"`
	DistinctID string          `json:"distinct_id"`
	Properties *domain.Contact `json:"properties"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewAnalyticsSink creates an analytics sink.
func NewAnalyticsSink(cfg config.AnalyticsConfig, opts Options) *AnalyticsSink {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("sink", config.SinkAnalytics)
	return &AnalyticsSink{
		client: newClient(strings.TrimRight(cfg.Endpoint, "/"), opts),
		apiKey: cfg.APIKey,
		opts:   opts,
	}
}

// Name implements ports.Sink.
func (s *AnalyticsSink) Name() string { return config.SinkAnalytics }

// Accept captures one event named after the contact type.
func (s *AnalyticsSink) Accept(ctx context.Context, contact *domain.Contact, _ []byte) error {
	evt := captureEvent{
		APIKey:     s.apiKey,
		Event:      contact.Type(),
		DistinctID: DistinctID(contact),
		Properties: contact,
		Timestamp:  contact.ReceivedAt().UTC(),
	}

	_, err := send(ctx, s.opts, func(ctx context.Context) (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetBody(evt).
			Post("/capture/")
	})
	if err != nil {
		return &domain.SinkError{Sink: s.Name(), Op: "capture", Err: err}
	}
	return nil
}

// DistinctID identifies the person behind a contact: phone digits, then
// alternate phone digits, then lower-cased email, then the contact id.
func DistinctID(contact *domain.Contact) string {
	if d, ok := contact.PhoneDigits().Get(); ok {
		return d
	}
	if d, ok := contact.AlternatePhoneDigits().Get(); ok {
		return d
	}
	if e, ok := contact.Email().Get(); ok {
		return strings.ToLower(e)
	}
	return contact.ID()
}
