package sinks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
)

// WhatsAppSink notifies the business owners through the WhatsApp Business API.
type WhatsAppSink struct {
	client        *resty.Client
	phoneNumberID string
	owners        []string
	opts          Options
}

// WhatsAppMessage represents a WhatsApp message request.
type WhatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *TextContent `json:"text,omitempty"`
}

// TextContent represents text message content.
type TextContent struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// WhatsAppError represents an API error response.
type WhatsAppError struct {
	ErrorInfo struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func (e *WhatsAppError) Error() string {
	return fmt.Sprintf("whatsapp api error: %s (code: %d, type: %s, trace: %s)",
		e.ErrorInfo.Message, e.ErrorInfo.Code, e.ErrorInfo.Type, e.ErrorInfo.FBTraceID)
}

// NewWhatsAppSink creates a WhatsApp sink. Owner numbers are normalised to
// E.164 without the plus sign; invalid numbers are dropped.
func NewWhatsAppSink(cfg config.WhatsAppConfig, opts Options) *WhatsAppSink {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("sink", config.SinkWhatsApp)

	var owners []string
	for _, n := range cfg.OwnerNumbers {
		phone, ok := domain.NormalizePhone(n)
		if !ok {
			opts.Logger.Warn("skipping invalid owner number", "number", n)
			continue
		}
		owners = append(owners, "1"+domain.PhoneDigits(phone))
	}

	client := newClient(strings.TrimRight(cfg.APIEndpoint, "/"), opts).SetAuthToken(cfg.AccessToken)

	return &WhatsAppSink{
		client:        client,
		phoneNumberID: cfg.PhoneNumberID,
		owners:        owners,
		opts:          opts,
	}
}

// Name implements ports.Sink.
func (s *WhatsAppSink) Name() string { return config.SinkWhatsApp }

// Accept sends the plain rendering of contact to every owner. A failure for
// one owner does not stop delivery to the rest.
func (s *WhatsAppSink) Accept(ctx context.Context, contact *domain.Contact, _ []byte) error {
	body := contact.RenderMessage(domain.StylePlain)

	var errs []error
	for _, to := range s.owners {
		if err := s.sendText(ctx, to, body); err != nil {
			s.opts.Logger.Error("whatsapp api error", "to", to, "contact_id", contact.ID(), "error", err)
			errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
		}
	}

	if len(errs) > 0 {
		return &domain.SinkError{Sink: s.Name(), Op: "send message", Err: errors.Join(errs...)}
	}

	s.opts.Logger.Info("contact sent", "contact_id", contact.ID(), "recipients", len(s.owners))
	return nil
}

func (s *WhatsAppSink) sendText(ctx context.Context, to, body string) error {
	message := WhatsAppMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text: &TextContent{
			PreviewURL: false,
			Body:       body,
		},
	}

	resp, err := send(ctx, s.opts, func(ctx context.Context) (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetBody(message).
			SetError(&WhatsAppError{}).
			ExpectContentType("application/json").
			Post(fmt.Sprintf("/%s/messages", s.phoneNumberID))
	})
	if err != nil {
		if resp != nil {
			if apiErr, ok := resp.Error().(*WhatsAppError); ok && apiErr.ErrorInfo.Message != "" {
				return fmt.Errorf("%w: %w", err, apiErr)
			}
		}
		return err
	}
	return nil
}
