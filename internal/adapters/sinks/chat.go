package sinks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
)

// ChatSink posts contacts to a Slack-compatible incoming webhook.
type ChatSink struct {
	client     *resty.Client
	webhookURL string
	opts       Options
}

type chatPayload struct {
	Text string `json:"text"`
}

// NewChatSink creates a chat sink.
func NewChatSink(cfg config.ChatConfig, opts Options) *ChatSink {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("sink", config.SinkChat)
	return &ChatSink{
		client:     newClient("", opts),
		webhookURL: cfg.WebhookURL,
		opts:       opts,
	}
}

// Name implements ports.Sink.
func (s *ChatSink) Name() string { return config.SinkChat }

// Accept posts the markup rendering of contact.
func (s *ChatSink) Accept(ctx context.Context, contact *domain.Contact, _ []byte) error {
	if err := s.post(ctx, contact.RenderMessage(domain.StyleMarkup)); err != nil {
		return &domain.SinkError{Sink: s.Name(), Op: "post contact", Err: err}
	}
	s.opts.Logger.Info("contact posted", "contact_id", contact.ID())
	return nil
}

// NotifyFeedback posts website feedback as a key/value block.
func (s *ChatSink) NotifyFeedback(ctx context.Context, attrs map[string]string) error {
	if err := s.post(ctx, renderFeedback(attrs)); err != nil {
		return &domain.SinkError{Sink: s.Name(), Op: "post feedback", Err: err}
	}
	return nil
}

func (s *ChatSink) post(ctx context.Context, text string) error {
	_, err := send(ctx, s.opts, func(ctx context.Context) (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetBody(chatPayload{Text: text}).
			Post(s.webhookURL)
	})
	return err
}

func renderFeedback(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{"*New Website Feedback*"}
	for _, k := range keys {
		v := strings.TrimSpace(attrs[k])
		if v == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label(k), v))
	}
	return strings.Join(lines, "\n")
}

func label(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
