package sinks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
	"contact-relay/internal/ports"
)

// releaseTimeout bounds the claim release after a failed create. The
// delivery context may already be done at that point.
const releaseTimeout = 2 * time.Second

// KanbanSink opens one card per contact on the configured list.
type KanbanSink struct {
	client *resty.Client
	cfg    config.KanbanConfig
	ledger ports.Ledger
	opts   Options
}

type cardResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"shortUrl"`
}

// NewKanbanSink creates a kanban sink. With a nil ledger every contact
// opens a card.
func NewKanbanSink(cfg config.KanbanConfig, ledger ports.Ledger, opts Options) *KanbanSink {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("sink", config.SinkKanban)
	return &KanbanSink{
		client: newClient(strings.TrimRight(cfg.Endpoint, "/"), opts),
		cfg:    cfg,
		ledger: ledger,
		opts:   opts,
	}
}

// Name implements ports.Sink.
func (s *KanbanSink) Name() string { return config.SinkKanban }

// Accept creates the card unless the ledger has already seen this contact.
// A failed create releases the claim.
func (s *KanbanSink) Accept(ctx context.Context, contact *domain.Contact, _ []byte) error {
	if s.ledger != nil {
		claimed, err := s.ledger.Claim(ctx, s.Name(), contact)
		if err != nil {
			return &domain.SinkError{Sink: s.Name(), Op: "claim", Err: err}
		}
		if !claimed {
			s.opts.Logger.Info("duplicate contact, card skipped", "contact_id", contact.ID())
			return nil
		}
	}

	card, err := s.createCard(ctx, contact)
	if err != nil {
		s.release(ctx, contact)
		return &domain.SinkError{Sink: s.Name(), Op: "create card", Err: err}
	}

	s.opts.Logger.Info("card created", "contact_id", contact.ID(), "card_id", card.ID)
	return nil
}

func (s *KanbanSink) release(ctx context.Context, contact *domain.Contact) {
	if s.ledger == nil {
		return
	}
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.ledger.Release(relCtx, s.Name(), contact); err != nil {
		s.opts.Logger.Warn("failed to release claim", "contact_id", contact.ID(), "error", err)
	}
}

// CardTitle is "{type}: {name}" with Unknown for a missing name.
func CardTitle(contact *domain.Contact) string {
	return fmt.Sprintf("%s: %s", contact.Type(), contact.Name().Or("Unknown"))
}

// createCard sends every field, credentials included, as form data so that
// transport errors (which quote the request URL) carry no secrets.
func (s *KanbanSink) createCard(ctx context.Context, contact *domain.Contact) (*cardResponse, error) {
	var card cardResponse
	_, err := send(ctx, s.opts, func(ctx context.Context) (*resty.Response, error) {
		return s.client.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"key":    s.cfg.Key,
				"token":  s.cfg.Token,
				"idList": s.cfg.ListID,
				"name":   CardTitle(contact),
				"desc":   contact.RenderMessage(domain.StylePlain),
				"pos":    "top",
			}).
			SetResult(&card).
			ExpectContentType("application/json").
			Post("/1/cards")
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}
