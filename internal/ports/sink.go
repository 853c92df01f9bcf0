package ports

import (
	"context"

	"contact-relay/internal/domain"
)

// Sink is a downstream consumer of published contacts. Each sink is
// subscribed to the coordinator independently, so one failing sink never
// affects another.
type Sink interface {
	// Name identifies the sink in logs and delivery errors.
	Name() string

	// Accept delivers one contact. raw is the original upstream payload.
	Accept(ctx context.Context, contact *domain.Contact, raw []byte) error
}

// FeedbackNotifier receives free-form website feedback that never becomes a Contact.
type FeedbackNotifier interface {
	NotifyFeedback(ctx context.Context, attrs map[string]string) error
}
