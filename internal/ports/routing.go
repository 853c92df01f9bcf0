package ports

import (
	"context"

	"contact-relay/internal/config"
)

// RoutingLoader loads the topic to sink routing table.
type RoutingLoader interface {
	LoadRouting(ctx context.Context) (*config.Routing, error)
}
