package appconfig

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"contact-relay/internal/config"
)

// Loader implements ports.RoutingLoader using the AWS AppConfig agent.
type Loader struct {
	client   *resty.Client
	settings config.AppConfigSettings
	logger   *slog.Logger
	cached   *config.Routing
	mu       sync.RWMutex
}

// NewLoader creates a new AppConfig loader.
func NewLoader(cfg config.AppConfigSettings, logger *slog.Logger) *Loader {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/x-yaml, text/yaml, */*")

	return &Loader{
		client:   client,
		settings: cfg,
		logger:   logger,
	}
}

// LoadRouting returns the routing table. Without a routing profile the
// built-in table is used. The first successful load is cached.
func (l *Loader) LoadRouting(ctx context.Context) (*config.Routing, error) {
	if l.settings.RoutingProfile == "" {
		return config.DefaultRouting(), nil
	}

	l.mu.RLock()
	if l.cached != nil {
		cached := l.cached
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return l.cached, nil
	}

	data, err := l.loadProfile(ctx, l.settings.RoutingProfile)
	if err != nil {
		return nil, fmt.Errorf("load routing %s: %w", l.settings.RoutingProfile, err)
	}

	routing, err := config.ParseRouting(data)
	if err != nil {
		return nil, err
	}

	l.cached = routing
	l.logger.Debug("loaded routing config", "profile", l.settings.RoutingProfile, "topics", len(routing.Routes))

	return routing, nil
}

// profilePath uses the agent's application/environment layout when both ids
// are set and a flat "{profile}.yaml" path otherwise.
func (l *Loader) profilePath(profile string) string {
	if l.settings.ApplicationID != "" && l.settings.EnvironmentID != "" {
		return fmt.Sprintf("/applications/%s/environments/%s/configurations/%s",
			l.settings.ApplicationID, l.settings.EnvironmentID, profile)
	}
	return fmt.Sprintf("/%s.yaml", profile)
}

func (l *Loader) loadProfile(ctx context.Context, profile string) ([]byte, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.profilePath(profile))
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("config not found: %s (status %d)", profile, resp.StatusCode())
	}

	return resp.Body(), nil
}

// ClearCache forces the next LoadRouting to fetch again.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}
