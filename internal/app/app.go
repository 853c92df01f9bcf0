package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contact-relay/internal/adapters/sinks"
	"contact-relay/internal/config"
	"contact-relay/internal/events"
	"contact-relay/internal/extract"
	"contact-relay/internal/handler"
	"contact-relay/internal/ports"
	"contact-relay/internal/service"
)

// App is the main application container.
type App struct {
	cfg         *config.AppConfig
	logger      *slog.Logger
	coordinator *events.Coordinator
	ingestor    *service.Ingestor
	handler     *handler.APIHandler
	cancels     []func()
}

// Options configures the App. Ledger and Audit are nil when Redis is
// disabled. Sinks overrides the sinks built from Config.
type Options struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Routing ports.RoutingLoader
	Ledger  ports.Ledger
	Audit   ports.AuditStore
	Sinks   []ports.Sink
}

// New creates a new App, subscribing every routed sink to its topics.
func New(ctx context.Context, opts Options) (*App, error) {
	routing, err := opts.Routing.LoadRouting(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routing: %w", err)
	}

	sinkList := opts.Sinks
	if sinkList == nil {
		sinkList = BuildSinks(opts.Config, opts.Ledger, opts.Audit, opts.Logger)
	}
	byName := make(map[string]ports.Sink, len(sinkList))
	for _, s := range sinkList {
		byName[s.Name()] = s
	}

	a := &App{
		cfg:         opts.Config,
		logger:      opts.Logger,
		coordinator: events.New(opts.Logger.With("component", "coordinator")),
	}

	for _, topic := range routing.Topics() {
		for _, name := range routing.SinksFor(topic) {
			sink, ok := byName[name]
			if !ok {
				a.logger.Warn("sink not configured, skipping route", "topic", topic, "sink", name)
				continue
			}

			h, err := a.handlerFor(topic, sink)
			if err != nil {
				a.logger.Warn("sink cannot serve topic, skipping route", "topic", topic, "sink", name, "error", err)
				continue
			}

			_, cancel := a.coordinator.Subscribe(topic, name, h)
			a.cancels = append(a.cancels, cancel)
		}
		a.logger.Debug("topic routed", "topic", topic, "subscribers", a.coordinator.Subscribers(topic))
	}

	a.ingestor = service.NewIngestor(
		extract.DefaultRegistry(),
		a.coordinator,
		opts.Config.Dispatch,
		opts.Logger.With("component", "ingestor"),
	)
	a.handler = handler.NewAPIHandler(
		a.ingestor,
		opts.Audit,
		opts.Config.Webhooks,
		opts.Logger.With("component", "api"),
	)

	a.logger.Info("application ready", "sinks", len(byName), "subscriptions", len(a.cancels))
	return a, nil
}

var errNotNotifier = errors.New("sink does not accept feedback")

// handlerFor adapts a sink to a coordinator handler with a per-call timeout.
func (a *App) handlerFor(topic string, sink ports.Sink) (events.Handler, error) {
	timeout := a.cfg.Dispatch.SinkTimeout

	if topic == events.TopicWebsiteFeedback {
		notifier, ok := sink.(ports.FeedbackNotifier)
		if !ok {
			return nil, errNotNotifier
		}
		return func(ctx context.Context, evt events.Event) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return notifier.NotifyFeedback(ctx, evt.Attrs)
		}, nil
	}

	return func(ctx context.Context, evt events.Event) error {
		if evt.Contact == nil {
			return fmt.Errorf("event %s on %s has no contact", evt.ID, evt.Topic)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return sink.Accept(ctx, evt.Contact, evt.Raw)
	}, nil
}

// BuildSinks creates every sink that has the credentials it needs.
func BuildSinks(cfg *config.AppConfig, ledger ports.Ledger, audit ports.AuditStore, logger *slog.Logger) []ports.Sink {
	opts := sinks.Options{
		Timeout:    cfg.Dispatch.SinkTimeout,
		MaxRetries: uint64(cfg.Dispatch.MaxRetries),
		BaseDelay:  cfg.Dispatch.RetryBaseDelay,
		Logger:     logger.With("component", "sinks"),
	}
	configured := cfg.Sinks.Configured()

	var out []ports.Sink
	if audit != nil {
		out = append(out, sinks.NewAuditSink(audit))
	}
	if configured[config.SinkChat] {
		out = append(out, sinks.NewChatSink(cfg.Sinks.Chat, opts))
	}
	if configured[config.SinkWhatsApp] {
		out = append(out, sinks.NewWhatsAppSink(cfg.Sinks.WhatsApp, opts))
	}
	if configured[config.SinkAnalytics] {
		out = append(out, sinks.NewAnalyticsSink(cfg.Sinks.Analytics, opts))
	}
	if configured[config.SinkKanban] {
		out = append(out, sinks.NewKanbanSink(cfg.Sinks.Kanban, ledger, opts))
	}
	return out
}

// Handler returns the API Gateway handler.
func (a *App) Handler() *handler.APIHandler {
	return a.handler
}

// Ingestor returns the ingestion service.
func (a *App) Ingestor() *service.Ingestor {
	return a.ingestor
}

// Close unsubscribes every sink.
func (a *App) Close() {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil
}
