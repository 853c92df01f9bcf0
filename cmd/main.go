package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"contact-relay/internal/adapters/appconfig"
	"contact-relay/internal/adapters/redis"
	"contact-relay/internal/app"
	"contact-relay/internal/config"
	"contact-relay/internal/logging"
	"contact-relay/internal/ports"
)

func main() {
	logger := logging.New(logging.DefaultConfig())

	application, cleanup, err := build(context.Background(), logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(application.Handler().Handle)
		return
	}

	if err := runLocal(application, logger); err != nil {
		logger.Error("local server failed", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func build(ctx context.Context, logger *slog.Logger) (*app.App, func(), error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Secrets.SinkSecretName != "" {
		sm, err := config.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		secret, err := sm.GetSinkSecret(ctx, cfg.Secrets.SinkSecretName)
		if err != nil {
			return nil, nil, err
		}
		cfg.ApplySecret(secret)
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		logger.Info("loaded sink credentials", "secret", cfg.Secrets.SinkSecretName)
	}

	cleanup := func() {}
	var (
		ledger ports.Ledger
		audit  ports.AuditStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = redisClient.Close() }
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)

		ledger = redis.NewLedger(redisClient, cfg.Store.DedupTTL)
		audit = redis.NewAuditStore(redisClient, cfg.Store.AuditTTL, cfg.Store.RecentLimit,
			logging.WithComponent(logger, "audit_store"))
	} else {
		logger.Warn("redis disabled: audit trail and kanban dedup are off")
	}

	application, err := app.New(ctx, app.Options{
		Config:  cfg,
		Logger:  logger,
		Routing: appconfig.NewLoader(cfg.AppConfig, logging.WithComponent(logger, "config_loader")),
		Ledger:  ledger,
		Audit:   audit,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return application, func() {
		application.Close()
		cleanup()
	}, nil
}

// runLocal serves the same handler over plain HTTP for development.
func runLocal(application *app.App, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addr := os.Getenv("LOCAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           proxy(application, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	}
}

// proxy turns an HTTP request into the API Gateway shape the handler expects.
func proxy(application *app.App, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		req := events.APIGatewayProxyRequest{
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			Headers:               make(map[string]string, len(r.Header)),
			QueryStringParameters: make(map[string]string),
			Body:                  string(body),
		}
		for k := range r.Header {
			req.Headers[k] = r.Header.Get(k)
		}
		for k := range r.URL.Query() {
			req.QueryStringParameters[k] = r.URL.Query().Get(k)
		}

		resp, err := application.Handler().Handle(r.Context(), req)
		if err != nil {
			logger.Error("handler failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}
