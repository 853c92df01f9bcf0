package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"

	"contact-relay/internal/config"
	"contact-relay/internal/domain"
	relayevents "contact-relay/internal/events"
	"contact-relay/internal/ports"
)

// Ingestor is the service the webhook routes feed.
type Ingestor interface {
	Ingest(ctx context.Context, raw domain.RawMessage) (*domain.Contact, *relayevents.Delivery, error)
	Feedback(ctx context.Context, attrs map[string]string) (*relayevents.Delivery, error)
}

// APIHandler handles HTTP requests from API Gateway.
type APIHandler struct {
	service  Ingestor
	audit    ports.AuditStore
	webhooks config.WebhookConfig
	validate *validator.Validate
	logger   *slog.Logger
}

const webhookPrefix = "/webhooks/"

var webhookSources = map[string]domain.Source{
	"answerphone": domain.SourceAnswerphone,
	"website":     domain.SourceWebsite,
	"jobber":      domain.SourceJobber,
	"adlead":      domain.SourceAdLead,
}

// NewAPIHandler creates a new API handler. audit may be nil, in which case
// the contact lookup routes answer 503.
func NewAPIHandler(service Ingestor, audit ports.AuditStore, webhooks config.WebhookConfig, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service:  service,
		audit:    audit,
		webhooks: webhooks,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Handle routes API Gateway requests to the appropriate handler.
func (h *APIHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := strings.TrimSuffix(req.Path, "/")
	h.logger.Info("request received",
		"path", path,
		"method", req.HTTPMethod)

	switch {
	case path == "/health" && req.HTTPMethod == http.MethodGet:
		return NewSuccessResponse(http.StatusOK, map[string]string{"status": "ok"}), nil
	case path == webhookPrefix+"feedback" && req.HTTPMethod == http.MethodPost:
		return h.handleFeedback(ctx, req)
	case strings.HasPrefix(path, webhookPrefix) && req.HTTPMethod == http.MethodPost:
		if source, ok := webhookSources[strings.TrimPrefix(path, webhookPrefix)]; ok {
			return h.handleWebhook(ctx, req, source)
		}
	case path == "/contacts/recent" && req.HTTPMethod == http.MethodGet:
		return h.handleRecent(ctx, req)
	case strings.HasPrefix(path, "/contacts/") && req.HTTPMethod == http.MethodGet:
		return h.handleContact(ctx, strings.TrimPrefix(path, "/contacts/"))
	}

	h.logger.Warn("route not found",
		"path", path,
		"method", req.HTTPMethod)
	return NewErrorResponse(http.StatusNotFound, "route not found"), nil
}
