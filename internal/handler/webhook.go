package handler

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"contact-relay/internal/domain"
	"contact-relay/internal/extract"
)

// handleWebhook handles POST /webhooks/{source}.
func (h *APIHandler) handleWebhook(ctx context.Context, req events.APIGatewayProxyRequest, source domain.Source) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With("source", source)

	body, err := requestBody(req)
	if err != nil {
		logger.Warn("invalid request body", "error", err)
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	contentType := header(req, "Content-Type")
	if source == domain.SourceAnswerphone {
		body = unwrapInboundMail(body, contentType)
	}

	if expectsJSON(source, body) && !json.Valid(body) {
		logger.Warn("invalid JSON body")
		return NewErrorResponse(http.StatusBadRequest, "invalid JSON body"), nil
	}

	if source == domain.SourceAdLead && !h.adLeadAuthorized(body) {
		logger.Warn("ad lead key mismatch")
		return NewErrorResponse(http.StatusUnauthorized, "invalid google_key"), nil
	}

	contact, delivery, err := h.service.Ingest(ctx, domain.NewRawMessage(source, body, contentType))
	if err != nil {
		var parseErr *domain.ParseError
		switch {
		case errors.As(err, &parseErr):
			return NewErrorResponse(http.StatusUnprocessableEntity, parseErr.Error()), nil
		case errors.Is(err, domain.ErrUnknownSource):
			return NewErrorResponse(http.StatusNotFound, err.Error()), nil
		default:
			logger.Error("failed to ingest payload", "error", err)
			return NewErrorResponse(http.StatusInternalServerError, "internal error"), nil
		}
	}

	return NewSuccessResponse(http.StatusAccepted, IngestResponse{
		ContactID: contact.ID(),
		EventID:   delivery.EventID,
		Handlers:  delivery.Handlers,
	}), nil
}

// adLeadAuthorized compares the payload key with the configured key. With no
// key configured every lead is accepted.
func (h *APIHandler) adLeadAuthorized(body []byte) bool {
	if h.webhooks.GoogleKey == "" {
		return true
	}
	payload, err := extract.DecodeAdLead(body)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(payload.GoogleKey), []byte(h.webhooks.GoogleKey)) == 1
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return body, nil
}

// header looks a header up case-insensitively; API Gateway preserves the
// client's casing.
func header(req events.APIGatewayProxyRequest, name string) string {
	if v, ok := req.Headers[name]; ok {
		return v
	}
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func expectsJSON(source domain.Source, body []byte) bool {
	switch source {
	case domain.SourceJobber, domain.SourceAdLead:
		return true
	case domain.SourceWebsite:
		trimmed := strings.TrimSpace(string(body))
		return strings.HasPrefix(trimmed, "{")
	default:
		return false
	}
}

// unwrapInboundMail returns the plain-text part of a form-encoded inbound mail
// post. Any other body is returned unchanged.
func unwrapInboundMail(body []byte, contentType string) []byte {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return body
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return body
	}
	if plain := form.Get("body-plain"); plain != "" {
		return []byte(plain)
	}
	if plain := form.Get("stripped-text"); plain != "" {
		return []byte(plain)
	}
	return body
}
