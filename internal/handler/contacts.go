package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"contact-relay/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// handleRecent handles GET /contacts/recent?limit=N.
func (h *APIHandler) handleRecent(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if h.audit == nil {
		return NewErrorResponse(http.StatusServiceUnavailable, "audit store disabled"), nil
	}

	limit := defaultRecentLimit
	if raw := req.QueryStringParameters["limit"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return NewErrorResponse(http.StatusBadRequest, "limit must be a positive integer"), nil
		}
		limit = min(n, maxRecentLimit)
	}

	records, err := h.audit.Recent(ctx, limit)
	if err != nil {
		h.logger.Error("failed to list recent contacts", "error", err)
		return NewErrorResponse(http.StatusInternalServerError, "internal error"), nil
	}

	return NewSuccessResponse(http.StatusOK, records), nil
}

// handleContact handles GET /contacts/{id}.
func (h *APIHandler) handleContact(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	if h.audit == nil {
		return NewErrorResponse(http.StatusServiceUnavailable, "audit store disabled"), nil
	}
	if id == "" {
		return NewErrorResponse(http.StatusNotFound, "route not found"), nil
	}

	record, err := h.audit.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewErrorResponse(http.StatusNotFound, "contact not found"), nil
		}
		h.logger.Error("failed to get contact", "contact_id", id, "error", err)
		return NewErrorResponse(http.StatusInternalServerError, "internal error"), nil
	}

	return NewSuccessResponse(http.StatusOK, record), nil
}
