package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
)

// handleFeedback handles POST /webhooks/feedback requests.
func (h *APIHandler) handleFeedback(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	var feedbackReq FeedbackRequest
	if err := json.Unmarshal(body, &feedbackReq); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	if err := h.validate.Struct(&feedbackReq); err != nil {
		h.logger.Warn("validation failed", "error", err)
		return NewErrorResponse(http.StatusBadRequest, describeValidation(err)), nil
	}

	delivery, err := h.service.Feedback(ctx, feedbackReq.Attrs())
	if err != nil {
		h.logger.Error("failed to publish feedback", "error", err)
		return NewErrorResponse(http.StatusInternalServerError, "internal error"), nil
	}

	return NewSuccessResponse(http.StatusAccepted, map[string]string{"event_id": delivery.EventID}), nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
