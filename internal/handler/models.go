package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response.
type SuccessResponse struct {
	Data any `json:"data"`
}

// IngestResponse is returned for an accepted webhook.
type IngestResponse struct {
	ContactID string `json:"contact_id"`
	EventID   string `json:"event_id"`
	Handlers  int    `json:"handlers"`
}

// FeedbackRequest is the website feedback widget submission.
type FeedbackRequest struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Message string `json:"message" validate:"required,max=5000"`
	PageURL string `json:"page_url" validate:"omitempty,url"`
}

// Attrs flattens the request for publishing.
func (r *FeedbackRequest) Attrs() map[string]string {
	attrs := map[string]string{
		"name":     r.Name,
		"email":    r.Email,
		"message":  r.Message,
		"page_url": r.PageURL,
	}
	if r.Rating > 0 {
		attrs["rating"] = strconv.Itoa(r.Rating)
	}
	return attrs
}

var jsonHeaders = map[string]string{
	"Content-Type": "application/json",
}

// NewErrorResponse creates an API Gateway error response.
func NewErrorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	body := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		slog.Error("failed to marshal error response",
			"error", err,
			"status_code", statusCode,
			"message", message)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       `{"error":"Internal Server Error","message":"failed to build error response"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       string(bodyJSON),
	}
}

// NewSuccessResponse creates an API Gateway success response.
func NewSuccessResponse(statusCode int, data any) events.APIGatewayProxyResponse {
	bodyJSON, err := json.Marshal(SuccessResponse{Data: data})
	if err != nil {
		slog.Error("failed to marshal success response",
			"error", err,
			"status_code", statusCode)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       `{"error":"Internal Server Error","message":"failed to build response"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       string(bodyJSON),
	}
}
