// Package handlers provides the API Gateway and S3 event handlers for the
// nomad visa engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"nomad-visa-engine/internal/models"
)

// Response is the standard API envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// corsHeaders returns the CORS headers for the given allowed methods.
func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}

// jsonResponse creates a response with a JSON body.
func jsonResponse(headers map[string]string, statusCode int, payload interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "Failed to encode response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// successResponse wraps data in a successful envelope.
func successResponse(headers map[string]string, data interface{}) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(headers, http.StatusOK, Response{Success: true, Data: data})
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(Response{
		Success: false,
		Error:   message,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// preflight answers a CORS preflight request.
func preflight(headers map[string]string) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}, nil
}

// DecodeAnswers parses a questionnaire JSON body. Enum and range checks are
// left to models.ValidateAnswers.
func DecodeAnswers(body string) (*models.UserAnswers, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	var answers models.UserAnswers
	if err := json.Unmarshal([]byte(body), &answers); err != nil {
		return nil, ErrInvalidJSON
	}
	return &answers, nil
}

// Request errors
var (
	ErrEmptyBody   = errors.New("request body is empty")
	ErrInvalidJSON = errors.New("invalid JSON in request body")
)

// StatusFor maps a request error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyBody),
		errors.Is(err, ErrInvalidJSON),
		errors.Is(err, models.ErrInvalidAnswers),
		errors.Is(err, models.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCountryNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
