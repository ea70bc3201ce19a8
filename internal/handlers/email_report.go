package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/ses"
	"nomad-visa-engine/internal/utils"
)

// ReportSender emails a recommendation report.
type ReportSender interface {
	SendRecommendationReport(ctx context.Context, to string, results []models.CountryResult) (*ses.SendEmailResult, error)
}

// EmailReportRequest is the body of POST /api/recommend/email.
type EmailReportRequest struct {
	Email   string             `json:"email"`
	Answers models.UserAnswers `json:"answers"`
}

// EmailReportResponse is returned after a report was sent.
type EmailReportResponse struct {
	RequestID string `json:"request_id"`
	MessageID string `json:"message_id"`
	Fallback  bool   `json:"fallback"`
}

// EmailReportHandler runs a recommendation and emails the report.
type EmailReportHandler struct {
	svc    Recommender
	sender ReportSender
}

// NewEmailReportHandler creates a new email report handler.
func NewEmailReportHandler(svc Recommender, sender ReportSender) *EmailReportHandler {
	return &EmailReportHandler{svc: svc, sender: sender}
}

// DecodeEmailReport parses and checks an email report request.
func DecodeEmailReport(body string) (*EmailReportRequest, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	var req EmailReportRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, ErrInvalidJSON
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := models.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	return &req, nil
}

// Send runs the recommendation and emails it.
func (h *EmailReportHandler) Send(ctx context.Context, req *EmailReportRequest) (*EmailReportResponse, error) {
	rec, err := h.svc.Recommend(ctx, &req.Answers)
	if err != nil {
		return nil, err
	}

	sent, err := h.sender.SendRecommendationReport(ctx, req.Email, rec.Results)
	if err != nil {
		return nil, err
	}

	return &EmailReportResponse{
		RequestID: rec.RequestID,
		MessageID: sent.MessageID,
		Fallback:  rec.Fallback,
	}, nil
}

// Handle processes API Gateway requests for email reports.
func (h *EmailReportHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("POST,OPTIONS")

	switch request.HTTPMethod {
	case http.MethodOptions:
		return preflight(headers)
	case http.MethodPost:
	default:
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}

	req, err := DecodeEmailReport(request.Body)
	if err != nil {
		return errorResponse(headers, StatusFor(err), err.Error())
	}

	resp, err := h.Send(ctx, req)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			utils.GetLogger().Error("Failed to send report", zap.Error(err))
			return errorResponse(headers, status, "Failed to send report")
		}
		return errorResponse(headers, status, err.Error())
	}

	return successResponse(headers, resp)
}
