package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/utils"
)

// Recommender ranks countries for one questionnaire.
type Recommender interface {
	Recommend(ctx context.Context, user *models.UserAnswers) (*models.Recommendation, error)
}

// RecommendHandler handles POST /api/recommend.
type RecommendHandler struct {
	svc Recommender
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(svc Recommender) *RecommendHandler {
	return &RecommendHandler{svc: svc}
}

// Handle decodes the questionnaire and returns the ranked countries.
func (h *RecommendHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("POST,OPTIONS")

	switch request.HTTPMethod {
	case http.MethodOptions:
		return preflight(headers)
	case http.MethodPost:
	default:
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}

	answers, err := DecodeAnswers(request.Body)
	if err != nil {
		return errorResponse(headers, StatusFor(err), err.Error())
	}

	rec, err := h.svc.Recommend(ctx, answers)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("Recommendation failed", zap.Error(err))
			return errorResponse(headers, status, "Failed to compute recommendations")
		}
		return errorResponse(headers, status, err.Error())
	}

	utils.WithRequestID(rec.RequestID).Info("Recommendation served",
		zap.Int("results", len(rec.Results)),
		zap.Bool("fallback", rec.Fallback),
	)

	return successResponse(headers, rec)
}
