package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/utils"
)

// Batch object prefixes.
const (
	BatchIncomingPrefix  = "batch/incoming/"
	BatchResultsPrefix   = "batch/results/"
	BatchProcessedPrefix = "batch/processed/"
)

const uploadURLExpiry = time.Hour

// UploadPresigner issues presigned upload URLs.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

// UploadURLResponse is the response structure for upload URL requests.
type UploadURLResponse struct {
	UploadURL  string `json:"uploadUrl"`
	S3Key      string `json:"s3Key"`
	ResultsKey string `json:"resultsKey"`
	ExpiresIn  int    `json:"expiresIn"`
}

// BatchUploadHandler issues presigned URLs for batch questionnaire CSVs.
type BatchUploadHandler struct {
	presigner UploadPresigner
	now       func() time.Time
}

// NewBatchUploadHandler creates a new batch upload handler.
func NewBatchUploadHandler(p UploadPresigner) *BatchUploadHandler {
	return &BatchUploadHandler{presigner: p, now: time.Now}
}

// Handle processes the API Gateway request for generating upload URLs.
func (h *BatchUploadHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers)
	}

	filename := request.QueryStringParameters["filename"]
	if filename == "" {
		filename = "profiles_" + uuid.New().String()[:8] + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return errorResponse(headers, http.StatusBadRequest, "Only CSV files are allowed")
	}

	key := BatchIncomingPrefix + h.now().UTC().Format("2006/01/02") + "/" +
		uuid.New().String() + "_" + sanitizeFilename(filename)

	url, err := h.presigner.PresignUpload(ctx, key, "text/csv", uploadURLExpiry)
	if err != nil {
		logger.Error("Failed to generate presigned URL", zap.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to generate upload URL")
	}

	logger.Info("Generated presigned URL", zap.String("s3Key", key))

	return successResponse(headers, UploadURLResponse{
		UploadURL:  url,
		S3Key:      key,
		ResultsKey: ResultsKeyFor(key),
		ExpiresIn:  int(uploadURLExpiry.Seconds()),
	})
}

// ResultsKeyFor maps an incoming batch key to the key of its results document.
func ResultsKeyFor(key string) string {
	rel := strings.TrimPrefix(key, BatchIncomingPrefix)
	rel = strings.TrimSuffix(rel, ".csv")
	return BatchResultsPrefix + rel + ".json"
}

// sanitizeFilename removes unsafe characters from filename.
func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if len(safe) > 100 {
		safe = safe[len(safe)-100:]
	}
	return safe
}
