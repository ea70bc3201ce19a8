package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/services/recommender"
	"nomad-visa-engine/internal/utils"
)

// BatchRunner ranks every profile in a CSV.
type BatchRunner interface {
	RecommendBatch(ctx context.Context, requestID, content string, topN int) (*recommender.BatchResult, error)
}

// BatchStore reads uploaded CSVs and writes their results.
type BatchStore interface {
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	MoveFile(ctx context.Context, src, dst string) error
	FileExists(ctx context.Context, key string) (bool, error)
}

// BatchProcessResult summarizes one S3 event.
type BatchProcessResult struct {
	Message   string   `json:"message"`
	Files     int      `json:"files"`
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Results   []string `json:"results,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// BatchProcessorHandler handles S3 events for uploaded questionnaire CSVs.
type BatchProcessorHandler struct {
	runner BatchRunner
	store  BatchStore
}

// NewBatchProcessorHandler creates a new batch processor.
func NewBatchProcessorHandler(runner BatchRunner, store BatchStore) *BatchProcessorHandler {
	return &BatchProcessorHandler{runner: runner, store: store}
}

// Handle processes every CSV object in the event. A failing file is reported
// and does not stop the others.
func (h *BatchProcessorHandler) Handle(ctx context.Context, s3Event events.S3Event) (BatchProcessResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return BatchProcessResult{Message: "No records to process"}, nil
	}

	result := BatchProcessResult{Message: "Batch processed"}
	for _, record := range s3Event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to decode S3 key: %v", err))
			continue
		}
		if !strings.HasPrefix(key, BatchIncomingPrefix) || !strings.HasSuffix(strings.ToLower(key), ".csv") {
			logger.Debug("Skipping object", zap.String("key", key))
			continue
		}

		// S3 may deliver an event more than once.
		done, err := h.store.FileExists(ctx, ResultsKeyFor(key))
		if err != nil {
			logger.Warn("Failed to check existing results", zap.String("key", key), zap.Error(err))
		}
		if done {
			logger.Info("Results already exist, skipping", zap.String("key", key))
			result.Skipped++
			continue
		}

		result.Files++
		batch, err := h.processFile(ctx, key)
		if err != nil {
			logger.Error("Failed to process batch file", zap.String("key", key), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
			continue
		}

		result.Processed += batch.Processed
		result.Failed += batch.Failed
		result.Results = append(result.Results, ResultsKeyFor(key))
	}

	if result.Files > 0 && len(result.Results) == 0 {
		return result, errors.New("no batch file could be processed")
	}
	return result, nil
}

func (h *BatchProcessorHandler) processFile(ctx context.Context, key string) (*recommender.BatchResult, error) {
	logger := utils.GetLogger()
	logger.Info("Processing batch file", zap.String("key", key))

	content, err := h.store.DownloadFile(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, utils.ErrEmptyCSV
	}

	batch, err := h.runner.RecommendBatch(ctx, batchIDFor(key), string(content), recommender.DefaultTopN)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	if err := h.store.UploadFile(ctx, ResultsKeyFor(key), body, "application/json"); err != nil {
		return nil, err
	}

	archived := BatchProcessedPrefix + strings.TrimPrefix(key, BatchIncomingPrefix)
	if err := h.store.MoveFile(ctx, key, archived); err != nil {
		logger.Warn("Failed to archive file", zap.String("key", key), zap.Error(err))
	}

	logger.Info("Batch file processed",
		zap.String("key", key),
		zap.Int("processed", batch.Processed),
		zap.Int("failed", batch.Failed),
	)
	return batch, nil
}

// batchIDFor derives the batch id from the upload key's uuid segment.
func batchIDFor(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, ".csv")
}
