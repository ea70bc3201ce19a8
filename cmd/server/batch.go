package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/handlers"
	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/utils"
)

// batchHandler ranks every profile of an uploaded CSV. It accepts a
// multipart form with a "file" field or a raw text/csv body.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, handlers.Response{Success: false, Error: "Method not allowed"})
		return
	}

	content, err := readCSV(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, handlers.Response{Success: false, Error: err.Error()})
		return
	}

	topN, _ := strconv.Atoi(r.URL.Query().Get("top"))
	requestID := uuid.New().String()

	result, err := s.svc.RecommendBatch(r.Context(), requestID, content, topN)
	var fileErr *utils.ProfileFileError
	if errors.As(err, &fileErr) {
		writeJSON(w, http.StatusBadRequest, handlers.Response{Success: false, Error: err.Error(), Data: fileErr.Check})
		return
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, utils.ErrNoDataRows) || errors.Is(err, utils.ErrEmptyCSV) ||
			errors.Is(err, utils.ErrMissingColumns) || errors.Is(err, models.ErrInvalidAnswers) {
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			utils.GetLogger().Error("Batch recommendation failed", zap.String("request_id", requestID), zap.Error(err))
		}
		writeJSON(w, status, handlers.Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, handlers.Response{
		Success: true,
		Message: "CSV processed successfully",
		Data:    result,
	})
}

func readCSV(w http.ResponseWriter, r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return "", errors.New("failed to parse form: " + err.Error())
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("no file provided")
		}
		defer func() { _ = file.Close() }()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			return "", errors.New("only CSV files are allowed")
		}
		content, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("failed to read file")
		}
		return string(content), nil
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", errors.New("failed to read body")
	}
	return string(content), nil
}
