package recommender

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/utils"
)

// DefaultTopN is the number of recommended countries kept per batch profile.
const DefaultTopN = 3

// maxBatchWorkers bounds concurrent scoring in a batch.
const maxBatchWorkers = 8

// ProfileSummary is the ranked outcome for one batch profile.
type ProfileSummary struct {
	ProfileID     string         `json:"profile_id"`
	Line          int            `json:"line"`
	Top           []CountryMatch `json:"top"`
	ExcludedCount int            `json:"excluded_count"`
}

// CountryMatch is one recommended country in a batch summary.
type CountryMatch struct {
	CountryID string `json:"country_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Tier      string `json:"tier"`
}

// BatchResult is the outcome of a CSV batch.
type BatchResult struct {
	RequestID string           `json:"request_id"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Profiles  []ProfileSummary `json:"profiles"`
	Errors    []string         `json:"errors,omitempty"`
}

// maxReportedErrors caps the row errors returned with a batch.
const maxReportedErrors = 10

// RecommendBatch parses a CSV of questionnaire profiles and ranks each with
// the local engine. Profiles keep input order.
func (s *Service) RecommendBatch(ctx context.Context, requestID, content string, topN int) (*BatchResult, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	check, err := utils.CheckProfileFile(content)
	if err != nil {
		return nil, err
	}
	if len(check.MalformedLines) > 0 {
		s.logger.Warn("Batch file has malformed lines",
			zap.String("request_id", requestID),
			zap.Ints("lines", check.MalformedLines),
		)
	}

	rows, rowErrs := utils.NewCSVParser().ParseProfiles(content)
	if len(rows) == 0 {
		if len(rowErrs) > 0 {
			return nil, errors.Join(rowErrs...)
		}
		return nil, utils.ErrNoDataRows
	}

	summaries := make([]ProfileSummary, len(rows))
	countries := s.catalog.Countries()

	sem := make(chan struct{}, maxBatchWorkers)
	var wg sync.WaitGroup
	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, row *utils.ProfileRow) {
			defer wg.Done()
			defer func() { <-sem }()
			results := s.engine.Recommend(&row.Answers, countries)
			summaries[i] = summarize(row, results, topN)
		}(i, row)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	errs := make([]string, 0, len(rowErrs))
	for _, e := range rowErrs {
		if len(errs) == maxReportedErrors {
			break
		}
		errs = append(errs, e.Error())
	}

	s.logger.Info("Batch recommendation complete",
		zap.String("request_id", requestID),
		zap.Int("processed", len(rows)),
		zap.Int("failed", len(rowErrs)),
	)

	return &BatchResult{
		RequestID: requestID,
		Processed: len(rows),
		Failed:    len(rowErrs),
		Profiles:  summaries,
		Errors:    errs,
	}, nil
}

func summarize(row *utils.ProfileRow, results []models.CountryResult, topN int) ProfileSummary {
	sum := ProfileSummary{
		ProfileID: row.ProfileID,
		Line:      row.Line,
		Top:       make([]CountryMatch, 0, topN),
	}
	for _, r := range results {
		if r.IsExcluded() {
			sum.ExcludedCount++
			continue
		}
		if len(sum.Top) < topN && r.Score != nil {
			sum.Top = append(sum.Top, CountryMatch{
				CountryID: r.Country.CountryID,
				Name:      r.Country.Name,
				Score:     *r.Score,
				Tier:      r.Tier,
			})
		}
	}
	return sum
}
