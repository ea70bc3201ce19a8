package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
)

// ErrNoJSONArray is returned when a completion carries no JSON array of objects.
var ErrNoJSONArray = errors.New("response did not contain a JSON array")

var jsonArrayPattern = regexp.MustCompile(`\[\s*\{[\s\S]*\}\s*\]`)

var highlightFieldList = []string{
	engine.FieldMinIncome,
	engine.FieldTaxPolicy,
	engine.FieldMaxStay,
	engine.FieldPublicEducation,
	engine.FieldPublicHealthcare,
	engine.FieldCostOfLiving,
	engine.FieldPathToPR,
	engine.FieldLanguageEnv,
}

var riskFieldList = []string{
	engine.FieldTaxPolicy,
	engine.FieldTaxConditional,
	engine.FieldPathToPR,
	engine.FieldPathToPRExplicit,
	engine.FieldInsuranceRequired,
	engine.FieldInsuranceUnknown,
	engine.FieldFamilyUnknown,
	engine.FieldLanguageEnv,
	engine.FieldPublicHealthcare,
	engine.FieldCostOfLiving,
	engine.FieldConfidence,
	engine.FieldLastVerified,
	engine.FieldBusinessOwner,
}

var (
	highlightFields = toSet(highlightFieldList)
	riskFields      = toSet(riskFieldList)
)

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// ScoreItem is one per-country assessment returned by the model.
type ScoreItem struct {
	CountryID  string                `json:"country_id"`
	Score      int                   `json:"score"`
	Tier       string                `json:"tier"`
	Breakdown  models.ScoreBreakdown `json:"breakdown"`
	Highlights []models.Highlight    `json:"highlights"`
	Risks      []models.Risk         `json:"risks"`
}

// ParseScoreItems extracts the JSON array from a completion.
func ParseScoreItems(text string) ([]ScoreItem, error) {
	match := jsonArrayPattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return nil, ErrNoJSONArray
	}

	var items []ScoreItem
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

// Assessment converts the item, clamping dimensions to their maxima and
// dropping explanations with an unknown field or empty text.
func (it ScoreItem) Assessment() models.Assessment {
	bd := models.ScoreBreakdown{
		Feasibility: clamp(it.Breakdown.Feasibility, models.MaxFeasibility),
		Stability:   clamp(it.Breakdown.Stability, models.MaxStability),
		Longterm:    clamp(it.Breakdown.Longterm, models.MaxLongterm),
		Tax:         clamp(it.Breakdown.Tax, models.MaxTax),
		Lifestyle:   clamp(it.Breakdown.Lifestyle, models.MaxLifestyle),
	}

	highlights := make([]models.Highlight, 0, len(it.Highlights))
	for _, h := range it.Highlights {
		if highlightFields[h.Field] && strings.TrimSpace(h.Text) != "" {
			highlights = append(highlights, h)
		}
	}

	risks := make([]models.Risk, 0, len(it.Risks))
	for _, r := range it.Risks {
		if !riskFields[r.Field] || strings.TrimSpace(r.Text) == "" {
			continue
		}
		switch r.Severity {
		case models.SeverityHigh, models.SeverityMedium, models.SeverityLow:
		default:
			r.Severity = models.SeverityLow
		}
		risks = append(risks, r)
	}

	return engine.NormalizeAssessment(models.Assessment{
		Score:      it.Score,
		Tier:       normalizeTier(it.Tier, it.Score),
		Breakdown:  bd,
		Highlights: highlights,
		Risks:      risks,
	})
}

func normalizeTier(tier string, score int) string {
	switch tier {
	case engine.TierStrong, engine.TierConsider, engine.TierAlternative, engine.TierLow:
		return tier
	}
	return engine.Tier(max(score, 0))
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
