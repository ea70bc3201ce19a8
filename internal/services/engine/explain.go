package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"nomad-visa-engine/internal/models"
)

// MaxExplanations caps highlights and risks per country.
const MaxExplanations = 3

// Highlight and risk field tags.
const (
	FieldTaxPolicy         = "tax_policy"
	FieldMaxStay           = "max_stay_months"
	FieldPublicEducation   = "public_education"
	FieldMinIncome         = "min_income"
	FieldCostOfLiving      = "cost_of_living"
	FieldPathToPR          = "path_to_pr"
	FieldLanguageEnv       = "language_env"
	FieldPublicHealthcare  = "public_healthcare"
	FieldInsuranceRequired = "insurance_required"
	FieldLastVerified      = "last_verified_at"
	FieldFamilyUnknown     = "family_unknown"
	FieldInsuranceUnknown  = "insurance_unknown"
	FieldTaxConditional    = "tax_conditional"
	FieldPathToPRExplicit  = "path_to_pr_explicit"
	FieldBusinessOwner     = "business_owner"
	FieldConfidence        = "confidence"
)

// Highlights returns up to three positive facts, first trigger wins per field.
func Highlights(user *models.UserAnswers, c *models.CountryPolicy, bd models.ScoreBreakdown, rates RateTable) []models.Highlight {
	var pool []models.Highlight
	add := func(field, text string) {
		pool = append(pool, models.Highlight{Text: text, Field: field})
	}

	if bd.Tax > 10 {
		add(FieldTaxPolicy, c.TaxPolicy.Description)
	}

	if bd.Stability > 14 {
		add(FieldMaxStay, fmt.Sprintf(
			"Stay up to %d years, a highly stable visa", roundHalfUp(float64(c.MaxStayMonths)/12)))
	}

	if user.HasFamily() && c.PublicEducation {
		add(FieldPublicEducation, "Children can attend public schools and dependants share residence rights")
	}

	if bd.Feasibility > 30 {
		add(FieldMinIncome, fmt.Sprintf(
			"Your income is %.1fx the threshold, a comfortable margin", roundTenth(IncomeRatio(user, c, rates))))
	}

	if string(c.CostOfLiving.Level) == string(user.CostPreference) {
		cost := "Moderate"
		if c.CostOfLiving.Level == models.LevelLow {
			cost = "Low"
		}
		add(FieldCostOfLiving, cost+" cost of living fits your budget")
	}

	if c.PathToPR && user.WantLongTerm {
		if c.YearsToPR != nil {
			add(FieldPathToPR, fmt.Sprintf(
				"Permanent residency after %d years of residence, good for long-term plans", *c.YearsToPR))
		} else {
			add(FieldPathToPR, "A route to permanent residency exists, good for long-term plans")
		}
	}

	if c.LanguageEnv.EnglishFriendly == models.LevelHigh && user.LanguagePreference == models.LanguageEnglishPriority {
		add(FieldLanguageEnv, "English is widely spoken, daily life is easy without the local language")
	}

	if c.PublicHealthcare && user.HasFamily() {
		add(FieldPublicHealthcare, "Access to public healthcare, affordable care for the whole family")
	}

	if c.TaxPolicy.Type == models.TaxZero || c.TaxPolicy.Type == models.TaxExempt {
		add(FieldTaxPolicy, "Foreign income is tax-free, very low tax burden on remote work")
	}

	return dedupHighlights(pool)
}

// Risks returns up to three caveats, most severe first.
func Risks(user *models.UserAnswers, c *models.CountryPolicy, asOf time.Time) []models.Risk {
	var pool []models.Risk
	add := func(field string, sev models.Severity, text string) {
		pool = append(pool, models.Risk{Text: text, Field: field, Severity: sev})
	}

	if user.PlannedStay == models.StayOver183 && c.TaxPolicy.Type == models.TaxNoBenefit {
		add(FieldTaxPolicy, models.SeverityHigh,
			"Staying over 183 days makes you a tax resident, taxed on worldwide income at local rates")
	}

	if !c.PathToPR && user.WantLongTerm {
		add(FieldPathToPR, models.SeverityMedium,
			"This visa does not lead directly to permanent residency, a separate route is needed long term")
	}

	if c.InsuranceRequired.IsTrue() {
		add(FieldInsuranceRequired, models.SeverityLow,
			"Private health insurance is mandatory and must be kept up for the whole stay")
	}

	if c.LanguageEnv.EnglishFriendly == models.LevelLow {
		add(FieldLanguageEnv, models.SeverityMedium, fmt.Sprintf(
			"Daily life runs mostly in %s, English services are limited", c.LanguageEnv.PrimaryLanguage))
	}

	if !c.PublicHealthcare && user.HasFamily() {
		add(FieldPublicHealthcare, models.SeverityMedium,
			"No access to public healthcare, family medical costs are fully self-paid")
	}

	if c.CostOfLiving.Level == models.LevelHigh && user.CostPreference == models.CostPreferenceLow {
		add(FieldCostOfLiving, models.SeverityMedium,
			"High cost of living does not match your low budget")
	}

	if DaysSince(c.LastVerifiedAt, asOf) > staleAfterDays {
		add(FieldLastVerified, models.SeverityMedium, fmt.Sprintf(
			"Data last verified on %s, the policy may have changed", c.LastVerifiedAt))
	}

	// Low-severity caveats for unconfirmed or conditional policy data.
	if user.HasFamily() && !c.FamilyAllowed.IsKnown() {
		add(FieldFamilyUnknown, models.SeverityLow,
			"It is not confirmed that dependants can join on this visa")
	}

	if !c.InsuranceRequired.IsKnown() {
		add(FieldInsuranceUnknown, models.SeverityLow,
			"The insurance requirement is not confirmed, budget for private cover")
	}

	if c.TaxPolicy.ForeignIncomeConditional && c.TaxPolicy.Type != models.TaxNoBenefit {
		add(FieldTaxConditional, models.SeverityLow,
			"The foreign income exemption is conditional, check that you qualify")
	}

	if c.PathToPR && !c.PathToPRExplicit && user.WantLongTerm {
		add(FieldPathToPRExplicit, models.SeverityLow,
			"The route to permanent residency is possible but not guaranteed")
	}

	if user.WorkType == models.WorkTypeCompanyOwner && c.BusinessOwnerConditional {
		text := "Company owners are admitted only with restrictions"
		if len(c.BusinessOwnerRestrictions) > 0 {
			text += ": " + strings.Join(c.BusinessOwnerRestrictions, "; ")
		}
		add(FieldBusinessOwner, models.SeverityLow, text)
	}

	if c.ConfidenceLevel == models.LevelLow {
		add(FieldConfidence, models.SeverityLow,
			"Source data has low confidence, verify with official channels")
	}

	return rankRisks(pool)
}

// roundTenth rounds half up to one decimal so ties never round to even.
func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func dedupHighlights(pool []models.Highlight) []models.Highlight {
	seen := make(map[string]bool, len(pool))
	out := make([]models.Highlight, 0, MaxExplanations)
	for _, h := range pool {
		if seen[h.Field] {
			continue
		}
		seen[h.Field] = true
		out = append(out, h)
		if len(out) == MaxExplanations {
			break
		}
	}
	return out
}

func rankRisks(pool []models.Risk) []models.Risk {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Severity.Rank() < pool[j].Severity.Rank()
	})
	if len(pool) > MaxExplanations {
		pool = pool[:MaxExplanations]
	}
	if pool == nil {
		return []models.Risk{}
	}
	return pool
}
