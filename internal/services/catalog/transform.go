package catalog

import (
	"fmt"
	"strings"

	"nomad-visa-engine/internal/models"
)

const defaultLastReviewed = "2026-01-01"

var workerTypeMap = map[string]models.WorkType{
	"remote_employee": models.WorkTypeOverseasRemoteEmployee,
	"freelancer":      models.WorkTypeFreelancer,
	"self_employed":   models.WorkTypeFreelancer,
	"business_owner":  models.WorkTypeCompanyOwner,
}

// Transform combines a policy fact with its enrichment into a CountryPolicy.
func Transform(raw RawFact, enrich Enrichment) *models.CountryPolicy {
	visa := raw.VisaPolicy
	fin := raw.FinancialRequirements
	res := raw.Residency
	health := raw.HealthcareAndInsurance

	// Work types
	allowed := mapWorkTypes(visa.EligibleWorkerTypes)
	var boConditional bool
	var boRestrictions []string
	if boc := visa.BusinessOwnerConditions; boc != nil {
		boConditional = boc.Allowed != nil && *boc.Allowed
		boRestrictions = boc.Restrictions
	}
	if boConditional && !containsWorkType(allowed, models.WorkTypeCompanyOwner) {
		allowed = append(allowed, models.WorkTypeCompanyOwner)
	}

	// Local work
	localProhibited := false
	if r := visa.LocalWorkRestrictions; r != nil {
		localProhibited = r.NoLocalEmployment || r.NoLocalClients ||
			r.MustBeForeignEmployerOrClients || r.MustBeQualifiedForeignEmployer
	}
	if l := visa.LocalClientIncomeLimit; l != nil && l.Exists {
		localProhibited = true
	}

	// Income
	adj := fin.FamilyIncomeAdjustment
	spousePct := pctOrZero(adj.SpouseAdditionalPct)
	childPct := pctOrZero(adj.ChildAdditionalPct)
	if adj.ChildAdditionalPct == nil {
		childPct = pctOrZero(adj.PerMemberAdditionalPct)
	}
	currency := fin.MinimumIncome.Currency
	if currency == "" {
		currency = "USD"
	}
	period := models.PeriodMonthly
	if fin.MinimumIncome.Period == string(models.PeriodYearly) {
		period = models.PeriodYearly
	}

	// Residency
	initialValue := 12
	if res.InitialDuration.Value != nil {
		initialValue = *res.InitialDuration.Value
	}
	initialTerm := toMonths(initialValue, res.InitialDuration.Unit)

	var pathExplicit bool
	var yearsToPR *int
	if pr := res.PathToLongTermResidency; pr != nil {
		pathExplicit = pr.Explicit
		if pr.PossibleAfterYears != nil {
			y := *pr.PossibleAfterYears
			yearsToPR = &y
		}
	}

	// Qualifications
	minExp := 0
	if fin.ExperienceRequirementYears != nil {
		minExp = *fin.ExperienceRequirementYears
	}

	// Insurance: a financial requirement forces true, otherwise the health flag decides
	insurance := models.TriStateOf(health.PrivateInsuranceRequired)
	if (fin.InsuranceRequired != nil && *fin.InsuranceRequired) || truthy(fin.InsuranceRequirement) {
		insurance = models.Allowed
	}

	// Tax conditionality
	conditional := false
	if ft := raw.Taxation.ForeignIncomeTaxation; ft != nil {
		condTrue := ft.ConditionalExemption != nil && *ft.ConditionalExemption
		condFalse := ft.ConditionalExemption != nil && !*ft.ConditionalExemption
		autoFalse := ft.AutomaticExemption != nil && !*ft.AutomaticExemption
		conditional = condTrue || (autoFalse && !condFalse)
	}

	confidence := models.Level(raw.Meta.ConfidenceLevel)
	if confidence == "" {
		confidence = models.LevelMedium
	}

	name := raw.Meta.LocalName
	if name == "" {
		name = raw.Meta.Country
	}

	sourceID := "REPORT-" + name
	if len(raw.Sources) > 0 && raw.Sources[0].ID != "" {
		sourceID = raw.Sources[0].ID
	}

	lastVerified := raw.Meta.LastReviewedAt
	if lastVerified == "" {
		lastVerified = defaultLastReviewed
	}

	return &models.CountryPolicy{
		CountryID: enrich.CountryID,
		Name:      name,
		Flag:      isoToFlag(raw.Meta.ISOCode),
		VisaName:  enrich.VisaName,

		ConfidenceLevel: confidence,
		SourceID:        sourceID,

		MinIncome: models.IncomeRule{
			Amount:   fin.MinimumIncome.Amount,
			Currency: currency,
			Period:   period,
			FamilySurcharge: models.FamilySurcharge{
				SpousePct: spousePct,
				ChildPct:  childPct,
			},
		},
		AllowedWorkTypes:          allowed,
		BusinessOwnerConditional:  boConditional,
		BusinessOwnerRestrictions: boRestrictions,
		LocalWorkProhibited:       localProhibited,
		FamilyAllowed:             models.TriStateOf(raw.Family.DependentsAllowed),
		InsuranceRequired:         insurance,
		EducationRequired:         truthy(fin.QualificationRequirements),
		MinExperienceYears:        minExp,
		RequiredDocuments:         enrich.RequiredDocuments,

		MaxStayMonths:     enrich.MaxStayMonths,
		InitialTermMonths: initialTerm,
		Renewable:         res.Renewal.Possible,
		PathToPR:          pathExplicit || yearsToPR != nil,
		PathToPRExplicit:  pathExplicit,
		YearsToPR:         yearsToPR,

		TaxPolicy: models.TaxPolicy{
			Type:                     enrich.Tax.Type,
			ForeignIncomeExempt:      enrich.Tax.ForeignIncomeExempt,
			ForeignIncomeConditional: conditional,
			LocalRatePct:             enrich.Tax.LocalRatePct,
			ExemptionPct:             enrich.Tax.ExemptionPct,
			BenefitDurationYears:     enrich.Tax.BenefitDurationYears,
			Clarity:                  enrich.Tax.Clarity,
			Description:              enrich.Tax.Description,
		},
		CostOfLiving: enrich.CostOfLiving,
		LanguageEnv: models.LanguageEnv{
			EnglishFriendly: englishLevel(raw.LanguageAndLife.EnglishUsage),
			PrimaryLanguage: raw.LanguageAndLife.PrimaryLanguage,
		},
		Timezone:       enrich.Timezone,
		Infrastructure: enrich.Infrastructure,

		PublicHealthcare: containsAny(health.PublicHealthcareAccess, "possible", "SNS", "NHI"),
		PublicEducation:  containsAny(health.EducationAccess, "public_school", "local_schools"),
		LastVerifiedAt:   lastVerified,
	}
}

// BuildPolicies transforms every fact. A fact without an enrichment entry is
// a configuration error.
func BuildPolicies(facts []RawFact, enrichment map[string]Enrichment) ([]*models.CountryPolicy, error) {
	policies := make([]*models.CountryPolicy, 0, len(facts))
	for _, f := range facts {
		e, ok := enrichment[strings.ToUpper(f.Meta.ISOCode)]
		if !ok {
			return nil, fmt.Errorf("%w: iso code %q", ErrMissingEnrichment, f.Meta.ISOCode)
		}
		policies = append(policies, Transform(f, e))
	}
	return policies, nil
}

func mapWorkTypes(types []string) []models.WorkType {
	out := make([]models.WorkType, 0, len(types))
	for _, t := range types {
		if w, ok := workerTypeMap[t]; ok && !containsWorkType(out, w) {
			out = append(out, w)
		}
	}
	return out
}

func containsWorkType(types []models.WorkType, w models.WorkType) bool {
	for _, t := range types {
		if t == w {
			return true
		}
	}
	return false
}

func toMonths(value int, unit string) int {
	if unit == "year" || unit == "years" {
		return value * 12
	}
	return value
}

func pctOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p / 100
}

func englishLevel(usage string) models.Level {
	switch {
	case usage == "high" || strings.Contains(usage, "very_high") || strings.Contains(usage, "high_in_cities"):
		return models.LevelHigh
	case strings.Contains(usage, "moderate") || strings.Contains(usage, "medium"):
		return models.LevelMedium
	}
	return models.LevelLow
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isoToFlag converts an ISO 3166-1 alpha-2 code to its flag emoji.
func isoToFlag(iso string) string {
	iso = strings.ToUpper(iso)
	if len(iso) != 2 {
		iso = "XX"
	}
	var b strings.Builder
	for _, r := range iso {
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}
