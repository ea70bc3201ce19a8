package models

import (
	"encoding/json"
	"fmt"
)

// TriState is a policy flag that may not be confirmed by the source data.
type TriState int

const (
	Unknown TriState = iota
	Allowed
	Disallowed
)

// TriStateOf converts a nullable boolean into a TriState.
func TriStateOf(b *bool) TriState {
	if b == nil {
		return Unknown
	}
	if *b {
		return Allowed
	}
	return Disallowed
}

// IsTrue reports whether the flag is confirmed true.
func (t TriState) IsTrue() bool { return t == Allowed }

// IsKnown reports whether the flag has been confirmed either way.
func (t TriState) IsKnown() bool { return t != Unknown }

// String renders the flag as "true", "false" or "unknown".
func (t TriState) String() string {
	switch t {
	case Allowed:
		return "true"
	case Disallowed:
		return "false"
	}
	return "unknown"
}

// MarshalJSON encodes the flag as true, false or null.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Allowed:
		return []byte("true"), nil
	case Disallowed:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes true, false or null.
func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("invalid tri-state value %s: %w", string(data), err)
	}
	*t = TriStateOf(b)
	return nil
}

// Level is a coarse high/medium/low rating.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// TaxType is the headline tax treatment of remote income.
type TaxType string

const (
	TaxZero          TaxType = "zero"
	TaxExempt        TaxType = "exempt"
	TaxSpecialRegime TaxType = "special_regime"
	TaxNoBenefit     TaxType = "no_benefit"
)

// Timezone is the coarse timezone bucket of a country.
type Timezone string

const (
	TimezoneAsia       Timezone = "Asia"
	TimezoneEurope     Timezone = "Europe"
	TimezoneMiddleEast Timezone = "MiddleEast"
)

// IncomePeriod is the period a minimum income amount is quoted in.
type IncomePeriod string

const (
	PeriodMonthly IncomePeriod = "monthly"
	PeriodYearly  IncomePeriod = "yearly"
)

// FamilySurcharge holds the extra income required per family member as fractions.
type FamilySurcharge struct {
	SpousePct float64 `json:"spouse_pct"`
	ChildPct  float64 `json:"child_pct"`
}

// IncomeRule is the minimum-income requirement of a visa.
type IncomeRule struct {
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Period          IncomePeriod    `json:"period"`
	FamilySurcharge FamilySurcharge `json:"family_surcharge"`
}

// TaxPolicy describes how remote income is taxed.
type TaxPolicy struct {
	Type                     TaxType `json:"type"`
	ForeignIncomeExempt      bool    `json:"foreign_income_exempt"`
	ForeignIncomeConditional bool    `json:"foreign_income_conditional"`
	LocalRatePct             float64 `json:"local_rate_pct"`
	ExemptionPct             float64 `json:"exemption_pct"`
	BenefitDurationYears     int     `json:"benefit_duration_years"`
	Clarity                  Level   `json:"clarity"`
	Description              string  `json:"description"`
}

// CostOfLiving is the editorial cost rating of a country.
type CostOfLiving struct {
	Level      Level `json:"level"`
	IndexVsNYC int   `json:"index_vs_nyc"`
}

// LanguageEnv describes day-to-day language conditions.
type LanguageEnv struct {
	EnglishFriendly Level  `json:"english_friendly"`
	PrimaryLanguage string `json:"primary_language"`
}

// Infrastructure rates connectivity and coworking options.
type Infrastructure struct {
	InternetQuality       Level `json:"internet_quality"`
	CoworkingAvailability Level `json:"coworking_availability"`
}

// CountryPolicy is one entry of the country catalog.
type CountryPolicy struct {
	CountryID string `json:"country_id"`
	Name      string `json:"name"`
	Flag      string `json:"flag"`
	VisaName  string `json:"visa_name"`

	ConfidenceLevel Level  `json:"confidence_level"`
	SourceID        string `json:"source_id"`

	MinIncome                 IncomeRule     `json:"min_income"`
	AllowedWorkTypes          []WorkType     `json:"allowed_work_types"`
	BusinessOwnerConditional  bool           `json:"business_owner_conditional"`
	BusinessOwnerRestrictions []string       `json:"business_owner_restrictions"`
	LocalWorkProhibited       bool           `json:"local_work_prohibited"`
	FamilyAllowed             TriState       `json:"family_allowed"`
	InsuranceRequired         TriState       `json:"insurance_required"`
	EducationRequired         bool           `json:"education_required"`
	MinExperienceYears        int            `json:"min_experience_years"`
	RequiredDocuments         []DocumentType `json:"required_documents"`

	MaxStayMonths     int  `json:"max_stay_months"`
	InitialTermMonths int  `json:"initial_term_months"`
	Renewable         bool `json:"renewable"`
	PathToPR          bool `json:"path_to_pr"`
	PathToPRExplicit  bool `json:"path_to_pr_explicit"`
	YearsToPR         *int `json:"years_to_pr"`

	TaxPolicy      TaxPolicy      `json:"tax_policy"`
	CostOfLiving   CostOfLiving   `json:"cost_of_living"`
	LanguageEnv    LanguageEnv    `json:"language_env"`
	Timezone       Timezone       `json:"timezone"`
	Infrastructure Infrastructure `json:"infrastructure"`

	PublicHealthcare bool   `json:"public_healthcare"`
	PublicEducation  bool   `json:"public_education"`
	LastVerifiedAt   string `json:"last_verified_at"`
}

// AllowsWorkType reports whether the visa admits the given work type.
func (c *CountryPolicy) AllowsWorkType(w WorkType) bool {
	for _, allowed := range c.AllowedWorkTypes {
		if allowed == w {
			return true
		}
	}
	return false
}
