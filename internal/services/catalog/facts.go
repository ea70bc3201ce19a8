package catalog

import (
	"bytes"
	"encoding/json"
)

// RawFact is one country record of the policy-facts dataset.
type RawFact struct {
	Meta                   Meta                   `json:"meta"`
	VisaPolicy             VisaPolicy             `json:"visa_policy"`
	FinancialRequirements  FinancialRequirements  `json:"financial_requirements"`
	Residency              Residency              `json:"residency"`
	Family                 Family                 `json:"family"`
	Taxation               Taxation               `json:"taxation"`
	HealthcareAndInsurance HealthcareAndInsurance `json:"healthcare_and_insurance"`
	LanguageAndLife        LanguageAndLife        `json:"language_and_life"`
	Sources                []Source               `json:"sources"`
}

// Meta identifies the country and the review status of the record.
type Meta struct {
	Country         string `json:"country"`
	LocalName       string `json:"local_name,omitempty"`
	ISOCode         string `json:"iso_code"`
	ConfidenceLevel string `json:"confidence_level,omitempty"`
	LastReviewedAt  string `json:"last_reviewed_at,omitempty"`
}

// VisaPolicy lists who may apply and what work is allowed.
type VisaPolicy struct {
	EligibleWorkerTypes     []string                 `json:"eligible_worker_types"`
	BusinessOwnerConditions *BusinessOwnerConditions `json:"business_owner_conditions,omitempty"`
	LocalWorkRestrictions   *LocalWorkRestrictions   `json:"local_work_restrictions,omitempty"`
	LocalClientIncomeLimit  *LocalClientIncomeLimit  `json:"local_client_income_limit,omitempty"`
}

// BusinessOwnerConditions describes conditional admission of company owners.
type BusinessOwnerConditions struct {
	Allowed      *bool    `json:"allowed"`
	Restrictions []string `json:"restrictions,omitempty"`
}

// LocalWorkRestrictions are flags limiting work for local parties.
type LocalWorkRestrictions struct {
	NoLocalEmployment              bool `json:"no_local_employment,omitempty"`
	NoLocalClients                 bool `json:"no_local_clients,omitempty"`
	MustBeForeignEmployerOrClients bool `json:"must_be_foreign_employer_or_clients,omitempty"`
	MustBeQualifiedForeignEmployer bool `json:"must_be_qualified_foreign_employer,omitempty"`
}

// LocalClientIncomeLimit caps income from local clients.
type LocalClientIncomeLimit struct {
	Exists      bool   `json:"exists"`
	Description string `json:"description,omitempty"`
}

// FinancialRequirements holds income, qualification and insurance rules.
type FinancialRequirements struct {
	MinimumIncome              MinimumIncome          `json:"minimum_income"`
	FamilyIncomeAdjustment     FamilyIncomeAdjustment `json:"family_income_adjustment"`
	QualificationRequirements  json.RawMessage        `json:"qualification_requirements,omitempty"`
	ExperienceRequirementYears *int                   `json:"experience_requirement_years,omitempty"`
	InsuranceRequired          *bool                  `json:"insurance_required,omitempty"`
	InsuranceRequirement       json.RawMessage        `json:"insurance_requirement,omitempty"`
}

// MinimumIncome is the headline income threshold.
type MinimumIncome struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Period   string  `json:"period"`
}

// FamilyIncomeAdjustment holds family surcharges in percent.
type FamilyIncomeAdjustment struct {
	SpouseAdditionalPct    *float64 `json:"spouse_additional_pct,omitempty"`
	ChildAdditionalPct     *float64 `json:"child_additional_pct,omitempty"`
	PerMemberAdditionalPct *float64 `json:"per_member_additional_pct,omitempty"`
}

// Residency holds permit duration, renewal and settlement rules.
type Residency struct {
	InitialDuration         Duration                 `json:"initial_duration"`
	Renewal                 Renewal                  `json:"renewal"`
	PathToLongTermResidency *PathToLongTermResidency `json:"path_to_long_term_residency,omitempty"`
}

// Duration is a value with a month or year unit.
type Duration struct {
	Value *int   `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// Renewal describes whether the permit can be extended.
type Renewal struct {
	Possible bool `json:"possible"`
}

// PathToLongTermResidency describes the route to permanent residency.
type PathToLongTermResidency struct {
	Explicit           bool `json:"explicit"`
	PossibleAfterYears *int `json:"possible_after_years,omitempty"`
}

// Family holds dependant rules.
type Family struct {
	DependentsAllowed *bool `json:"dependents_allowed"`
}

// Taxation holds foreign income rules.
type Taxation struct {
	ForeignIncomeTaxation *ForeignIncomeTaxation `json:"foreign_income_taxation,omitempty"`
}

// ForeignIncomeTaxation says whether foreign income exemption is automatic.
type ForeignIncomeTaxation struct {
	AutomaticExemption   *bool `json:"automatic_exemption,omitempty"`
	ConditionalExemption *bool `json:"conditional_exemption,omitempty"`
}

// HealthcareAndInsurance holds insurance and public service access.
type HealthcareAndInsurance struct {
	PrivateInsuranceRequired *bool  `json:"private_insurance_required"`
	PublicHealthcareAccess   string `json:"public_healthcare_access,omitempty"`
	EducationAccess          string `json:"education_access,omitempty"`
}

// LanguageAndLife describes the language environment.
type LanguageAndLife struct {
	PrimaryLanguage string `json:"primary_language"`
	EnglishUsage    string `json:"english_usage"`
}

// Source is a citation for the record.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ParseFacts decodes a JSON array of policy facts.
func ParseFacts(data []byte) ([]RawFact, error) {
	var facts []RawFact
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// truthy reports whether a raw JSON value is set and not false, null, zero or empty.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", "0", `""`:
		return false
	}
	return true
}
