// Package models defines the data structures for the nomad visa engine.
package models

// Nationality is the user's passport bucket.
type Nationality string

const (
	NationalityCN    Nationality = "CN"
	NationalityOther Nationality = "other"
)

// StayDuration is how long the user plans to stay per year.
type StayDuration string

const (
	StayUnder90   StayDuration = "<90d"
	Stay90To183   StayDuration = "90-183d"
	StayOver183   StayDuration = ">183d"
	StayUncertain StayDuration = "uncertain"
)

// WorkType describes how the user earns their income.
type WorkType string

const (
	WorkTypeOverseasRemoteEmployee WorkType = "overseas_remote_employee"
	WorkTypeDomesticRemoteEmployee WorkType = "domestic_remote_employee"
	WorkTypeFreelancer             WorkType = "freelancer"
	WorkTypeCompanyOwner           WorkType = "company_owner"
)

// ValidWorkTypes returns all valid work type values.
func ValidWorkTypes() []WorkType {
	return []WorkType{
		WorkTypeOverseasRemoteEmployee,
		WorkTypeDomesticRemoteEmployee,
		WorkTypeFreelancer,
		WorkTypeCompanyOwner,
	}
}

// IsValid checks if the work type is valid.
func (w WorkType) IsValid() bool {
	for _, valid := range ValidWorkTypes() {
		if w == valid {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the work type.
func (w WorkType) Label() string {
	switch w {
	case WorkTypeOverseasRemoteEmployee:
		return "remote employee of an overseas company"
	case WorkTypeDomesticRemoteEmployee:
		return "remote employee of a home-country company"
	case WorkTypeFreelancer:
		return "freelancer"
	case WorkTypeCompanyOwner:
		return "company owner"
	}
	return string(w)
}

// DocumentType is a supporting document the user can provide.
type DocumentType string

const (
	DocEmploymentContract    DocumentType = "employment_contract"
	DocBankStatement         DocumentType = "bank_statement"
	DocCriminalRecord        DocumentType = "criminal_record"
	DocEducationOrExperience DocumentType = "education_or_experience"
)

// Label returns the human-readable name of the document.
func (d DocumentType) Label() string {
	switch d {
	case DocEmploymentContract:
		return "employment contract"
	case DocBankStatement:
		return "bank statements"
	case DocCriminalRecord:
		return "criminal record certificate"
	case DocEducationOrExperience:
		return "education or work experience proof"
	}
	return string(d)
}

// IsValid checks if the document type is valid.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocEmploymentContract, DocBankStatement, DocCriminalRecord, DocEducationOrExperience:
		return true
	}
	return false
}

// CostPreference is the user's living-cost budget.
type CostPreference string

const (
	CostPreferenceLow         CostPreference = "low"
	CostPreferenceMedium      CostPreference = "medium"
	CostPreferenceInsensitive CostPreference = "insensitive"
)

// LanguagePreference is the user's attitude to the local language.
type LanguagePreference string

const (
	LanguageEnglishPriority LanguagePreference = "english_priority"
	LanguageCanLearn        LanguagePreference = "can_learn"
)

// TimezonePreference is the user's preferred working timezone.
type TimezonePreference string

const (
	TimezonePrefAsia   TimezonePreference = "asia"
	TimezonePrefEurope TimezonePreference = "europe"
	TimezonePrefAny    TimezonePreference = "any"
)

// InfraRequirement is the user's internet/infrastructure requirement.
type InfraRequirement string

const (
	InfraHigh   InfraRequirement = "high"
	InfraMedium InfraRequirement = "medium"
)

// UserAnswers is the questionnaire profile for one recommendation request.
type UserAnswers struct {
	Nationality        Nationality        `json:"nationality" validate:"required,oneof=CN other"`
	HasSpouse          bool               `json:"has_spouse"`
	NumChildren        int                `json:"num_children" validate:"gte=0,lte=20"`
	PlannedStay        StayDuration       `json:"planned_stay" validate:"required,oneof=<90d 90-183d >183d uncertain"`
	WorkType           WorkType           `json:"work_type" validate:"required,oneof=overseas_remote_employee domestic_remote_employee freelancer company_owner"`
	MonthlyIncomeUSD   float64            `json:"monthly_income_usd" validate:"gte=0"`
	IncomeStable       bool               `json:"income_stable"`
	DocsAvailable      []DocumentType     `json:"docs_available" validate:"dive,oneof=employment_contract bank_statement criminal_record education_or_experience"`
	CanBuyInsurance    bool               `json:"can_buy_insurance"`
	AcceptNoLocalWork  bool               `json:"accept_no_local_work"`
	WantLongTerm       bool               `json:"want_long_term"`
	CostPreference     CostPreference     `json:"cost_preference" validate:"required,oneof=low medium insensitive"`
	LanguagePreference LanguagePreference `json:"language_preference" validate:"required,oneof=english_priority can_learn"`
	TimezonePreference TimezonePreference `json:"timezone_preference" validate:"required,oneof=asia europe any"`
	InfraRequirement   InfraRequirement   `json:"infra_requirement" validate:"required,oneof=high medium"`
}

// HasFamily reports whether a spouse or children come along.
func (u *UserAnswers) HasFamily() bool {
	return u.HasSpouse || u.NumChildren > 0
}

// HasDocument reports whether the user can provide the document.
func (u *UserAnswers) HasDocument(d DocumentType) bool {
	for _, have := range u.DocsAvailable {
		if have == d {
			return true
		}
	}
	return false
}
