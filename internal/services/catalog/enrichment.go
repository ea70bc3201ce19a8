package catalog

import "nomad-visa-engine/internal/models"

// Enrichment is editorial data that the policy facts do not carry.
type Enrichment struct {
	CountryID         string
	VisaName          string
	CostOfLiving      models.CostOfLiving
	Timezone          models.Timezone
	Infrastructure    models.Infrastructure
	RequiredDocuments []models.DocumentType
	MaxStayMonths     int
	Tax               TaxEnrichment
}

// TaxEnrichment is the editorial reading of a country's tax treatment.
type TaxEnrichment struct {
	Type                 models.TaxType
	ForeignIncomeExempt  bool
	LocalRatePct         float64
	ExemptionPct         float64
	BenefitDurationYears int
	Clarity              models.Level
	Description          string
}

var standardDocs = []models.DocumentType{
	models.DocEmploymentContract,
	models.DocBankStatement,
	models.DocCriminalRecord,
}

var qualifiedDocs = []models.DocumentType{
	models.DocEmploymentContract,
	models.DocBankStatement,
	models.DocCriminalRecord,
	models.DocEducationOrExperience,
}

func infra(internet, coworking models.Level) models.Infrastructure {
	return models.Infrastructure{InternetQuality: internet, CoworkingAvailability: coworking}
}

func cost(level models.Level, index int) models.CostOfLiving {
	return models.CostOfLiving{Level: level, IndexVsNYC: index}
}

// DefaultEnrichment is keyed by ISO 3166-1 alpha-2 code.
var DefaultEnrichment = map[string]Enrichment{
	"ES": {
		CountryID:         "spain",
		VisaName:          "International Telework Visa",
		CostOfLiving:      cost(models.LevelMedium, 45),
		Timezone:          models.TimezoneEurope,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     60,
		Tax: TaxEnrichment{
			Type:                 models.TaxSpecialRegime,
			ForeignIncomeExempt:  true,
			LocalRatePct:         24,
			ExemptionPct:         0,
			BenefitDurationYears: 6,
			Clarity:              models.LevelMedium,
			Description:          "Beckham Law: flat 24% on Spanish-source income, foreign income can be exempt (conditions apply)",
		},
	},
	"PT": {
		CountryID:         "portugal",
		VisaName:          "D8 Digital Nomad Visa",
		CostOfLiving:      cost(models.LevelMedium, 40),
		Timezone:          models.TimezoneEurope,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     60,
		Tax: TaxEnrichment{
			Type:                 models.TaxSpecialRegime,
			ForeignIncomeExempt:  true,
			LocalRatePct:         20,
			ExemptionPct:         0,
			BenefitDurationYears: 10,
			Clarity:              models.LevelMedium,
			Description:          "IFICI regime: 20% flat rate on qualifying Portuguese income, some foreign income exempt (subject to change)",
		},
	},
	"IT": {
		CountryID:         "italy",
		VisaName:          "Highly Skilled Digital Nomad Visa",
		CostOfLiving:      cost(models.LevelMedium, 50),
		Timezone:          models.TimezoneEurope,
		Infrastructure:    infra(models.LevelHigh, models.LevelMedium),
		RequiredDocuments: qualifiedDocs,
		MaxStayMonths:     60,
		Tax: TaxEnrichment{
			Type:                 models.TaxSpecialRegime,
			ForeignIncomeExempt:  false,
			LocalRatePct:         43,
			ExemptionPct:         0.7,
			BenefitDurationYears: 5,
			Clarity:              models.LevelMedium,
			Description:          "Impatriate regime: up to 70% of income exempt for 5 years for new tax residents (conditions apply, 90% in the south)",
		},
	},
	"GR": {
		CountryID:         "greece",
		VisaName:          "Digital Nomad Visa",
		CostOfLiving:      cost(models.LevelLow, 52),
		Timezone:          models.TimezoneEurope,
		Infrastructure:    infra(models.LevelHigh, models.LevelMedium),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     36,
		Tax: TaxEnrichment{
			Type:                 models.TaxSpecialRegime,
			ForeignIncomeExempt:  false,
			LocalRatePct:         44,
			ExemptionPct:         0.5,
			BenefitDurationYears: 7,
			Clarity:              models.LevelMedium,
			Description:          "50% income tax relief (Law 4825/2021) for qualifying new tax residents for up to 7 years",
		},
	},
	"HR": {
		CountryID:         "croatia",
		VisaName:          "Digital Nomad Temporary Stay",
		CostOfLiving:      cost(models.LevelLow, 35),
		Timezone:          models.TimezoneEurope,
		Infrastructure:    infra(models.LevelMedium, models.LevelMedium),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     36,
		Tax: TaxEnrichment{
			Type:                 models.TaxExempt,
			ForeignIncomeExempt:  true,
			LocalRatePct:         0,
			ExemptionPct:         1,
			BenefitDurationYears: 3,
			Clarity:              models.LevelMedium,
			Description:          "Foreign income exempt from Croatian income tax while on this permit (conditions apply)",
		},
	},
	"AE": {
		CountryID:         "dubai",
		VisaName:          "Virtual Working Programme",
		CostOfLiving:      cost(models.LevelHigh, 70),
		Timezone:          models.TimezoneMiddleEast,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     12,
		Tax: TaxEnrichment{
			Type:                 models.TaxZero,
			ForeignIncomeExempt:  true,
			LocalRatePct:         0,
			ExemptionPct:         1,
			BenefitDurationYears: 99,
			Clarity:              models.LevelHigh,
			Description:          "No personal income tax: remote work income is untaxed in the UAE (corporate tax is separate)",
		},
	},
	"TH": {
		CountryID:         "thailand",
		VisaName:          "LTR Work-from-Thailand Professional Visa",
		CostOfLiving:      cost(models.LevelLow, 30),
		Timezone:          models.TimezoneAsia,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: qualifiedDocs,
		MaxStayMonths:     120,
		Tax: TaxEnrichment{
			Type:                 models.TaxExempt,
			ForeignIncomeExempt:  true,
			LocalRatePct:         17,
			ExemptionPct:         1,
			BenefitDurationYears: 10,
			Clarity:              models.LevelLow,
			Description:          "Foreign income can be exempt (depends on remittance timing and Thai tax law), 17% flat rate available on local employment",
		},
	},
	"MY": {
		CountryID:         "malaysia",
		VisaName:          "DE Rantau Nomad Pass",
		CostOfLiving:      cost(models.LevelLow, 28),
		Timezone:          models.TimezoneAsia,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     24,
		Tax: TaxEnrichment{
			Type:                 models.TaxExempt,
			ForeignIncomeExempt:  true,
			LocalRatePct:         0,
			ExemptionPct:         1,
			BenefitDurationYears: 5,
			Clarity:              models.LevelLow,
			Description:          "Foreign income temporarily exempt (2022-2026 window), may change when the window closes",
		},
	},
	"ID": {
		CountryID:         "indonesia",
		VisaName:          "Remote Worker KITAS (E33G)",
		CostOfLiving:      cost(models.LevelLow, 25),
		Timezone:          models.TimezoneAsia,
		Infrastructure:    infra(models.LevelMedium, models.LevelHigh),
		RequiredDocuments: standardDocs,
		MaxStayMonths:     60,
		Tax: TaxEnrichment{
			Type:                 models.TaxExempt,
			ForeignIncomeExempt:  true,
			LocalRatePct:         0,
			ExemptionPct:         1,
			BenefitDurationYears: 5,
			Clarity:              models.LevelMedium,
			Description:          "Foreign income can be exempt for remote KITAS holders (depends on visa class and income structure)",
		},
	},
	"KR": {
		CountryID:         "south_korea",
		VisaName:          "D-10-3 Workation Visa",
		CostOfLiving:      cost(models.LevelHigh, 65),
		Timezone:          models.TimezoneAsia,
		Infrastructure:    infra(models.LevelHigh, models.LevelHigh),
		RequiredDocuments: qualifiedDocs,
		MaxStayMonths:     24,
		Tax: TaxEnrichment{
			Type:                 models.TaxNoBenefit,
			ForeignIncomeExempt:  false,
			LocalRatePct:         45,
			ExemptionPct:         0,
			BenefitDurationYears: 0,
			Clarity:              models.LevelLow,
			Description:          "No special relief: over 183 days counts as tax residence, worldwide income taxed at Korean rates (treaties may apply)",
		},
	},
}
