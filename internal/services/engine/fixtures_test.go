package engine_test

import (
	"time"

	"nomad-visa-engine/internal/models"
)

var asOf = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// testCountry returns a zero-tax European visa requiring $2,762/month.
func testCountry(mods ...func(*models.CountryPolicy)) *models.CountryPolicy {
	c := &models.CountryPolicy{
		CountryID:       "portugal",
		Name:            "Portugal",
		VisaName:        "D8 Digital Nomad Visa",
		ConfidenceLevel: models.LevelHigh,
		MinIncome: models.IncomeRule{
			Amount:   2762,
			Currency: "USD",
			Period:   models.PeriodMonthly,
			FamilySurcharge: models.FamilySurcharge{
				SpousePct: 0.5,
				ChildPct:  0.3,
			},
		},
		AllowedWorkTypes: []models.WorkType{
			models.WorkTypeOverseasRemoteEmployee,
			models.WorkTypeFreelancer,
		},
		FamilyAllowed:     models.Allowed,
		InsuranceRequired: models.Allowed,
		RequiredDocuments: []models.DocumentType{
			models.DocEmploymentContract,
			models.DocBankStatement,
			models.DocCriminalRecord,
		},
		MaxStayMonths:     60,
		InitialTermMonths: 12,
		Renewable:         true,
		PathToPR:          true,
		PathToPRExplicit:  true,
		YearsToPR:         intPtr(5),
		TaxPolicy: models.TaxPolicy{
			Type:        models.TaxZero,
			Clarity:     models.LevelHigh,
			Description: "No tax on foreign-sourced income",
		},
		CostOfLiving:     models.CostOfLiving{Level: models.LevelMedium, IndexVsNYC: 45},
		LanguageEnv:      models.LanguageEnv{EnglishFriendly: models.LevelHigh, PrimaryLanguage: "Portuguese"},
		Timezone:         models.TimezoneEurope,
		Infrastructure:   models.Infrastructure{InternetQuality: models.LevelHigh, CoworkingAvailability: models.LevelHigh},
		PublicHealthcare: true,
		PublicEducation:  true,
		LastVerifiedAt:   "2026-09-01",
	}
	for _, mod := range mods {
		mod(c)
	}
	return c
}

// testUser returns a single overseas employee earning $8,500/month.
func testUser(mods ...func(*models.UserAnswers)) *models.UserAnswers {
	u := &models.UserAnswers{
		Nationality:      models.NationalityCN,
		PlannedStay:      models.StayOver183,
		WorkType:         models.WorkTypeOverseasRemoteEmployee,
		MonthlyIncomeUSD: 8500,
		IncomeStable:     true,
		DocsAvailable: []models.DocumentType{
			models.DocEmploymentContract,
			models.DocBankStatement,
			models.DocCriminalRecord,
		},
		CanBuyInsurance:    true,
		AcceptNoLocalWork:  true,
		CostPreference:     models.CostPreferenceMedium,
		LanguagePreference: models.LanguageEnglishPriority,
		TimezonePreference: models.TimezonePrefAny,
		InfraRequirement:   models.InfraMedium,
	}
	for _, mod := range mods {
		mod(u)
	}
	return u
}
