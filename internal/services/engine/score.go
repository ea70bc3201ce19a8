package engine

import (
	"math"

	"nomad-visa-engine/internal/models"
)

// ScoreFeasibility rates how easily the user qualifies (0-40).
func ScoreFeasibility(user *models.UserAnswers, c *models.CountryPolicy, rates RateTable) int {
	s := 0

	// Income margin (0-15)
	switch ratio := IncomeRatio(user, c, rates); {
	case ratio >= 3:
		s += 15
	case ratio >= 2:
		s += 12
	case ratio >= 1.5:
		s += 9
	case ratio >= 1.2:
		s += 6
	default:
		s += 3
	}

	// Document readiness (0-10)
	total := len(c.RequiredDocuments)
	has := 0
	for _, d := range c.RequiredDocuments {
		if user.HasDocument(d) {
			has++
		}
	}
	s += roundHalfUp(10 * float64(has) / float64(max(total, 1)))

	// Work type match (0-10)
	switch user.WorkType {
	case models.WorkTypeOverseasRemoteEmployee:
		s += 10
	case models.WorkTypeFreelancer:
		s += 8
	case models.WorkTypeCompanyOwner:
		s += 5
	default:
		s += 2
	}

	// Income stability (0-5)
	if user.IncomeStable {
		s += 5
	} else {
		s += 2
	}

	return s
}

// ScoreStability rates residence security (0-20).
func ScoreStability(c *models.CountryPolicy) int {
	s := 0

	switch m := c.MaxStayMonths; {
	case m >= 120:
		s += 10
	case m >= 60:
		s += 8
	case m >= 36:
		s += 6
	case m >= 24:
		s += 4
	default:
		s += 2
	}

	switch initial := c.InitialTermMonths; {
	case initial >= 60:
		s += 5
	case initial >= 36:
		s += 4
	case initial >= 24:
		s += 3
	case initial >= 12:
		s += 2
	default:
		s += 1
	}

	if c.Renewable {
		s += 3
		if c.MaxStayMonths > c.InitialTermMonths {
			s += 2
		}
	}

	return s
}

// ScoreLongterm rates the permanent residency outlook (0-15).
// Users who do not want to settle get a flat neutral 7.
func ScoreLongterm(user *models.UserAnswers, c *models.CountryPolicy) int {
	if !user.WantLongTerm {
		return 7
	}

	s := 0
	if c.PathToPR {
		s += 8
		if c.YearsToPR != nil {
			switch y := *c.YearsToPR; {
			case y <= 3:
				s += 4
			case y <= 5:
				s += 3
			case y <= 7:
				s += 2
			default:
				s += 1
			}
		}
	}

	family := c.FamilyAllowed.IsTrue()
	if c.PathToPR && family {
		s += 3
	} else if family {
		s += 1
	}

	return s
}

// EffectiveTaxRate is the local rate after the regime's exemption.
func EffectiveTaxRate(t models.TaxPolicy) float64 {
	if t.ForeignIncomeExempt {
		return 0
	}
	return t.LocalRatePct * (1 - t.ExemptionPct)
}

// ScoreTax rates the tax treatment of remote income (0-15).
func ScoreTax(c *models.CountryPolicy) int {
	s := 0
	tax := c.TaxPolicy

	// Exemption level (0-8)
	switch tax.Type {
	case models.TaxZero:
		s += 8
	case models.TaxExempt:
		s += 7
	case models.TaxSpecialRegime:
		switch eff := EffectiveTaxRate(tax); {
		case eff <= 10:
			s += 6
		case eff <= 20:
			s += 5
		case eff <= 30:
			s += 4
		default:
			s += 2
		}
	}

	// Duration (0-4)
	switch {
	case tax.Type == models.TaxZero || tax.Type == models.TaxExempt:
		s += 4
	case tax.BenefitDurationYears >= 10:
		s += 4
	case tax.BenefitDurationYears >= 7:
		s += 3
	case tax.BenefitDurationYears >= 5:
		s += 2
	case tax.BenefitDurationYears > 0:
		s += 1
	}

	// Clarity (0-3)
	switch tax.Clarity {
	case models.LevelHigh:
		s += 3
	case models.LevelMedium:
		s += 2
	default:
		s += 1
	}

	return s
}

// ScoreLifestyle rates cost, language, timezone and infrastructure fit (0-10).
func ScoreLifestyle(user *models.UserAnswers, c *models.CountryPolicy) int {
	return costMatch(user.CostPreference, c.CostOfLiving.Level) +
		languageMatch(user.LanguagePreference, c.LanguageEnv.EnglishFriendly) +
		timezoneMatch(user.TimezonePreference, c.Timezone) +
		infraMatch(user.InfraRequirement, c.Infrastructure.InternetQuality)
}

func costMatch(pref models.CostPreference, level models.Level) int {
	switch pref {
	case models.CostPreferenceLow:
		switch level {
		case models.LevelLow:
			return 3
		case models.LevelMedium:
			return 1
		}
		return 0
	case models.CostPreferenceMedium:
		switch level {
		case models.LevelMedium:
			return 3
		case models.LevelLow:
			return 2
		}
		return 1
	}
	return 2
}

func languageMatch(pref models.LanguagePreference, english models.Level) int {
	if pref != models.LanguageEnglishPriority {
		return 2
	}
	switch english {
	case models.LevelHigh:
		return 3
	case models.LevelMedium:
		return 1
	}
	return 0
}

func timezoneMatch(pref models.TimezonePreference, tz models.Timezone) int {
	home := models.TimezoneEurope
	switch pref {
	case models.TimezonePrefAny:
		return 1
	case models.TimezonePrefAsia:
		home = models.TimezoneAsia
	}
	switch tz {
	case home:
		return 2
	case models.TimezoneMiddleEast:
		return 1
	}
	return 0
}

func infraMatch(req models.InfraRequirement, quality models.Level) int {
	if req == models.InfraHigh {
		switch quality {
		case models.LevelHigh:
			return 2
		case models.LevelMedium:
			return 1
		}
		return 0
	}
	if quality == models.LevelLow {
		return 1
	}
	return 2
}

// IncomeRatio is the user's income as a multiple of the requirement.
func IncomeRatio(user *models.UserAnswers, c *models.CountryPolicy, rates RateTable) float64 {
	required := RequiredIncome(c.MinIncome, user, rates)
	if required <= 0 {
		return math.Inf(1)
	}
	return user.MonthlyIncomeUSD / float64(required)
}
