// Package engine implements the recommendation pipeline: hard filter,
// dimension scoring, modifiers, explanations and ranking.
package engine

import (
	"math"
	"strings"

	"nomad-visa-engine/internal/models"
)

// DefaultEURToUSD is the EUR rate used when none is configured.
const DefaultEURToUSD = 1.08

// RateTable maps ISO currency codes to a USD multiplier.
type RateTable map[string]float64

// DefaultRates returns the USD/EUR table.
func DefaultRates() RateTable {
	return RatesWithEUR(DefaultEURToUSD)
}

// RatesWithEUR returns the USD/EUR table with a custom EUR rate.
func RatesWithEUR(eur float64) RateTable {
	if eur <= 0 {
		eur = DefaultEURToUSD
	}
	return RateTable{"USD": 1, "EUR": eur}
}

// Rate returns the multiplier for a currency. Unknown currencies use 1.
func (r RateTable) Rate(currency string) float64 {
	if rate, ok := r[strings.ToUpper(currency)]; ok {
		return rate
	}
	return 1
}

// ToUSDMonthly converts an income rule to whole USD per month.
func ToUSDMonthly(rule models.IncomeRule, rates RateTable) int {
	monthly := rule.Amount
	if rule.Period == models.PeriodYearly {
		monthly = rule.Amount / 12
	}
	return roundHalfUp(monthly * rates.Rate(rule.Currency))
}

// RequiredIncome returns the monthly USD income a user must earn, including
// family surcharges. The child surcharge applies to the spouse-adjusted base.
func RequiredIncome(rule models.IncomeRule, user *models.UserAnswers, rates RateTable) int {
	base := ToUSDMonthly(rule, rates)
	if user.HasSpouse {
		base += roundHalfUp(float64(base) * rule.FamilySurcharge.SpousePct)
	}
	base += roundHalfUp(float64(base) * rule.FamilySurcharge.ChildPct * float64(user.NumChildren))
	return base
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
