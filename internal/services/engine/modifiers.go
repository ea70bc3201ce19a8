package engine

import (
	"math"
	"time"

	"nomad-visa-engine/internal/models"
)

const (
	staleAfterDays     = 90
	veryStaleAfterDays = 180
)

type affinityKey struct {
	nationality models.Nationality
	countryID   string
}

// nationalityAffinity is an editorial bonus table applied after scoring.
var nationalityAffinity = map[affinityKey]int{
	{models.NationalityCN, "malaysia"}:    3,
	{models.NationalityCN, "thailand"}:    1,
	{models.NationalityCN, "south_korea"}: 1,
}

// AffinityBonus returns the editorial bonus for a nationality and country.
func AffinityBonus(n models.Nationality, countryID string) int {
	return nationalityAffinity[affinityKey{n, countryID}]
}

// DaysSince returns whole days between a YYYY-MM-DD date and asOf. An
// unparseable date counts as never verified.
func DaysSince(date string, asOf time.Time) int {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return math.MaxInt32
	}
	return int(math.Floor(asOf.Sub(t).Hours() / 24))
}

// ApplyModifiers adjusts the base score for family fit, stay and tax
// interaction, nationality affinity and data freshness. The result is never
// negative and has no upper bound.
func ApplyModifiers(base int, user *models.UserAnswers, c *models.CountryPolicy, asOf time.Time) int {
	f := base

	// Family fit; an unconfirmed family policy counts as not allowed
	if user.HasFamily() {
		if c.FamilyAllowed.IsTrue() {
			if c.PublicEducation {
				f += 3
			}
			if c.PublicHealthcare {
				f += 2
			}
		} else {
			f -= 5
		}
	}

	// Stay x tax
	if user.PlannedStay == models.StayOver183 {
		switch c.TaxPolicy.Type {
		case models.TaxZero:
			f += 2
		case models.TaxExempt:
			f += 1
		case models.TaxNoBenefit:
			f -= 5
		}
	}
	if user.PlannedStay == models.StayUnder90 && c.MaxStayMonths >= 60 {
		f -= 2
	}

	f += AffinityBonus(user.Nationality, c.CountryID)

	// Data freshness
	switch days := DaysSince(c.LastVerifiedAt, asOf); {
	case days > veryStaleAfterDays:
		f -= 10
	case days > staleAfterDays:
		f -= 5
	}

	return max(f, 0)
}
