package advisor

import (
	"fmt"
	"strings"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/engine"
)

var stayLabels = map[models.StayDuration]string{
	models.StayUnder90:   "under 90 days",
	models.Stay90To183:   "90 to 183 days",
	models.StayOver183:   "over 183 days",
	models.StayUncertain: "not sure yet",
}

var costLabels = map[models.CostPreference]string{
	models.CostPreferenceLow:         "as low as possible",
	models.CostPreferenceMedium:      "medium is fine",
	models.CostPreferenceInsensitive: "does not matter",
}

var languageLabels = map[models.LanguagePreference]string{
	models.LanguageEnglishPriority: "English first",
	models.LanguageCanLearn:        "willing to learn the local language",
}

var timezoneLabels = map[models.TimezonePreference]string{
	models.TimezonePrefAsia:   "Asian timezones",
	models.TimezonePrefEurope: "European timezones",
	models.TimezonePrefAny:    "any",
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ProfileSummary renders the user profile as prompt lines.
func ProfileSummary(u *models.UserAnswers) string {
	nationality := "other non-EU"
	if u.Nationality == models.NationalityCN {
		nationality = "China"
	}

	docs := make([]string, 0, len(u.DocsAvailable))
	for _, d := range u.DocsAvailable {
		docs = append(docs, d.Label())
	}
	docList := strings.Join(docs, ", ")
	if docList == "" {
		docList = "none"
	}

	infra := "medium"
	if u.InfraRequirement == models.InfraHigh {
		infra = "high"
	}

	return strings.Join([]string{
		"Nationality: " + nationality,
		fmt.Sprintf("Spouse joining: %s, children: %d", yesNo(u.HasSpouse), u.NumChildren),
		"Planned stay: " + stayLabels[u.PlannedStay],
		"Work type: " + u.WorkType.Label(),
		fmt.Sprintf("Gross monthly income (USD): %g", u.MonthlyIncomeUSD),
		"Stable income: " + yesNo(u.IncomeStable),
		"Documents available: " + docList,
		"Can buy private insurance: " + yesNo(u.CanBuyInsurance),
		"Accepts no work for local companies or clients: " + yesNo(u.AcceptNoLocalWork),
		"Wants permanent residency: " + yesNo(u.WantLongTerm),
		"Cost of living preference: " + costLabels[u.CostPreference],
		"Language preference: " + languageLabels[u.LanguagePreference],
		"Timezone preference: " + timezoneLabels[u.TimezonePreference],
		"Internet/infrastructure requirement: " + infra,
	}, "\n")
}

// CountrySummary renders one country's policy as prompt lines.
func CountrySummary(c *models.CountryPolicy, rates engine.RateTable) string {
	workTypes := make([]string, len(c.AllowedWorkTypes))
	for i, w := range c.AllowedWorkTypes {
		workTypes[i] = string(w)
	}

	yearsToPR := "none"
	if c.YearsToPR != nil {
		yearsToPR = fmt.Sprintf("%d", *c.YearsToPR)
	}

	return strings.Join([]string{
		"country_id: " + c.CountryID,
		"name: " + c.Name,
		"visa_name: " + c.VisaName,
		fmt.Sprintf("min_income_usd_month: %d", engine.ToUSDMonthly(c.MinIncome, rates)),
		"allowed_work_types: " + strings.Join(workTypes, ", "),
		"family_allowed: " + c.FamilyAllowed.String(),
		"insurance_required: " + c.InsuranceRequired.String(),
		fmt.Sprintf("path_to_pr: %t, years_to_pr: %s", c.PathToPR, yearsToPR),
		fmt.Sprintf("max_stay_months: %d, initial_term_months: %d, renewable: %t",
			c.MaxStayMonths, c.InitialTermMonths, c.Renewable),
		"tax: " + c.TaxPolicy.Description,
		"cost_of_living: " + string(c.CostOfLiving.Level),
		fmt.Sprintf("language: %s, english: %s", c.LanguageEnv.PrimaryLanguage, c.LanguageEnv.EnglishFriendly),
		"timezone: " + string(c.Timezone),
	}, "\n")
}

// SystemPrompt instructs the model to score n pre-filtered countries.
func SystemPrompt(n int) string {
	return fmt.Sprintf(`You are an expert on digital nomad visas and immigration policy.

The following %[1]d countries have already passed the hard eligibility checks (income, work type, documents). Your task is to score and rank them and give highlights and risks.

Do not exclude any country. Every country you receive is confirmed to meet the basic requirements; you only score them.

Output strictly a JSON array of length %[1]d and nothing else. Each element describes one country:

{
  "country_id": "spain",
  "score": integer 0-100,
  "tier": %[2]q | %[3]q | %[4]q | %[5]q,
  "breakdown": { "feasibility": 0-40, "stability": 0-20, "longterm": 0-15, "tax": 0-15, "lifestyle": 0-10 },
  "highlights": [{"text": "highlight", "field": "field name"}], at most 3,
  "risks": [{"text": "risk", "field": "field name", "severity": "high"|"medium"|"low"}], at most 3
}

Dimensions:
- feasibility (0-40): income margin, documents, work type fit, income stability
- stability (0-20): maximum stay, initial term, renewability
- longterm (0-15): path to permanent residency, years to PR, family rights
- tax (0-15): tax benefit size, benefit duration, policy clarity
- lifestyle (0-10): cost of living, language, timezone, infrastructure

Allowed highlight fields: %[6]s
Allowed risk fields: %[7]s

Write all text in English. score should equal the sum of the breakdown (a deviation of 3 points is acceptable).`,
		n,
		engine.TierStrong, engine.TierConsider, engine.TierAlternative, engine.TierLow,
		strings.Join(highlightFieldList, ", "),
		strings.Join(riskFieldList, ", "),
	)
}

// UserPrompt carries the profile and the country summaries.
func UserPrompt(u *models.UserAnswers, countries []*models.CountryPolicy, rates engine.RateTable) string {
	ids := make([]string, len(countries))
	summaries := make([]string, len(countries))
	for i, c := range countries {
		ids[i] = c.CountryID
		summaries[i] = "---\n" + CountrySummary(c, rates)
	}

	return fmt.Sprintf("## User profile\n%s\n\n## Countries to score (%d: %s)\n%s\n\nOutput the JSON array only:",
		ProfileSummary(u),
		len(countries),
		strings.Join(ids, ", "),
		strings.Join(summaries, "\n"),
	)
}
