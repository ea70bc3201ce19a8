package engine

import (
	"fmt"
	"strings"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/utils"
)

// educationProofPhrase appears in the education reason and suppresses the
// experience reason for the same missing document.
const educationProofPhrase = "education or work experience proof"

// criticalDocuments exclude a country when missing. Other missing documents
// only lower the feasibility score.
var criticalDocuments = map[models.DocumentType]bool{
	models.DocCriminalRecord: true,
	models.DocBankStatement:  true,
}

// FilterResult is the outcome of the hard filter for one country.
type FilterResult struct {
	Excluded bool
	Reasons  []string
}

// Evaluate runs every exclusion rule in order and collects all reasons.
func Evaluate(user *models.UserAnswers, c *models.CountryPolicy, rates RateTable) FilterResult {
	var reasons []string

	// Income
	required := RequiredIncome(c.MinIncome, user, rates)
	if user.MonthlyIncomeUSD < float64(required) {
		reasons = append(reasons, fmt.Sprintf(
			"Income below the minimum requirement (needs $%s/month, you have about $%s/month)",
			utils.FormatThousands(required), utils.FormatAmount(user.MonthlyIncomeUSD),
		))
	}

	// Work type
	if !c.AllowsWorkType(user.WorkType) {
		reasons = append(reasons, fmt.Sprintf(
			"This visa does not accept the %q work arrangement", user.WorkType.Label(),
		))
	}

	// Local work restriction
	if c.LocalWorkProhibited && !user.AcceptNoLocalWork {
		reasons = append(reasons,
			"Working for local companies or clients is prohibited, and you cannot accept that restriction")
	}

	// Insurance; unknown requirements do not block
	if c.InsuranceRequired.IsTrue() && !user.CanBuyInsurance {
		reasons = append(reasons,
			"Private health insurance is mandatory for this visa, and you cannot buy it")
	}

	// Critical documents
	var missing []string
	for _, d := range c.RequiredDocuments {
		if criticalDocuments[d] && !user.HasDocument(d) {
			missing = append(missing, d.Label())
		}
	}
	if len(missing) > 0 {
		reasons = append(reasons, "Missing key application documents: "+strings.Join(missing, ", "))
	}

	// Education / experience
	hasProof := user.HasDocument(models.DocEducationOrExperience)
	if c.EducationRequired && !hasProof {
		reasons = append(reasons,
			"This visa requires "+educationProofPhrase+", and you cannot provide it")
	}
	if c.MinExperienceYears > 0 && !hasProof && !containsPhrase(reasons, educationProofPhrase) {
		reasons = append(reasons, fmt.Sprintf(
			"This visa requires proof of at least %d years of work experience", c.MinExperienceYears,
		))
	}

	return FilterResult{Excluded: len(reasons) > 0, Reasons: reasons}
}

func containsPhrase(reasons []string, phrase string) bool {
	for _, r := range reasons {
		if strings.Contains(r, phrase) {
			return true
		}
	}
	return false
}
