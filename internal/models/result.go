package models

// ResultStatus is the terminal state of a country for one request.
type ResultStatus string

const (
	StatusRecommended ResultStatus = "RECOMMENDED"
	StatusExcluded    ResultStatus = "EXCLUDED"
)

// Severity ranks a risk.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities from most to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	}
	return 2
}

// Score dimension maxima.
const (
	MaxFeasibility = 40
	MaxStability   = 20
	MaxLongterm    = 15
	MaxTax         = 15
	MaxLifestyle   = 10
)

// ScoreBreakdown holds the five dimension scores.
type ScoreBreakdown struct {
	Feasibility int `json:"feasibility"`
	Stability   int `json:"stability"`
	Longterm    int `json:"longterm"`
	Tax         int `json:"tax"`
	Lifestyle   int `json:"lifestyle"`
}

// Total returns the base score before modifiers.
func (b ScoreBreakdown) Total() int {
	return b.Feasibility + b.Stability + b.Longterm + b.Tax + b.Lifestyle
}

// Highlight is a positive fact about a country.
type Highlight struct {
	Text  string `json:"text"`
	Field string `json:"field"`
}

// Risk is a caveat about a country.
type Risk struct {
	Text     string   `json:"text"`
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
}

// Assessment is the soft-scoring output for a country that passed the hard filter.
type Assessment struct {
	Score      int            `json:"score"`
	Tier       string         `json:"tier"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Highlights []Highlight    `json:"highlights"`
	Risks      []Risk         `json:"risks"`
}

// CountryResult is the engine output for one country.
type CountryResult struct {
	Country        *CountryPolicy  `json:"country"`
	Status         ResultStatus    `json:"status"`
	Score          *int            `json:"score"`
	Tier           string          `json:"tier,omitempty"`
	Breakdown      *ScoreBreakdown `json:"breakdown,omitempty"`
	Highlights     []Highlight     `json:"highlights,omitempty"`
	Risks          []Risk          `json:"risks,omitempty"`
	ExcludeReasons []string        `json:"exclude_reasons,omitempty"`
}

// IsExcluded reports whether the country failed the hard filter.
func (r *CountryResult) IsExcluded() bool {
	return r.Status == StatusExcluded
}

// Excluded builds an EXCLUDED result.
func Excluded(c *CountryPolicy, reasons []string) CountryResult {
	return CountryResult{
		Country:        c,
		Status:         StatusExcluded,
		ExcludeReasons: reasons,
	}
}

// Recommended builds a RECOMMENDED result from an assessment.
func Recommended(c *CountryPolicy, a Assessment) CountryResult {
	score := a.Score
	breakdown := a.Breakdown
	return CountryResult{
		Country:    c,
		Status:     StatusRecommended,
		Score:      &score,
		Tier:       a.Tier,
		Breakdown:  &breakdown,
		Highlights: a.Highlights,
		Risks:      a.Risks,
	}
}

// Recommendation is the response payload of a recommend call.
type Recommendation struct {
	RequestID string          `json:"request_id"`
	Results   []CountryResult `json:"results"`
	Fallback  bool            `json:"fallback"`
}
