package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nomad-visa-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
	ErrInvalidRowData = errors.New("invalid row data")
)

// RequiredColumns defines the columns that must be present in the CSV.
var RequiredColumns = []string{
	"nationality",
	"planned_stay",
	"work_type",
	"monthly_income_usd",
	"cost_preference",
	"language_preference",
	"timezone_preference",
	"infra_requirement",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// profile_id aliases
	"id":         "profile_id",
	"profileid":  "profile_id",
	"profile id": "profile_id",
	"name":       "profile_id",
	"user_id":    "profile_id",

	// nationality aliases
	"passport": "nationality",
	"country":  "nationality",

	// family aliases
	"spouse":      "has_spouse",
	"married":     "has_spouse",
	"children":    "num_children",
	"kids":        "num_children",
	"child_count": "num_children",

	// stay aliases
	"stay":         "planned_stay",
	"stay_length":  "planned_stay",
	"planned stay": "planned_stay",

	// work aliases
	"work":       "work_type",
	"work type":  "work_type",
	"employment": "work_type",
	"occupation": "work_type",

	// income aliases
	"income":         "monthly_income_usd",
	"monthly_income": "monthly_income_usd",
	"monthly income": "monthly_income_usd",
	"annual_income":  "monthly_income_usd", // Will divide by 12
	"annual income":  "monthly_income_usd",
	"salary":         "monthly_income_usd",
	"stable_income":  "income_stable",

	// documents aliases
	"docs":      "docs_available",
	"documents": "docs_available",

	// remaining answers
	"insurance":     "can_buy_insurance",
	"no_local_work": "accept_no_local_work",
	"long_term":     "want_long_term",
	"cost":          "cost_preference",
	"budget":        "cost_preference",
	"language":      "language_preference",
	"timezone":      "timezone_preference",
	"infra":         "infra_requirement",
	"internet":      "infra_requirement",
}

// ProfileRow is one parsed questionnaire row.
type ProfileRow struct {
	ProfileID string
	Line      int
	Answers   models.UserAnswers
}

// CSVParser handles parsing of questionnaire CSV files.
type CSVParser struct {
	columnMapping   map[string]int
	originalHeaders map[string]string // Maps normalized column name to original header
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping:   make(map[string]int),
		originalHeaders: make(map[string]string),
	}
}

// ParseProfiles parses CSV content into validated questionnaire profiles.
// Rows that fail to parse or validate are reported and skipped.
func (p *CSVParser) ParseProfiles(content string) ([]*ProfileRow, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var rows []*ProfileRow
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		row, err := p.parseRow(record, lineNum)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidateAnswers(&row.Answers); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return rows, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)
	p.originalHeaders = make(map[string]string)

	for i, col := range header {
		normalized := normalizeColumn(col)
		p.columnMapping[normalized] = i
		p.originalHeaders[normalized] = strings.ToLower(strings.TrimSpace(col))
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// normalizeColumn lowercases a header and resolves its alias.
func normalizeColumn(col string) string {
	normalized := strings.ToLower(strings.TrimSpace(col))
	if alias, ok := ColumnAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// parseRow parses a single CSV row into a profile.
func (p *CSVParser) parseRow(record []string, lineNum int) (*ProfileRow, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	income, err := parseFloat(getValue("monthly_income_usd"))
	if err != nil {
		return nil, fmt.Errorf("%w: monthly_income_usd: %v", ErrInvalidRowData, err)
	}
	if originalHeader, ok := p.originalHeaders["monthly_income_usd"]; ok {
		if strings.Contains(originalHeader, "annual") {
			income = income / 12.0
		}
	}

	children := 0
	if raw := getValue("num_children"); raw != "" {
		children, err = parseInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: num_children: %v", ErrInvalidRowData, err)
		}
	}

	bools := make(map[string]bool)
	for _, col := range []string{"has_spouse", "income_stable", "can_buy_insurance", "accept_no_local_work", "want_long_term"} {
		b, err := parseBool(getValue(col))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRowData, col, err)
		}
		bools[col] = b
	}

	var docs []models.DocumentType
	for _, d := range splitList(getValue("docs_available")) {
		docs = append(docs, models.NormalizeDocumentType(d))
	}

	profileID := getValue("profile_id")
	if profileID == "" {
		profileID = fmt.Sprintf("row-%d", lineNum)
	}

	return &ProfileRow{
		ProfileID: profileID,
		Line:      lineNum,
		Answers: models.UserAnswers{
			Nationality:        parseNationality(getValue("nationality")),
			HasSpouse:          bools["has_spouse"],
			NumChildren:        children,
			PlannedStay:        models.StayDuration(strings.ToLower(getValue("planned_stay"))),
			WorkType:           models.NormalizeWorkType(getValue("work_type")),
			MonthlyIncomeUSD:   income,
			IncomeStable:       bools["income_stable"],
			DocsAvailable:      docs,
			CanBuyInsurance:    bools["can_buy_insurance"],
			AcceptNoLocalWork:  bools["accept_no_local_work"],
			WantLongTerm:       bools["want_long_term"],
			CostPreference:     models.CostPreference(strings.ToLower(getValue("cost_preference"))),
			LanguagePreference: models.LanguagePreference(normalizeEnum(getValue("language_preference"))),
			TimezonePreference: models.TimezonePreference(strings.ToLower(getValue("timezone_preference"))),
			InfraRequirement:   models.InfraRequirement(strings.ToLower(getValue("infra_requirement"))),
		},
	}, nil
}

func parseNationality(s string) models.Nationality {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CN", "CHN", "CHINA":
		return models.NationalityCN
	case "":
		return ""
	}
	return models.NationalityOther
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(strings.ReplaceAll(s, " ", "_"), "-", "_")
}

// splitList splits a multi-value cell on ';' or '|'.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBool accepts true/false, yes/no, y/n and 1/0. Empty is false.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	}
	return false, fmt.Errorf("unrecognized boolean %q", s)
}

// parseFloat parses a string to float64, handling common formats.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove commas and currency symbols
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "US$")
	s = strings.TrimSpace(s)

	return strconv.ParseFloat(s, 64)
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Handle float strings (e.g., "2.0")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}

// ProfileFileCheck describes a questionnaire CSV before its rows are parsed.
type ProfileFileCheck struct {
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	DataRows       int      `json:"data_rows"`
	MalformedLines []int    `json:"malformed_lines,omitempty"`
}

// ProfileFileError rejects a whole questionnaire CSV. It unwraps to one of
// the CSVParser errors.
type ProfileFileError struct {
	Check *ProfileFileCheck
	err   error
}

func (e *ProfileFileError) Error() string {
	if len(e.Check.MissingColumns) > 0 {
		return fmt.Sprintf("%v: %s", e.err, strings.Join(e.Check.MissingColumns, ", "))
	}
	return e.err.Error()
}

func (e *ProfileFileError) Unwrap() error {
	return e.err
}

// CheckProfileFile resolves the header against RequiredColumns and counts data
// rows. A file that cannot yield any profile is returned as a *ProfileFileError.
func CheckProfileFile(content string) (*ProfileFileCheck, error) {
	check := &ProfileFileCheck{}
	if strings.TrimSpace(content) == "" {
		return check, &ProfileFileError{Check: check, err: ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return check, &ProfileFileError{Check: check, err: fmt.Errorf("%w: unreadable header: %v", ErrInvalidRowData, err)}
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		check.Columns = append(check.Columns, strings.TrimSpace(col))
		present[normalizeColumn(col)] = true
	}
	for _, required := range RequiredColumns {
		if !present[required] {
			check.MissingColumns = append(check.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			check.MalformedLines = append(check.MalformedLines, parseErr.Line)
			continue
		}
		if err != nil {
			return check, &ProfileFileError{Check: check, err: fmt.Errorf("%w: %v", ErrInvalidRowData, err)}
		}
		check.DataRows++
	}

	switch {
	case len(check.MissingColumns) > 0:
		return check, &ProfileFileError{Check: check, err: ErrMissingColumns}
	case check.DataRows == 0:
		return check, &ProfileFileError{Check: check, err: ErrNoDataRows}
	}
	return check, nil
}
