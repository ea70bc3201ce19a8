package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Common errors
var (
	ErrInvalidAnswers   = errors.New("invalid user answers")
	ErrNegativeIncome   = errors.New("monthly income cannot be negative")
	ErrNegativeChildren = errors.New("number of children cannot be negative")
	ErrCountryNotFound  = errors.New("country not found")
	ErrInvalidEmail     = errors.New("invalid email address")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateAnswers checks enum membership and numeric ranges of a profile.
// Requests that fail here must not reach the engine.
func ValidateAnswers(u *UserAnswers) error {
	if u == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidAnswers)
	}
	if u.MonthlyIncomeUSD < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAnswers, ErrNegativeIncome)
	}
	if u.NumChildren < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAnswers, ErrNegativeChildren)
	}

	err := getValidator().Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidAnswers, strings.Join(msgs, "; "))
}

// ValidateEmail checks a report recipient address.
func ValidateEmail(email string) error {
	if err := getValidator().Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// NormalizeWorkType converts loose spellings to a WorkType.
func NormalizeWorkType(raw string) WorkType {
	normalized := normalizeToken(raw)

	workTypeMap := map[string]WorkType{
		"overseas_remote_employee": WorkTypeOverseasRemoteEmployee,
		"remote_employee":          WorkTypeOverseasRemoteEmployee,
		"overseas_employee":        WorkTypeOverseasRemoteEmployee,
		"foreign_employee":         WorkTypeOverseasRemoteEmployee,
		"domestic_remote_employee": WorkTypeDomesticRemoteEmployee,
		"domestic_employee":        WorkTypeDomesticRemoteEmployee,
		"home_country_employee":    WorkTypeDomesticRemoteEmployee,
		"freelancer":               WorkTypeFreelancer,
		"freelance":                WorkTypeFreelancer,
		"self_employed":            WorkTypeFreelancer,
		"contractor":               WorkTypeFreelancer,
		"company_owner":            WorkTypeCompanyOwner,
		"business_owner":           WorkTypeCompanyOwner,
		"founder":                  WorkTypeCompanyOwner,
		"entrepreneur":             WorkTypeCompanyOwner,
	}

	if mapped, ok := workTypeMap[normalized]; ok {
		return mapped
	}

	// Return as-is if no mapping found (will fail validation)
	return WorkType(normalized)
}

// NormalizeDocumentType converts loose spellings to a DocumentType.
func NormalizeDocumentType(raw string) DocumentType {
	normalized := normalizeToken(raw)

	docMap := map[string]DocumentType{
		"employment_contract":     DocEmploymentContract,
		"contract":                DocEmploymentContract,
		"bank_statement":          DocBankStatement,
		"bank_statements":         DocBankStatement,
		"criminal_record":         DocCriminalRecord,
		"police_certificate":      DocCriminalRecord,
		"background_check":        DocCriminalRecord,
		"education_or_experience": DocEducationOrExperience,
		"education":               DocEducationOrExperience,
		"degree":                  DocEducationOrExperience,
		"experience":              DocEducationOrExperience,
	}

	if mapped, ok := docMap[normalized]; ok {
		return mapped
	}
	return DocumentType(normalized)
}

func normalizeToken(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}
