package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomad-visa-engine/internal/models"
)

func validAnswers() *models.UserAnswers {
	return &models.UserAnswers{
		Nationality:        models.NationalityCN,
		PlannedStay:        models.StayOver183,
		WorkType:           models.WorkTypeFreelancer,
		MonthlyIncomeUSD:   4000,
		DocsAvailable:      []models.DocumentType{models.DocBankStatement},
		CostPreference:     models.CostPreferenceLow,
		LanguagePreference: models.LanguageCanLearn,
		TimezonePreference: models.TimezonePrefAsia,
		InfraRequirement:   models.InfraHigh,
	}
}

func TestValidateAnswers_Valid(t *testing.T) {
	assert.NoError(t, models.ValidateAnswers(validAnswers()))
}

func TestValidateAnswers_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.UserAnswers)
		wantErr error
		wantMsg string
	}{
		{
			name:    "negative income",
			mutate:  func(u *models.UserAnswers) { u.MonthlyIncomeUSD = -1 },
			wantErr: models.ErrNegativeIncome,
		},
		{
			name:    "negative children",
			mutate:  func(u *models.UserAnswers) { u.NumChildren = -2 },
			wantErr: models.ErrNegativeChildren,
		},
		{
			name:    "unknown work type",
			mutate:  func(u *models.UserAnswers) { u.WorkType = "astronaut" },
			wantErr: models.ErrInvalidAnswers,
			wantMsg: "work_type must be one of",
		},
		{
			name:    "missing stay",
			mutate:  func(u *models.UserAnswers) { u.PlannedStay = "" },
			wantErr: models.ErrInvalidAnswers,
			wantMsg: "planned_stay is required",
		},
		{
			name:    "unknown document",
			mutate:  func(u *models.UserAnswers) { u.DocsAvailable = []models.DocumentType{"passport"} },
			wantErr: models.ErrInvalidAnswers,
			wantMsg: "got passport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validAnswers()
			tt.mutate(u)

			err := models.ValidateAnswers(u)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, models.ErrInvalidAnswers)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}

	assert.ErrorIs(t, models.ValidateAnswers(nil), models.ErrInvalidAnswers)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, models.ValidateEmail("nomad@example.com"))
	assert.ErrorIs(t, models.ValidateEmail(""), models.ErrInvalidEmail)
	assert.ErrorIs(t, models.ValidateEmail("not-an-email"), models.ErrInvalidEmail)
}

func TestNormalizeWorkType(t *testing.T) {
	assert.Equal(t, models.WorkTypeOverseasRemoteEmployee, models.NormalizeWorkType("Remote Employee"))
	assert.Equal(t, models.WorkTypeFreelancer, models.NormalizeWorkType("self-employed"))
	assert.Equal(t, models.WorkTypeCompanyOwner, models.NormalizeWorkType(" Founder "))
	assert.False(t, models.NormalizeWorkType("pilot").IsValid())
}

func TestNormalizeDocumentType(t *testing.T) {
	assert.Equal(t, models.DocBankStatement, models.NormalizeDocumentType("Bank Statements"))
	assert.Equal(t, models.DocCriminalRecord, models.NormalizeDocumentType("police-certificate"))
	assert.False(t, models.NormalizeDocumentType("passport").IsValid())
}

func TestTriState_JSON(t *testing.T) {
	var flags struct {
		Yes     models.TriState `json:"yes"`
		No      models.TriState `json:"no"`
		Null    models.TriState `json:"null"`
		Missing models.TriState `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"yes": true, "no": false, "null": null}`), &flags))

	assert.Equal(t, models.Allowed, flags.Yes)
	assert.Equal(t, models.Disallowed, flags.No)
	assert.Equal(t, models.Unknown, flags.Null)
	assert.Equal(t, models.Unknown, flags.Missing)

	out, err := json.Marshal(flags)
	require.NoError(t, err)
	assert.JSONEq(t, `{"yes": true, "no": false, "null": null, "missing": null}`, string(out))

	var bad models.TriState
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &bad))
}

func TestTriState_Predicates(t *testing.T) {
	assert.True(t, models.Allowed.IsTrue())
	assert.False(t, models.Unknown.IsTrue())
	assert.False(t, models.Unknown.IsKnown())
	assert.True(t, models.Disallowed.IsKnown())
	assert.Equal(t, "unknown", models.Unknown.String())
}

func TestUserAnswers_Helpers(t *testing.T) {
	u := validAnswers()
	assert.False(t, u.HasFamily())
	assert.True(t, u.HasDocument(models.DocBankStatement))
	assert.False(t, u.HasDocument(models.DocCriminalRecord))

	u.NumChildren = 1
	assert.True(t, u.HasFamily())
}

func TestCountryResult_Constructors(t *testing.T) {
	c := &models.CountryPolicy{CountryID: "malaysia"}

	excluded := models.Excluded(c, []string{"reason"})
	assert.True(t, excluded.IsExcluded())
	assert.Nil(t, excluded.Score)

	a := models.Assessment{Score: 70, Tier: "worth considering", Breakdown: models.ScoreBreakdown{Feasibility: 30, Tax: 10}}
	recommended := models.Recommended(c, a)
	require.NotNil(t, recommended.Score)
	assert.Equal(t, 70, *recommended.Score)
	assert.Equal(t, 40, recommended.Breakdown.Total())

	a.Score = 10
	assert.Equal(t, 70, *recommended.Score, "result does not alias the assessment")
}

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, models.SeverityHigh.Rank(), models.SeverityMedium.Rank())
	assert.Less(t, models.SeverityMedium.Rank(), models.SeverityLow.Rank())
}
