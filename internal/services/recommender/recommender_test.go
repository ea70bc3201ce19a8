package recommender_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/services/catalog"
	"nomad-visa-engine/internal/services/engine"
	"nomad-visa-engine/internal/services/recommender"
	"nomad-visa-engine/internal/utils"
)

func init() {
	utils.SetLogger(zap.NewNop())
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }

type fakeRescorer struct {
	overrides func(results []models.CountryResult) map[string]models.Assessment
	err       error
	calls     int
}

func (f *fakeRescorer) Rescore(_ context.Context, _ *models.UserAnswers, results []models.CountryResult) (map[string]models.Assessment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.overrides(results), nil
}

func newService(t *testing.T, rescorer recommender.Rescorer) *recommender.Service {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return recommender.New(engine.NewEngine(engine.WithClock(fixedNow)), cat, rescorer)
}

func answers() *models.UserAnswers {
	return &models.UserAnswers{
		Nationality:      models.NationalityCN,
		PlannedStay:      models.StayOver183,
		WorkType:         models.WorkTypeOverseasRemoteEmployee,
		MonthlyIncomeUSD: 8500,
		IncomeStable:     true,
		DocsAvailable: []models.DocumentType{
			models.DocEmploymentContract,
			models.DocBankStatement,
			models.DocCriminalRecord,
			models.DocEducationOrExperience,
		},
		CanBuyInsurance:    true,
		AcceptNoLocalWork:  true,
		CostPreference:     models.CostPreferenceMedium,
		LanguagePreference: models.LanguageEnglishPriority,
		TimezonePreference: models.TimezonePrefAny,
		InfraRequirement:   models.InfraMedium,
	}
}

func lastRecommended(results []models.CountryResult) string {
	id := ""
	for _, r := range results {
		if !r.IsExcluded() {
			id = r.Country.CountryID
		}
	}
	return id
}

func TestRecommend_LocalOnly(t *testing.T) {
	svc := newService(t, nil)

	rec, err := svc.Recommend(context.Background(), answers())

	require.NoError(t, err)
	assert.True(t, rec.Fallback, "no advisor means local results")
	assert.NotEmpty(t, rec.RequestID)
	assert.Len(t, rec.Results, 10)
	assert.False(t, svc.AdvisorEnabled())
}

func TestRecommend_AdvisorOverrides(t *testing.T) {
	var boosted string
	rescorer := &fakeRescorer{overrides: func(results []models.CountryResult) map[string]models.Assessment {
		boosted = lastRecommended(results)
		return map[string]models.Assessment{boosted: {Score: 150, Tier: engine.TierStrong}}
	}}
	svc := newService(t, rescorer)

	rec, err := svc.Recommend(context.Background(), answers())

	require.NoError(t, err)
	assert.False(t, rec.Fallback)
	assert.Equal(t, 1, rescorer.calls)
	require.NotEmpty(t, boosted)
	assert.Equal(t, boosted, rec.Results[0].Country.CountryID, "override should be re-sorted to the top")
	assert.Equal(t, 150, *rec.Results[0].Score)
}

func TestRecommend_AdvisorFailureFallsBack(t *testing.T) {
	local, err := newService(t, nil).Recommend(context.Background(), answers())
	require.NoError(t, err)

	for _, cause := range []error{errors.New("status 502"), context.Canceled} {
		svc := newService(t, &fakeRescorer{err: cause})

		rec, err := svc.Recommend(context.Background(), answers())

		require.NoError(t, err, "advisor errors are never surfaced")
		assert.True(t, rec.Fallback)
		assert.Equal(t, local.Results, rec.Results)
	}
}

func TestRecommend_InvalidAnswers(t *testing.T) {
	rescorer := &fakeRescorer{}
	svc := newService(t, rescorer)
	user := answers()
	user.CostPreference = "free"

	_, err := svc.Recommend(context.Background(), user)

	assert.ErrorIs(t, err, models.ErrInvalidAnswers)
	assert.Zero(t, rescorer.calls)
}

func TestLocal(t *testing.T) {
	rescorer := &fakeRescorer{}
	svc := newService(t, rescorer)

	results, err := svc.Local(answers())

	require.NoError(t, err)
	assert.Len(t, results, 10)
	assert.Zero(t, rescorer.calls, "local scoring never calls the advisor")
}

const batchCSV = `profile_id,nationality,planned_stay,work_type,monthly_income_usd,income_stable,docs_available,can_buy_insurance,accept_no_local_work,cost_preference,language_preference,timezone_preference,infra_requirement
rich,CN,>183d,remote_employee,20000,yes,employment_contract;bank_statement;criminal_record;education,yes,yes,medium,english_priority,any,medium
broken,CN,>183d,remote_employee,lots,yes,,yes,yes,medium,english_priority,any,medium
poor,other,<90d,freelancer,500,no,,no,no,low,can_learn,asia,high`

func TestRecommendBatch(t *testing.T) {
	svc := newService(t, nil)

	result, err := svc.RecommendBatch(context.Background(), "req-1", batchCSV, 2)

	require.NoError(t, err)
	assert.Equal(t, "req-1", result.RequestID)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 3")

	require.Len(t, result.Profiles, 2)
	rich, poor := result.Profiles[0], result.Profiles[1]
	assert.Equal(t, "rich", rich.ProfileID)
	assert.Len(t, rich.Top, 2)
	assert.GreaterOrEqual(t, rich.Top[0].Score, rich.Top[1].Score)
	assert.Equal(t, "poor", poor.ProfileID)
	assert.Empty(t, poor.Top)
	assert.Equal(t, 10, poor.ExcludedCount)
}

func TestRecommendBatch_NoRows(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.RecommendBatch(context.Background(), "req-2", "", 0)
	assert.ErrorIs(t, err, utils.ErrEmptyCSV)

	_, err = svc.RecommendBatch(context.Background(), "req-3", "nationality\n", 0)
	assert.ErrorIs(t, err, utils.ErrMissingColumns)

	header := batchCSV[:strings.Index(batchCSV, "\n")]
	_, err = svc.RecommendBatch(context.Background(), "req-3b", header+"\n", 0)
	assert.ErrorIs(t, err, utils.ErrNoDataRows)
}

func TestRecommendBatch_MissingColumnsReported(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.RecommendBatch(context.Background(), "req-5", "nationality,income,stay\nCN,5000,>183d\n", 0)

	var fileErr *utils.ProfileFileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, []string{"work_type", "cost_preference", "language_preference", "timezone_preference", "infra_requirement"},
		fileErr.Check.MissingColumns)
	assert.Equal(t, 1, fileErr.Check.DataRows)
}

func TestRecommendBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(t, nil).RecommendBatch(ctx, "req-4", batchCSV, 0)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBootstrap_Embedded(t *testing.T) {
	rt, err := recommender.Bootstrap(context.Background(), &config.Config{
		CatalogSource: config.CatalogSourceEmbedded,
		EURToUSD:      1.1,
	})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 10, rt.Service.Catalog().Len())
	assert.False(t, rt.Service.AdvisorEnabled())
	assert.Nil(t, rt.DB)
}

func TestBootstrap_UnknownSource(t *testing.T) {
	_, err := recommender.Bootstrap(context.Background(), &config.Config{CatalogSource: "ftp"})
	assert.ErrorIs(t, err, catalog.ErrUnknownSource)
}
