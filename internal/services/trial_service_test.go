package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
	"tta-backend/internal/timeutil"
)

func newTestTrialService() *TrialService {
	cityStore := repositories.NewMemoryTrialCityStore()
	codeService := NewCodeService(repositories.NewMemorySequenceStore())
	repService := NewREPService(repositories.NewMemoryREPStore())
	return NewTrialService(repositories.NewMemoryTrialStore(), cityStore, codeService, repService)
}

func fixedScheduleRequest(name string) *models.CreateTrialRequest {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	return &models.CreateTrialRequest{
		Name:         name,
		Season:       "Season 6",
		TrialType:    "Regular",
		TierType:     models.TierNotAny,
		ScheduleType: models.ScheduleFixed,
		StartDate:    &start,
		EndDate:      &end,
		CreatedBy:    "ops@tta.in",
	}
}

func TestCreateTrialAssignsSequentialCodes(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	first, err := svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.NoError(t, err)
	assert.Equal(t, "TRL-S6-REG-001", first.TrialCode)

	second, err := svc.CreateTrial(ctx, fixedScheduleRequest("Winter Trials"))
	require.NoError(t, err)
	assert.Equal(t, "TRL-S6-REG-002", second.TrialCode)

	// A different season/type pair sequences independently.
	csr := fixedScheduleRequest("CSR Outreach")
	csr.TrialType = "CSR"
	third, err := svc.CreateTrial(ctx, csr)
	require.NoError(t, err)
	assert.Equal(t, "TRL-S6-CSR-001", third.TrialCode)
}

func TestCreateTrialRejectsDuplicateName(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	_, err := svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.NoError(t, err)

	_, err = svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateTrialValidatesTierBranch(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	req := fixedScheduleRequest("Monsoon Trials")
	req.TierType = models.TierBasic
	_, err := svc.CreateTrial(ctx, req)
	require.Error(t, err)
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)

	details := "Entry fee per player"
	amount := 499.0
	req.TierDetails = &details
	req.TierAmount = &amount
	trial, err := svc.CreateTrial(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, trial.TierAmount)
	assert.Equal(t, 499.0, *trial.TierAmount)
}

func TestCreateTrialNullsTierFieldsOnNotAny(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	details := "left over from a priced tier"
	amount := 999.0
	participants := 500
	req := fixedScheduleRequest("Monsoon Trials")
	req.TierType = models.TierNotAny
	req.TierDetails = &details
	req.TierAmount = &amount
	req.ExpectedParticipants = &participants

	trial, err := svc.CreateTrial(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, trial.TierDetails)
	assert.Nil(t, trial.TierAmount)
	assert.Nil(t, trial.ExpectedParticipants)
}

func TestCreateTrialValidatesSchedule(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	req := fixedScheduleRequest("Monsoon Trials")
	end := req.StartDate.AddDate(0, 0, -1)
	req.EndDate = &end
	_, err := svc.CreateTrial(ctx, req)
	require.Error(t, err)

	tentative := fixedScheduleRequest("Tentative Trials")
	tentative.ScheduleType = models.ScheduleTentative
	tentative.StartDate = nil
	tentative.EndDate = nil
	_, err = svc.CreateTrial(ctx, tentative)
	require.Error(t, err)

	tentative.TentativeMonth = "June"
	trial, err := svc.CreateTrial(ctx, tentative)
	require.NoError(t, err)
	assert.Nil(t, trial.StartDate)
	assert.Equal(t, "June", trial.TentativeMonth)
}

func TestDeleteTrialRequiresLiteralDELETE(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	trial, err := svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.NoError(t, err)

	require.Error(t, svc.DeleteTrial(ctx, trial.ID, "delete"))
	require.Error(t, svc.DeleteTrial(ctx, trial.ID, "Delete"))
	_, err = svc.GetTrial(ctx, trial.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrial(ctx, trial.ID, "DELETE"))
	_, err = svc.GetTrial(ctx, trial.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateTrialKeepsNameAndCode(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	trial, err := svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.NoError(t, err)

	updated, err := svc.UpdateTrial(ctx, trial.ID, &models.UpdateTrialRequest{
		Season:         "Season 7",
		TrialType:      "Regular",
		TierType:       models.TierNotAny,
		ScheduleType:   models.ScheduleTentative,
		TentativeMonth: "July",
		Status:         models.TrialStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, trial.Name, updated.Name)
	assert.Equal(t, trial.TrialCode, updated.TrialCode)
	assert.Equal(t, "Season 7", updated.Season)
}

func TestCheckNameExists(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	_, err := svc.CreateTrial(ctx, fixedScheduleRequest("Monsoon Trials"))
	require.NoError(t, err)

	exists, err := svc.CheckNameExists(ctx, "Monsoon Trials")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckNameExists(ctx, "monsoon trials")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckNameExists(ctx, "Unseen Trials")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.CheckNameExists(ctx, "   ")
	require.Error(t, err)
}

func TestListTrialsDateBuckets(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	thisMonth := fixedScheduleRequest("This Month Trials")
	now := timeutil.Now()
	// First and second day of the current IST month, so the trial always
	// lands in the this-month bucket.
	start := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, timeutil.IST)
	end := start.AddDate(0, 0, 1)
	thisMonth.StartDate = &start
	thisMonth.EndDate = &end
	_, err := svc.CreateTrial(ctx, thisMonth)
	require.NoError(t, err)

	tentative := fixedScheduleRequest("Tentative Trials")
	tentative.ScheduleType = models.ScheduleTentative
	tentative.StartDate = nil
	tentative.EndDate = nil
	tentative.TentativeMonth = "June"
	_, err = svc.CreateTrial(ctx, tentative)
	require.NoError(t, err)

	tentativeOnly, err := svc.ListTrials(ctx, &models.TrialListFilter{DateBucket: "tentative-only"})
	require.NoError(t, err)
	require.Len(t, tentativeOnly, 1)
	assert.Equal(t, "Tentative Trials", tentativeOnly[0].Name)

	thisMonthList, err := svc.ListTrials(ctx, &models.TrialListFilter{DateBucket: "this-month"})
	require.NoError(t, err)
	require.Len(t, thisMonthList, 1)
	assert.Equal(t, "This Month Trials", thisMonthList[0].Name)
}

func TestListTrialsPipelineIdempotent(t *testing.T) {
	svc := newTestTrialService()
	ctx := context.Background()

	for _, name := range []string{"Alpha Trials", "Beta Trials", "Gamma Trials"} {
		_, err := svc.CreateTrial(ctx, fixedScheduleRequest(name))
		require.NoError(t, err)
	}

	filter := &models.TrialListFilter{Search: "trials", SortKey: "name"}
	first, err := svc.ListTrials(ctx, filter)
	require.NoError(t, err)
	second, err := svc.ListTrials(ctx, filter)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestCreateTrialSyncsAssignedREP(t *testing.T) {
	cityStore := repositories.NewMemoryTrialCityStore()
	codeService := NewCodeService(repositories.NewMemorySequenceStore())
	repService := NewREPService(repositories.NewMemoryREPStore())
	svc := NewTrialService(repositories.NewMemoryTrialStore(), cityStore, codeService, repService)
	ctx := context.Background()

	rep, err := repService.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	citySvc := NewTrialCityService(cityStore, codeService)
	_, err = citySvc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State:       "Maharashtra",
		City:        "Mumbai",
		AssignedREP: rep.Name,
	})
	require.NoError(t, err)

	req := fixedScheduleRequest("Monsoon Trials")
	req.AssignedCities = []models.AssignedCity{{CityName: "Mumbai", TrialRegion: "Mumbai West", Code: "IKF-TG-MUM-001"}}
	_, err = svc.CreateTrial(ctx, req)
	require.NoError(t, err)

	updated, err := repService.GetREP(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, updated.AssignedTrials, 1)
	assert.Equal(t, "Monsoon Trials", updated.AssignedTrials[0].TrialName)
}
