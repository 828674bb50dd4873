package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

func newTestTrialCityService() *TrialCityService {
	return NewTrialCityService(repositories.NewMemoryTrialCityStore(), NewCodeService(repositories.NewMemorySequenceStore()))
}

func TestCreateTrialCityAssignsRegistryCode(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	city, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra",
		City:  "Mumbai",
	})
	require.NoError(t, err)
	assert.Equal(t, "IKF-MH-MUM-001", city.Code)

	// The same state+city pair is blocked by the registry uniqueness rule.
	_, err = svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra",
		City:  "Mumbai",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateTrialCityUnknownStateDegrades(t *testing.T) {
	svc := newTestTrialCityService()

	city, err := svc.CreateTrialCity(context.Background(), &models.CreateTrialCityRequest{
		State: "Atlantis",
		City:  "Mumbai",
	})
	require.NoError(t, err)
	assert.Equal(t, "IKF-XX-MUM-001", city.Code)
}

func TestReverifyStampsTimestampOnly(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	city, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State:          "Maharashtra",
		City:           "Mumbai",
		GroundLocation: "Andheri Sports Complex",
	})
	require.NoError(t, err)
	require.Nil(t, city.LastReverified)

	verified, err := svc.Reverify(ctx, city.Code)
	require.NoError(t, err)
	require.NotNil(t, verified.LastReverified)
	assert.True(t, verified.GroundVerified)
	assert.Equal(t, city.Code, verified.Code)
	assert.Equal(t, "Andheri Sports Complex", verified.GroundLocation)
}

func TestUpdateTrialCityLocksStateAndCity(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	city, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra",
		City:  "Mumbai",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTrialCity(ctx, city.Code, &models.UpdateTrialCityRequest{
		Region:      "West",
		AssignedREP: "Sports Academy Mumbai",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maharashtra", updated.State)
	assert.Equal(t, "Mumbai", updated.City)
	assert.Equal(t, "West", updated.Region)
}

func TestDeleteTrialCityRequiresExactCityName(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	city, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra",
		City:  "Mumbai",
	})
	require.NoError(t, err)

	require.Error(t, svc.DeleteTrialCity(ctx, city.Code, "mumbai"))
	_, err = svc.GetTrialCity(ctx, city.Code)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrialCity(ctx, city.Code, "Mumbai"))
	_, err = svc.GetTrialCity(ctx, city.Code)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBulkImportContinuesPastFailures(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	_, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra",
		City:  "Mumbai",
	})
	require.NoError(t, err)

	reqs := []*models.CreateTrialCityRequest{
		{State: "Maharashtra", City: "Pune"},
		{State: "Maharashtra", City: "Mumbai"}, // duplicate, fails
		{State: "Karnataka", City: ""},         // blank, skipped
		{State: "Karnataka", City: "Bengaluru"},
	}

	var seen int
	result := svc.BulkImport(ctx, reqs, func(models.BulkImportItemResult) { seen++ })

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, len(reqs), seen)
	require.Len(t, result.Items, len(reqs))
	assert.Equal(t, "failed", result.Items[1].Status)
	assert.Equal(t, "imported", result.Items[3].Status)
}

func TestParseCitiesCSV(t *testing.T) {
	input := "State,City,Region,Assigned REP,Ground Location\n" +
		"Maharashtra,Mumbai,West,Sports Academy Mumbai,Andheri\n" +
		"\n" +
		"Karnataka,Bengaluru,,,\n"

	reqs, err := ParseCitiesCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Mumbai", reqs[0].City)
	assert.Equal(t, "Sports Academy Mumbai", reqs[0].AssignedREP)
	assert.Equal(t, "Bengaluru", reqs[1].City)
}

func TestListTrialCitiesVerifiedFilter(t *testing.T) {
	svc := newTestTrialCityService()
	ctx := context.Background()

	_, err := svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra", City: "Mumbai", GroundVerified: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateTrialCity(ctx, &models.CreateTrialCityRequest{
		State: "Maharashtra", City: "Pune",
	})
	require.NoError(t, err)

	verified, err := svc.ListTrialCities(ctx, &models.TrialCityListFilter{Verified: "Verified"})
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, "Mumbai", verified[0].City)

	unverified, err := svc.ListTrialCities(ctx, &models.TrialCityListFilter{Verified: "Unverified"})
	require.NoError(t, err)
	require.Len(t, unverified, 1)
	assert.Equal(t, "Pune", unverified[0].City)
}
