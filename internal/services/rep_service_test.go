package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

func newTestREPService() *REPService {
	return NewREPService(repositories.NewMemoryREPStore())
}

func validREPRequest(name, city string) *models.CreateREPRequest {
	return &models.CreateREPRequest{
		Name:         name,
		State:        "Maharashtra",
		City:         city,
		ContactName:  "Ravi Sharma",
		ContactPhone: "9876543210",
		ContactEmail: "ravi@example.com",
		PANCard:      "ABCDE1234F",
	}
}

func TestCreateREPValidatesPAN(t *testing.T) {
	svc := newTestREPService()

	req := validREPRequest("Sports Academy Mumbai", "Mumbai")
	req.PANCard = "abcde1234f"
	_, err := svc.CreateREP(context.Background(), req)
	require.Error(t, err)

	v, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "panCard", v.Field)
}

func TestCreateREPDefaultsStatus(t *testing.T) {
	svc := newTestREPService()

	rep, err := svc.CreateREP(context.Background(), validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)
	assert.Equal(t, models.REPStatusActive, rep.Status)
	assert.Equal(t, models.MOUStatusPending, rep.MOUStatus)
	assert.NotZero(t, rep.ID)
}

func TestCreateREPRejectsDuplicateNameCity(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	_, err := svc.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	_, err = svc.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// Same name in a different city is allowed.
	_, err = svc.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Pune"))
	require.NoError(t, err)
}

func TestDeleteREPRequiresExactNameMatch(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	rep, err := svc.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	// Wrong case is rejected and the REP survives.
	err = svc.DeleteREP(ctx, rep.ID, "sports academy mumbai")
	require.Error(t, err)
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)

	_, err = svc.GetREP(ctx, rep.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteREP(ctx, rep.ID, "Sports Academy Mumbai"))
	_, err = svc.GetREP(ctx, rep.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListREPsSearchAndFilters(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	seed := []struct {
		name, city, state string
	}{
		{"Sports Academy Mumbai", "Mumbai", "Maharashtra"},
		{"Pune United", "Pune", "Maharashtra"},
		{"Chennai Kickers", "Chennai", "Tamil Nadu"},
	}
	for _, s := range seed {
		req := validREPRequest(s.name, s.city)
		req.State = s.state
		_, err := svc.CreateREP(ctx, req)
		require.NoError(t, err)
	}

	// Case-insensitive substring search across name, city, state.
	reps, err := svc.ListREPs(ctx, &models.REPListFilter{Search: "mumbai"})
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, "Sports Academy Mumbai", reps[0].Name)

	// A state filter and search combine with AND.
	reps, err = svc.ListREPs(ctx, &models.REPListFilter{Search: "united", State: "Tamil Nadu"})
	require.NoError(t, err)
	assert.Empty(t, reps)

	// "All" imposes no constraint.
	reps, err = svc.ListREPs(ctx, &models.REPListFilter{State: "All"})
	require.NoError(t, err)
	assert.Len(t, reps, 3)
}

func TestListREPsFilterIntersection(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	for _, s := range []struct{ name, city, state, status string }{
		{"A", "Mumbai", "Maharashtra", models.REPStatusActive},
		{"B", "Pune", "Maharashtra", models.REPStatusInactive},
		{"C", "Chennai", "Tamil Nadu", models.REPStatusActive},
	} {
		req := validREPRequest(s.name, s.city)
		req.State = s.state
		req.Status = s.status
		_, err := svc.CreateREP(ctx, req)
		require.NoError(t, err)
	}

	byState, err := svc.ListREPs(ctx, &models.REPListFilter{State: "Maharashtra"})
	require.NoError(t, err)
	byStatus, err := svc.ListREPs(ctx, &models.REPListFilter{Status: models.REPStatusActive})
	require.NoError(t, err)
	both, err := svc.ListREPs(ctx, &models.REPListFilter{State: "Maharashtra", Status: models.REPStatusActive})
	require.NoError(t, err)

	// Combined filters yield the intersection of each applied alone.
	names := func(reps []*models.REP) map[string]bool {
		m := make(map[string]bool)
		for _, r := range reps {
			m[r.Name] = true
		}
		return m
	}
	stateSet, statusSet, bothSet := names(byState), names(byStatus), names(both)
	for name := range bothSet {
		assert.True(t, stateSet[name])
		assert.True(t, statusSet[name])
	}
	assert.Len(t, bothSet, 1)
	assert.True(t, bothSet["A"])
}

func TestListREPsSortStableAndDeterministic(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	for _, name := range []string{"Charlie", "alpha", "Bravo"} {
		_, err := svc.CreateREP(ctx, validREPRequest(name, name+" City"))
		require.NoError(t, err)
	}

	first, err := svc.ListREPs(ctx, &models.REPListFilter{SortKey: "name"})
	require.NoError(t, err)
	second, err := svc.ListREPs(ctx, &models.REPListFilter{SortKey: "name"})
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "alpha", first[0].Name)
	assert.Equal(t, "Bravo", first[1].Name)
	assert.Equal(t, "Charlie", first[2].Name)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	desc, err := svc.ListREPs(ctx, &models.REPListFilter{SortKey: "name", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", desc[0].Name)
}

func TestUpdateREPKeepsAssignedTrials(t *testing.T) {
	svc := newTestREPService()
	ctx := context.Background()

	rep, err := svc.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	require.NoError(t, svc.SyncAssignedTrial(ctx, rep.Name, models.AssignedTrial{
		City: "Mumbai", TrialName: "Monsoon Trials",
	}))

	req := validREPRequest("Sports Academy Mumbai", "Mumbai")
	req.Region = "West"
	updated, err := svc.UpdateREP(ctx, rep.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "West", updated.Region)
	require.Len(t, updated.AssignedTrials, 1)
	assert.Equal(t, "Monsoon Trials", updated.AssignedTrials[0].TrialName)
}
