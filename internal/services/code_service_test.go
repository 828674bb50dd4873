package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

func TestCodeNamespacesAreIndependent(t *testing.T) {
	svc := NewCodeService(repositories.NewMemorySequenceStore())
	ctx := context.Background()

	city1, err := svc.NextTrialCityCode(ctx, "Maharashtra", "Mumbai")
	require.NoError(t, err)
	city2, err := svc.NextTrialCityCode(ctx, "Maharashtra", "Mumbai")
	require.NoError(t, err)
	pune, err := svc.NextTrialCityCode(ctx, "Maharashtra", "Pune")
	require.NoError(t, err)
	trial, err := svc.NextTrialCode(ctx, "Season 6", "Regular")
	require.NoError(t, err)

	assert.Equal(t, "IKF-MH-MUM-001", city1)
	assert.Equal(t, "IKF-MH-MUM-002", city2)
	assert.Equal(t, "IKF-MH-PUN-001", pune)
	assert.Equal(t, "TRL-S6-REG-001", trial)
}

func TestSeedFromExisting(t *testing.T) {
	svc := NewCodeService(repositories.NewMemorySequenceStore())
	ctx := context.Background()

	cities := []*models.TrialCity{
		{Code: "IKF-MH-MUM-003"},
		{Code: "IKF-MH-MUM-007"},
		{Code: "not-a-code"},
	}
	trials := []*models.Trial{
		{TrialCode: "TRL-S6-REG-012"},
	}
	require.NoError(t, svc.SeedFromExisting(ctx, cities, trials))

	city, err := svc.NextTrialCityCode(ctx, "Maharashtra", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, "IKF-MH-MUM-008", city)

	trial, err := svc.NextTrialCode(ctx, "Season 6", "Regular")
	require.NoError(t, err)
	assert.Equal(t, "TRL-S6-REG-013", trial)

	// Fresh prefixes are unaffected by seeding.
	other, err := svc.NextTrialCode(ctx, "Season 6", "CSR")
	require.NoError(t, err)
	assert.Equal(t, "TRL-S6-CSR-001", other)
}
