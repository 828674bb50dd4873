package wizard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/models"
)

func readyProjectDetails(d *Draft) {
	d.SetProjectDetails("Mumbai Monsoon Trials", "Season 6", "Regular")
	d.ApplyNameCheck(d.NameGeneration(), false)
}

func TestNextBlocksOnEmptyName(t *testing.T) {
	d := newDraft("t1")

	err := d.Next()
	require.Error(t, err)
	assert.Equal(t, StepProjectDetails, d.Step)
}

func TestNextBlocksOnTakenName(t *testing.T) {
	d := newDraft("t1")
	d.SetProjectDetails("Mumbai Monsoon Trials", "Season 6", "Regular")
	d.ApplyNameCheck(d.NameGeneration(), true)

	err := d.Next()
	require.Error(t, err)
	assert.Equal(t, StepProjectDetails, d.Step)
}

func TestNextAdvancesWithValidProjectDetails(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)

	require.NoError(t, d.Next())
	assert.Equal(t, StepCitiesRegions, d.Step)
}

func TestNameCheckLastWriteWins(t *testing.T) {
	d := newDraft("t1")

	d.SetProjectDetails("First Name", "Season 6", "Regular")
	staleGen := d.NameGeneration()

	d.SetProjectDetails("Second Name", "Season 6", "Regular")
	freshGen := d.NameGeneration()

	// The stale result arrives after the rename and must be dropped.
	assert.False(t, d.ApplyNameCheck(staleGen, true))
	assert.True(t, d.ApplyNameCheck(freshGen, false))

	require.NoError(t, d.Next())
	assert.Equal(t, StepCitiesRegions, d.Step)
}

func TestZeroCitiesPassesCitiesStep(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	require.NoError(t, d.Next())

	require.NoError(t, d.Next())
	assert.Equal(t, StepTierPricing, d.Step)
}

func TestAddCityDefaultsRegionAndRejectsDuplicates(t *testing.T) {
	d := newDraft("t1")

	city, err := d.AddCity("Mumbai", "")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", city.TrialRegion)
	assert.NotEmpty(t, city.Code)

	_, err = d.AddCity("Mumbai", "Mumbai")
	require.Error(t, err)
	assert.Len(t, d.Cities, 1)

	// Same city under a different region is a distinct entry.
	_, err = d.AddCity("Mumbai", "Mumbai West")
	require.NoError(t, err)
	assert.Len(t, d.Cities, 2)
}

func TestAddCityRequiresName(t *testing.T) {
	d := newDraft("t1")

	_, err := d.AddCity("   ", "Region")
	require.Error(t, err)
	assert.Empty(t, d.Cities)
}

func TestLocalCityCodesSequenceWithinDraft(t *testing.T) {
	d := newDraft("t1")

	first, err := d.AddCity("Mumbai", "West")
	require.NoError(t, err)
	second, err := d.AddCity("Mumbai", "East")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.Code, "-001"), first.Code)
	assert.True(t, strings.HasSuffix(second.Code, "-002"), second.Code)
}

func TestTierPricingGate(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	require.NoError(t, d.Next())
	require.NoError(t, d.Next())

	d.SetTierPricing(models.TierBasic, "", "", "")
	require.Error(t, d.Next())
	assert.Equal(t, StepTierPricing, d.Step)

	d.SetTierPricing(models.TierBasic, "Entry fee per player", "abc", "")
	require.Error(t, d.Next())

	d.SetTierPricing(models.TierBasic, "Entry fee per player", "499", "200")
	require.NoError(t, d.Next())
	assert.Equal(t, StepSchedule, d.Step)
}

func TestScheduleGateFixedDates(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	require.NoError(t, d.Next())
	require.NoError(t, d.Next())
	require.NoError(t, d.Next()) // tier defaults to Not Any

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	endBefore := start.AddDate(0, 0, -1)
	d.SetSchedule(models.ScheduleFixed, &start, &endBefore, "", "", nil)
	require.Error(t, d.Next())
	assert.Equal(t, StepSchedule, d.Step)

	// Swapping to a later end date unblocks the step.
	endAfter := start.AddDate(0, 0, 2)
	d.SetSchedule(models.ScheduleFixed, &start, &endAfter, "", "", nil)
	require.NoError(t, d.Next())
	assert.Equal(t, StepReviewSubmit, d.Step)
}

func TestScheduleGateTentativeMonth(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	require.NoError(t, d.Next())
	require.NoError(t, d.Next())
	require.NoError(t, d.Next())

	d.SetSchedule(models.ScheduleTentative, nil, nil, "", "", nil)
	require.Error(t, d.Next())
	assert.Equal(t, StepSchedule, d.Step)

	d.SetSchedule(models.ScheduleTentative, nil, nil, "June", "First two weeks", nil)
	require.NoError(t, d.Next())
	assert.Equal(t, StepReviewSubmit, d.Step)
}

func TestBackAlwaysSucceedsAndKeepsData(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	require.NoError(t, d.Next())
	_, err := d.AddCity("Pune", "")
	require.NoError(t, err)

	d.Back()
	assert.Equal(t, StepProjectDetails, d.Step)
	assert.Len(t, d.Cities, 1)
	assert.Equal(t, "Mumbai Monsoon Trials", d.Name)

	d.Back()
	assert.Equal(t, StepProjectDetails, d.Step)
}

func TestPayloadRequiresConfirmation(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	d.SetSchedule(models.ScheduleFixed, &start, &end, "", "", nil)

	_, err := d.Payload("ops@tta.in")
	require.Error(t, err)

	d.SetConfirmed(true)
	req, err := d.Payload("ops@tta.in")
	require.NoError(t, err)
	assert.Equal(t, "ops@tta.in", req.CreatedBy)
}

func TestPayloadNullsTierBranchOnNotAny(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)

	// Values typed under a priced tier must vanish once the tier
	// switches back to the sentinel.
	d.SetTierPricing(models.TierPremium, "Premium package", "999", "500")
	d.SetTierPricing(models.TierNotAny, d.TierDetails, d.TierAmount, d.ExpectedParticipants)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	d.SetSchedule(models.ScheduleFixed, &start, &end, "", "", nil)
	d.SetConfirmed(true)

	req, err := d.Payload("ops@tta.in")
	require.NoError(t, err)
	assert.Nil(t, req.TierDetails)
	assert.Nil(t, req.TierAmount)
	assert.Nil(t, req.ExpectedParticipants)
}

func TestPayloadStartsTrialAsDraft(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	d.SetSchedule(models.ScheduleFixed, &start, &end, "", "", nil)
	d.SetConfirmed(true)

	req, err := d.Payload("ops@tta.in")
	require.NoError(t, err)
	assert.Equal(t, models.TrialStatusDraft, req.Status)
}

func TestPayloadNullsScheduleBranch(t *testing.T) {
	d := newDraft("t1")
	readyProjectDetails(d)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	d.SetSchedule(models.ScheduleFixed, &start, &end, "", "", nil)
	d.SetSchedule(models.ScheduleTentative, d.StartDate, d.EndDate, "June", "", nil)
	d.SetConfirmed(true)

	req, err := d.Payload("ops@tta.in")
	require.NoError(t, err)
	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Equal(t, "June", req.TentativeMonth)
}

func TestImportCitiesCSV(t *testing.T) {
	d := newDraft("t1")
	_, err := d.AddCity("Mumbai", "Mumbai West")
	require.NoError(t, err)

	input := "City Name,Trial Region\n" +
		"Pune,Pune Central\n" +
		",Missing Name\n" +
		"Mumbai,Mumbai West\n" + // duplicate of the manual entry
		"Nagpur,\n"

	summary, err := d.ImportCitiesCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, d.Cities, 3)

	// Blank region defaulted to the city name.
	last := d.Cities[len(d.Cities)-1]
	assert.Equal(t, "Nagpur", last.TrialRegion)
}

func TestStoreExpiresDrafts(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	defer s.Close()

	d := s.Create()
	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	time.Sleep(20 * time.Millisecond)
	_, err = s.Get(d.ID)
	require.Error(t, err)
}
