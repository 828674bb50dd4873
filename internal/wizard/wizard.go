// Package wizard implements the five-step trial creation flow as a
// server-held draft: strictly linear step progression, per-step
// validation gates, duplicate city detection, and assembly of the
// final create payload.
package wizard

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/codes"
	"tta-backend/internal/models"
)

// Step is a wizard step index. Steps are ordered and transitions are
// strictly linear: Next advances only when the current step validates,
// Back always succeeds.
type Step int

const (
	StepProjectDetails Step = iota
	StepCitiesRegions
	StepTierPricing
	StepSchedule
	StepReviewSubmit
)

var stepNames = map[Step]string{
	StepProjectDetails: "ProjectDetails",
	StepCitiesRegions:  "CitiesRegions",
	StepTierPricing:    "TierPricing",
	StepSchedule:       "Schedule",
	StepReviewSubmit:   "ReviewSubmit",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Draft holds the in-progress wizard state for one trial. All methods
// are safe for concurrent use.
type Draft struct {
	mu sync.Mutex

	ID   string
	Step Step

	Name      string
	Season    string
	TrialType string

	// Name uniqueness is checked asynchronously. The generation counter
	// makes stale check results harmless: a result is applied only when
	// its generation matches the latest edit.
	nameGen    int
	nameExists *bool

	Cities []models.AssignedCity

	TierType             string
	TierDetails          string
	TierAmount           string
	ExpectedParticipants string

	ScheduleType       string
	StartDate          *time.Time
	EndDate            *time.Time
	TentativeMonth     string
	TentativeDateRange string
	NextTrialDate      *time.Time

	Comment   string
	Confirmed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newDraft(id string) *Draft {
	now := time.Now()
	return &Draft{
		ID:           id,
		Step:         StepProjectDetails,
		TierType:     models.TierNotAny,
		ScheduleType: models.ScheduleFixed,
		Cities:       []models.AssignedCity{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetProjectDetails updates the first step's fields. Changing the name
// bumps the check generation and discards any pending check result.
func (d *Draft) SetProjectDetails(name, season, trialType string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name = strings.TrimSpace(name)
	if name != d.Name {
		d.Name = name
		d.nameGen++
		d.nameExists = nil
	}
	d.Season = season
	d.TrialType = trialType
	d.touch()
}

// NameGeneration returns the current name edit generation, passed along
// with the async uniqueness lookup.
func (d *Draft) NameGeneration() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nameGen
}

// ApplyNameCheck records a uniqueness result. Results for an older
// generation are dropped so only the check for the latest-entered name
// wins, regardless of arrival order.
func (d *Draft) ApplyNameCheck(generation int, exists bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if generation != d.nameGen {
		return false
	}
	d.nameExists = &exists
	d.touch()
	return true
}

// AddCity appends a city to the draft. The trial region defaults to the
// city name when blank; a duplicate (cityName, trialRegion) pair is
// rejected without being added.
func (d *Draft) AddCity(cityName, trialRegion string) (models.AssignedCity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return models.AssignedCity{}, apperrors.Validation("cityName", "city name is required")
	}
	trialRegion = strings.TrimSpace(trialRegion)
	if trialRegion == "" {
		trialRegion = cityName
	}

	for _, c := range d.Cities {
		if strings.EqualFold(c.CityName, cityName) && strings.EqualFold(c.TrialRegion, trialRegion) {
			return models.AssignedCity{}, apperrors.Conflict("city already added for this region")
		}
	}

	assigned := make([]string, 0, len(d.Cities))
	for _, c := range d.Cities {
		assigned = append(assigned, c.Code)
	}
	city := models.AssignedCity{
		CityName:    cityName,
		TrialRegion: trialRegion,
		Code:        codes.GenerateLocalCityCode(cityName, assigned),
	}
	d.Cities = append(d.Cities, city)
	d.touch()
	return city, nil
}

// RemoveCity drops the city with the given trial-local code.
func (d *Draft) RemoveCity(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, c := range d.Cities {
		if c.Code == code {
			d.Cities = append(d.Cities[:i], d.Cities[i+1:]...)
			d.touch()
			return true
		}
	}
	return false
}

// SetTierPricing updates the third step's fields
func (d *Draft) SetTierPricing(tierType, details, amount, expectedParticipants string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.TierType = tierType
	d.TierDetails = details
	d.TierAmount = amount
	d.ExpectedParticipants = expectedParticipants
	d.touch()
}

// SetSchedule updates the fourth step's fields
func (d *Draft) SetSchedule(scheduleType string, start, end *time.Time, tentativeMonth, tentativeDateRange string, nextTrialDate *time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ScheduleType = scheduleType
	d.StartDate = start
	d.EndDate = end
	d.TentativeMonth = tentativeMonth
	d.TentativeDateRange = tentativeDateRange
	d.NextTrialDate = nextTrialDate
	d.touch()
}

// SetConfirmed toggles the review step's confirmation checkbox
func (d *Draft) SetConfirmed(confirmed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Confirmed = confirmed
	d.touch()
}

// SetComment sets the free-text comment carried into the payload
func (d *Draft) SetComment(comment string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Comment = comment
	d.touch()
}

// Next advances to the following step if the current step's gates pass.
// The step index never moves on a validation error.
func (d *Draft) Next() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.validateStep(d.Step); err != nil {
		return err
	}
	if d.Step < StepReviewSubmit {
		d.Step++
		d.touch()
	}
	return nil
}

// Back moves to the previous step. It always succeeds and loses no data.
func (d *Draft) Back() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Step > StepProjectDetails {
		d.Step--
		d.touch()
	}
}

func (d *Draft) validateStep(step Step) error {
	switch step {
	case StepProjectDetails:
		if d.Name == "" {
			return apperrors.Validation("name", "trial name is required")
		}
		if d.nameExists == nil {
			return apperrors.Validation("name", "name check pending")
		}
		if *d.nameExists {
			return apperrors.Validation("name", "a trial with this name already exists")
		}
		if d.Season == "" {
			return apperrors.Validation("season", "season is required")
		}
		if d.TrialType == "" {
			return apperrors.Validation("trialType", "trial type is required")
		}
	case StepCitiesRegions:
		// Zero cities is allowed. Duplicates were rejected at AddCity.
	case StepTierPricing:
		if d.TierType == models.TierNotAny {
			return nil
		}
		if strings.TrimSpace(d.TierDetails) == "" {
			return apperrors.Validation("tierDetails", "tier details are required")
		}
		if strings.TrimSpace(d.TierAmount) == "" {
			return apperrors.Validation("tierAmount", "tier amount is required")
		}
		if _, err := strconv.ParseFloat(d.TierAmount, 64); err != nil {
			return apperrors.Validation("tierAmount", "tier amount must be numeric")
		}
	case StepSchedule:
		switch d.ScheduleType {
		case models.ScheduleFixed:
			if d.StartDate == nil || d.EndDate == nil {
				return apperrors.Validation("startDate", "start and end dates are required")
			}
			if !d.EndDate.After(*d.StartDate) {
				return apperrors.Validation("endDate", "end date must be after start date")
			}
		case models.ScheduleTentative:
			if strings.TrimSpace(d.TentativeMonth) == "" {
				return apperrors.Validation("tentativeMonth", "tentative month is required")
			}
		default:
			return apperrors.Validation("scheduleType", "schedule type must be Fixed or Tentative")
		}
	case StepReviewSubmit:
		if !d.Confirmed {
			return apperrors.Validation("confirmed", "confirm the details before submitting")
		}
	}
	return nil
}

// Payload validates every step and assembles the create request.
// Fields outside the chosen tier and schedule branches come out nil no
// matter what was typed before the branch switched.
func (d *Draft) Payload(createdBy string) (*models.CreateTrialRequest, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for step := StepProjectDetails; step <= StepReviewSubmit; step++ {
		if err := d.validateStep(step); err != nil {
			return nil, err
		}
	}

	req := &models.CreateTrialRequest{
		Name:           d.Name,
		Season:         d.Season,
		TrialType:      d.TrialType,
		TierType:       d.TierType,
		ScheduleType:   d.ScheduleType,
		Status:         models.TrialStatusDraft,
		Comment:        d.Comment,
		AssignedCities: append([]models.AssignedCity(nil), d.Cities...),
		CreatedBy:      createdBy,
	}

	if d.TierType != models.TierNotAny {
		details := d.TierDetails
		req.TierDetails = &details
		amount, _ := strconv.ParseFloat(d.TierAmount, 64)
		req.TierAmount = &amount
		if n, err := strconv.Atoi(strings.TrimSpace(d.ExpectedParticipants)); err == nil {
			req.ExpectedParticipants = &n
		}
	}

	switch d.ScheduleType {
	case models.ScheduleFixed:
		req.StartDate = d.StartDate
		req.EndDate = d.EndDate
	case models.ScheduleTentative:
		req.TentativeMonth = d.TentativeMonth
		req.TentativeDateRange = d.TentativeDateRange
		req.NextTrialDate = d.NextTrialDate
	}

	return req, nil
}

// Snapshot returns a copy of the externally visible draft state.
func (d *Draft) Snapshot() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()

	nameStatus := "pending"
	if d.nameExists != nil {
		if *d.nameExists {
			nameStatus = "taken"
		} else {
			nameStatus = "available"
		}
	}
	return DraftView{
		ID:                   d.ID,
		Step:                 d.Step.String(),
		StepIndex:            int(d.Step),
		Name:                 d.Name,
		NameStatus:           nameStatus,
		Season:               d.Season,
		TrialType:            d.TrialType,
		Cities:               append([]models.AssignedCity(nil), d.Cities...),
		TierType:             d.TierType,
		TierDetails:          d.TierDetails,
		TierAmount:           d.TierAmount,
		ExpectedParticipants: d.ExpectedParticipants,
		ScheduleType:         d.ScheduleType,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		TentativeMonth:       d.TentativeMonth,
		TentativeDateRange:   d.TentativeDateRange,
		NextTrialDate:        d.NextTrialDate,
		Comment:              d.Comment,
		Confirmed:            d.Confirmed,
		UpdatedAt:            d.UpdatedAt,
	}
}

// DraftView is the JSON shape of a draft returned to the dashboard.
type DraftView struct {
	ID                   string                `json:"id"`
	Step                 string                `json:"step"`
	StepIndex            int                   `json:"stepIndex"`
	Name                 string                `json:"name"`
	NameStatus           string                `json:"nameStatus"` // pending, available, taken
	Season               string                `json:"season"`
	TrialType            string                `json:"trialType"`
	Cities               []models.AssignedCity `json:"cities"`
	TierType             string                `json:"tierType"`
	TierDetails          string                `json:"tierDetails"`
	TierAmount           string                `json:"tierAmount"`
	ExpectedParticipants string                `json:"expectedParticipants"`
	ScheduleType         string                `json:"scheduleType"`
	StartDate            *time.Time            `json:"startDate"`
	EndDate              *time.Time            `json:"endDate"`
	TentativeMonth       string                `json:"tentativeMonth"`
	TentativeDateRange   string                `json:"tentativeDateRange"`
	NextTrialDate        *time.Time            `json:"nextTrialDate"`
	Comment              string                `json:"comment"`
	Confirmed            bool                  `json:"confirmed"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// touch must be called with the lock held.
func (d *Draft) touch() {
	d.UpdatedAt = time.Now()
}
