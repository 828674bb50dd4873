package models

import "time"

// Trial statuses
const (
	TrialStatusDraft     = "Draft"
	TrialStatusActive    = "Active"
	TrialStatusCompleted = "Completed"
	TrialStatusCancelled = "Cancelled"
)

// Tier types. TierNotAny is the sentinel for "no pricing tier".
const (
	TierNotAny   = "Not Any"
	TierBasic    = "Basic"
	TierStandard = "Standard"
	TierPremium  = "Premium"
)

// Schedule types
const (
	ScheduleFixed     = "Fixed"
	ScheduleTentative = "Tentative"
)

// Seasons selectable when creating a trial
var Seasons = []string{"Season 5", "Season 6", "Season 7", "Custom"}

// TrialTypes selectable when creating a trial
var TrialTypes = []string{"Regular", "CSR", "Championship", "School Partnership"}

// TierTypes in display order, sentinel first
var TierTypes = []string{TierNotAny, TierBasic, TierStandard, TierPremium}

// TrialStatuses in lifecycle order
var TrialStatuses = []string{TrialStatusDraft, TrialStatusActive, TrialStatusCompleted, TrialStatusCancelled}

// TentativeMonths for tentative scheduling
var TentativeMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// AssignedCity is a city attached to a trial. Its Code is a trial-local
// label, a separate namespace from the TrialCity registry code.
type AssignedCity struct {
	CityName    string `json:"cityName"`
	TrialRegion string `json:"trialRegion"`
	Code        string `json:"code"`
}

// Trial represents a trial project
type Trial struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`      // globally unique
	TrialCode string `json:"trialCode"` // immutable after creation
	Season    string `json:"season"`
	TrialType string `json:"trialType"`

	TierType             string   `json:"tierType"`
	TierDetails          *string  `json:"tierDetails"`
	TierAmount           *float64 `json:"tierAmount"`
	ExpectedParticipants *int     `json:"expectedParticipants"`

	ScheduleType       string     `json:"scheduleType"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	TentativeMonth     string     `json:"tentativeMonth,omitempty"`
	TentativeDateRange string     `json:"tentativeDateRange,omitempty"`
	NextTrialDate      *time.Time `json:"nextTrialDate,omitempty"`

	Status         string         `json:"status"`
	Comment        string         `json:"comment,omitempty"`
	AssignedCities []AssignedCity `json:"assignedCities"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTrialRequest is the payload assembled by the wizard on submit.
// Fields outside the chosen tier/schedule branch are nil.
type CreateTrialRequest struct {
	Name      string `json:"name"`
	Season    string `json:"season"`
	TrialType string `json:"trialType"`

	TierType             string   `json:"tierType"`
	TierDetails          *string  `json:"tierDetails"`
	TierAmount           *float64 `json:"tierAmount"`
	ExpectedParticipants *int     `json:"expectedParticipants"`

	ScheduleType       string     `json:"scheduleType"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	TentativeMonth     string     `json:"tentativeMonth"`
	TentativeDateRange string     `json:"tentativeDateRange"`
	NextTrialDate      *time.Time `json:"nextTrialDate"`

	Status         string         `json:"status"`
	Comment        string         `json:"comment"`
	AssignedCities []AssignedCity `json:"assignedCities"`
	CreatedBy      string         `json:"createdBy"`
}

// UpdateTrialRequest is the single-form edit payload. Name and trialCode
// stay immutable and are not accepted here.
type UpdateTrialRequest struct {
	Season    string `json:"season"`
	TrialType string `json:"trialType"`

	TierType             string   `json:"tierType"`
	TierDetails          *string  `json:"tierDetails"`
	TierAmount           *float64 `json:"tierAmount"`
	ExpectedParticipants *int     `json:"expectedParticipants"`

	ScheduleType       string     `json:"scheduleType"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	TentativeMonth     string     `json:"tentativeMonth"`
	TentativeDateRange string     `json:"tentativeDateRange"`
	NextTrialDate      *time.Time `json:"nextTrialDate"`

	Status         string         `json:"status"`
	Comment        string         `json:"comment"`
	AssignedCities []AssignedCity `json:"assignedCities"`
}

// DeleteTrialRequest carries the typed confirmation, which must equal
// the literal word DELETE.
type DeleteTrialRequest struct {
	Confirm string `json:"confirm"`
}

// TrialListFilter is used for listing/filtering trials
type TrialListFilter struct {
	Search     string `json:"search,omitempty"`
	Season     string `json:"season,omitempty"`
	TrialType  string `json:"trialType,omitempty"`
	Status     string `json:"status,omitempty"`
	City       string `json:"city,omitempty"`
	DateBucket string `json:"dateBucket,omitempty"` // this-month, next-month, this-quarter, tentative-only
	SortKey    string `json:"sortKey,omitempty"`
	Desc       bool   `json:"desc,omitempty"`
}

// NameCheckResponse is returned by the trial name uniqueness lookup
type NameCheckResponse struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}
