package models

import "time"

// TrialCity is a registry entry for a city where trials run. Code is the
// primary key, computed once at creation and never changed.
type TrialCity struct {
	Code   string `json:"code"`
	State  string `json:"state"`
	Region string `json:"region,omitempty"`
	City   string `json:"city"`

	AssignedREP    string `json:"assignedRep,omitempty"` // name reference, not a foreign key
	GroundLocation string `json:"groundLocation,omitempty"`
	GroundVerified bool   `json:"groundVerified"`

	TrialType     string     `json:"trialType,omitempty"`
	TrialDate     *time.Time `json:"trialDate,omitempty"`
	TrialMonth    string     `json:"trialMonth,omitempty"` // month-only designation when no exact date
	Comment       string     `json:"comment,omitempty"`
	NextTrialDate *time.Time `json:"nextTrialDate,omitempty"`

	ScoutName        string `json:"scoutName,omitempty"`
	ScoutPhone       string `json:"scoutPhone,omitempty"`
	ScoutBackupName  string `json:"scoutBackupName,omitempty"`

	LastReverified *time.Time `json:"lastReverified,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateTrialCityRequest represents the request body for creating a trial city.
// The code is computed server-side from state and city.
type CreateTrialCityRequest struct {
	State  string `json:"state"`
	Region string `json:"region"`
	City   string `json:"city"`

	AssignedREP    string `json:"assignedRep"`
	GroundLocation string `json:"groundLocation"`
	GroundVerified bool   `json:"groundVerified"`

	TrialType     string     `json:"trialType"`
	TrialDate     *time.Time `json:"trialDate"`
	TrialMonth    string     `json:"trialMonth"`
	Comment       string     `json:"comment"`
	NextTrialDate *time.Time `json:"nextTrialDate"`

	ScoutName       string `json:"scoutName"`
	ScoutPhone      string `json:"scoutPhone"`
	ScoutBackupName string `json:"scoutBackupName"`
}

// UpdateTrialCityRequest represents the edit payload. State and city are
// locked after creation and are not accepted here.
type UpdateTrialCityRequest struct {
	Region string `json:"region"`

	AssignedREP    string `json:"assignedRep"`
	GroundLocation string `json:"groundLocation"`
	GroundVerified bool   `json:"groundVerified"`

	TrialType     string     `json:"trialType"`
	TrialDate     *time.Time `json:"trialDate"`
	TrialMonth    string     `json:"trialMonth"`
	Comment       string     `json:"comment"`
	NextTrialDate *time.Time `json:"nextTrialDate"`

	ScoutName       string `json:"scoutName"`
	ScoutPhone      string `json:"scoutPhone"`
	ScoutBackupName string `json:"scoutBackupName"`
}

// DeleteTrialCityRequest carries the typed confirmation (exact city name)
type DeleteTrialCityRequest struct {
	ConfirmCity string `json:"confirmCity"`
}

// TrialCityListFilter is used for listing/filtering trial cities
type TrialCityListFilter struct {
	Search    string `json:"search,omitempty"`
	State     string `json:"state,omitempty"`
	TrialType string `json:"trialType,omitempty"`
	Verified  string `json:"verified,omitempty"` // "", "All", "Verified", "Unverified"
	SortKey   string `json:"sortKey,omitempty"`
	Desc      bool   `json:"desc,omitempty"`
}

// BulkImportResult summarizes a bulk city import
type BulkImportResult struct {
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
	Failed   int                   `json:"failed"`
	Items    []BulkImportItemResult `json:"items"`
}

// BulkImportItemResult reports the outcome for a single row
type BulkImportItemResult struct {
	Row    int    `json:"row"`
	City   string `json:"city"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status"` // imported, skipped, failed
	Error  string `json:"error,omitempty"`
}
