package models

import "time"

// REP statuses
const (
	REPStatusActive   = "Active"
	REPStatusInactive = "Inactive"
)

// MoU statuses
const (
	MOUStatusSigned      = "Signed"
	MOUStatusPending     = "Pending"
	MOUStatusNotRequired = "Not Required"
)

// AssignedTrial is a summary of a trial assigned to a REP, embedded in the
// REP record rather than joined at read time.
type AssignedTrial struct {
	City      string `json:"city"`
	TrialName string `json:"trialName"`
	Date      string `json:"date,omitempty"`
	Period    string `json:"period,omitempty"`
	Status    string `json:"status,omitempty"`
}

// REP represents a representative/partner organization
type REP struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	State  string `json:"state"`
	City   string `json:"city"`
	Season string `json:"season,omitempty"`
	Region string `json:"region,omitempty"`
	Status string `json:"status"` // Active or Inactive

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	BackupContactName  string `json:"backupContactName,omitempty"`
	BackupContactPhone string `json:"backupContactPhone,omitempty"`
	BackupContactEmail string `json:"backupContactEmail,omitempty"`

	PhysicalAddress string `json:"physicalAddress,omitempty"`
	GroundLocation  string `json:"groundLocation,omitempty"`
	PinCode         string `json:"pinCode,omitempty"`

	PANCard string `json:"panCard"`
	GSTNo   string `json:"gstNo,omitempty"`

	MOUStatus      string `json:"mouStatus"`
	MOUDocumentURL string `json:"mouDocumentUrl,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`

	AssignedTrials []AssignedTrial `json:"assignedTrials"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateREPRequest represents the request body for creating a REP
type CreateREPRequest struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	City   string `json:"city"`
	Season string `json:"season"`
	Region string `json:"region"`
	Status string `json:"status"`

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	BackupContactName  string `json:"backupContactName"`
	BackupContactPhone string `json:"backupContactPhone"`
	BackupContactEmail string `json:"backupContactEmail"`

	PhysicalAddress string `json:"physicalAddress"`
	GroundLocation  string `json:"groundLocation"`
	PinCode         string `json:"pinCode"`

	PANCard string `json:"panCard"`
	GSTNo   string `json:"gstNo"`

	MOUStatus      string `json:"mouStatus"`
	MOUDocumentURL string `json:"mouDocumentUrl"`
	LogoURL        string `json:"logoUrl"`
}

// UpdateREPRequest represents the request body for updating a REP.
// All fields except the id are mutable.
type UpdateREPRequest = CreateREPRequest

// DeleteREPRequest carries the typed confirmation for a destructive delete
type DeleteREPRequest struct {
	ConfirmName string `json:"confirmName"`
}

// REPListFilter is used for listing/filtering REPs
type REPListFilter struct {
	Search  string `json:"search,omitempty"`
	State   string `json:"state,omitempty"`
	Status  string `json:"status,omitempty"`
	Season  string `json:"season,omitempty"`
	SortKey string `json:"sortKey,omitempty"`
	Desc    bool   `json:"desc,omitempty"`
}
