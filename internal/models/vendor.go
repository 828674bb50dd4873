package models

import "time"

// VendorSource tells whether a vendor record is independently stored or
// projected from the REP collection at read time.
type VendorSource string

const (
	VendorSourceIndependent VendorSource = "independent"
	VendorSourceREP         VendorSource = "rep"
)

// Vendor types
const (
	VendorTypeREP       = "REP"
	VendorTypePrinting  = "Printing"
	VendorTypeLogistics = "Logistics"
	VendorTypeEquipment = "Equipment"
	VendorTypeEvents    = "Events"
	VendorTypeCatering  = "Catering"
	VendorTypeOther     = "Other"
)

// Vendor statuses
const (
	VendorStatusVerified = "Verified"
	VendorStatusPending  = "Pending"
	VendorStatusRejected = "Rejected"
)

// VendorTypes in display order
var VendorTypes = []string{
	VendorTypeREP, VendorTypePrinting, VendorTypeLogistics,
	VendorTypeEquipment, VendorTypeEvents, VendorTypeCatering, VendorTypeOther,
}

// VendorStatuses in display order
var VendorStatuses = []string{VendorStatusVerified, VendorStatusPending, VendorStatusRejected}

// Vendor represents a vendor. ID is a string because REP-sourced vendors
// carry synthetic ids of the form "rep_{repId}".
type Vendor struct {
	ID     string       `json:"id"`
	Source VendorSource `json:"source"`
	RepID  int          `json:"repId,omitempty"` // set only for REP-sourced vendors

	Name string `json:"name"`
	Type string `json:"type"`

	GSTNumber   string `json:"gstNumber,omitempty"`
	GSTVerified bool   `json:"gstVerified"`
	PANNumber   string `json:"panNumber"`
	PANVerified bool   `json:"panVerified"`

	ContactPerson string `json:"contactPerson"`
	ContactPhone  string `json:"contactPhone"`
	ContactEmail  string `json:"contactEmail"`
	Address       string `json:"address,omitempty"`

	BankName      string `json:"bankName,omitempty"`
	BankAccount   string `json:"bankAccount,omitempty"`
	BankIFSC      string `json:"bankIfsc,omitempty"`

	Status string `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsRepSourced reports whether the vendor is a read-only REP projection
func (v *Vendor) IsRepSourced() bool {
	return v.Source == VendorSourceREP
}

// CreateVendorRequest represents the request body for creating a vendor.
// Only independent vendors are created this way; REP-sourced vendors are
// derived from the REP collection.
type CreateVendorRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`

	GSTNumber   string `json:"gstNumber"`
	GSTVerified bool   `json:"gstVerified"`
	PANNumber   string `json:"panNumber"`
	PANVerified bool   `json:"panVerified"`

	ContactPerson string `json:"contactPerson"`
	ContactPhone  string `json:"contactPhone"`
	ContactEmail  string `json:"contactEmail"`
	Address       string `json:"address"`

	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	BankIFSC    string `json:"bankIfsc"`

	Status string `json:"status"`
}

// UpdateVendorRequest represents the request body for updating a vendor
type UpdateVendorRequest = CreateVendorRequest

// VendorListFilter is used for listing/filtering vendors
type VendorListFilter struct {
	Search  string `json:"search,omitempty"`
	Type    string `json:"type,omitempty"`
	Status  string `json:"status,omitempty"`
	SortKey string `json:"sortKey,omitempty"`
	Desc    bool   `json:"desc,omitempty"`
}
