package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/query"
	"tta-backend/internal/repositories"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// repVendorIDPrefix marks synthetic vendor ids projected from REPs.
const repVendorIDPrefix = "rep_"

type VendorService struct {
	Repo    repositories.VendorStore
	REPRepo repositories.REPStore
}

func NewVendorService(repo repositories.VendorStore, repRepo repositories.REPStore) *VendorService {
	return &VendorService{
		Repo:    repo,
		REPRepo: repRepo,
	}
}

func validateVendorRequest(req *models.CreateVendorRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Validation("name", "name is required")
	}
	if req.Type == models.VendorTypeREP {
		return apperrors.Validation("type", "REP vendors are managed through the REP module")
	}
	if req.Type == "" {
		return apperrors.Validation("type", "type is required")
	}
	if !panPattern.MatchString(req.PANNumber) {
		return apperrors.Validation("panNumber", "PAN must match AAAAA0000A")
	}
	if strings.TrimSpace(req.ContactPerson) == "" {
		return apperrors.Validation("contactPerson", "contact person is required")
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		return apperrors.Validation("contactPhone", "contact phone is required")
	}
	if !emailPattern.MatchString(req.ContactEmail) {
		return apperrors.Validation("contactEmail", "contact email is invalid")
	}
	return nil
}

func (s *VendorService) CreateVendor(ctx context.Context, req *models.CreateVendorRequest) (*models.Vendor, error) {
	if err := validateVendorRequest(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.VendorStatusPending
	}
	vendor := &models.Vendor{
		Name:          strings.TrimSpace(req.Name),
		Type:          req.Type,
		GSTNumber:     req.GSTNumber,
		GSTVerified:   req.GSTVerified,
		PANNumber:     req.PANNumber,
		PANVerified:   req.PANVerified,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Address:       req.Address,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		BankIFSC:      req.BankIFSC,
		Status:        status,
	}
	if err := s.Repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// vendorFromREP projects a read-only vendor row from a REP record. The
// projection is recomputed on every read and never persisted.
func vendorFromREP(rep *models.REP) *models.Vendor {
	status := models.VendorStatusPending
	if rep.MOUStatus == models.MOUStatusSigned {
		status = models.VendorStatusVerified
	}
	return &models.Vendor{
		ID:            fmt.Sprintf("%s%d", repVendorIDPrefix, rep.ID),
		Source:        models.VendorSourceREP,
		RepID:         rep.ID,
		Name:          rep.Name,
		Type:          models.VendorTypeREP,
		GSTNumber:     rep.GSTNo,
		GSTVerified:   rep.GSTNo != "",
		PANNumber:     rep.PANCard,
		PANVerified:   rep.PANCard != "",
		ContactPerson: rep.ContactName,
		ContactPhone:  rep.ContactPhone,
		ContactEmail:  rep.ContactEmail,
		Address:       rep.PhysicalAddress,
		Status:        status,
		CreatedAt:     rep.CreatedAt,
		UpdatedAt:     rep.UpdatedAt,
	}
}

func (s *VendorService) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	if repID, ok := strings.CutPrefix(id, repVendorIDPrefix); ok {
		n, err := strconv.Atoi(repID)
		if err != nil {
			return nil, apperrors.NotFound("vendor")
		}
		rep, err := s.REPRepo.Get(ctx, n)
		if err != nil {
			return nil, err
		}
		return vendorFromREP(rep), nil
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, apperrors.NotFound("vendor")
	}
	return s.Repo.Get(ctx, n)
}

// ListVendors merges stored vendors with the REP projection, then runs
// the shared list pipeline over the combined set.
func (s *VendorService) ListVendors(ctx context.Context, filter *models.VendorListFilter) ([]*models.Vendor, error) {
	vendors, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	reps, err := s.REPRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rep := range reps {
		vendors = append(vendors, vendorFromREP(rep))
	}
	if filter == nil {
		return vendors, nil
	}

	vendors = query.Filter(vendors, func(v *models.Vendor) bool {
		if !query.MatchesSearch(filter.Search, v.Name, v.ContactPerson, v.ContactEmail, v.GSTNumber, v.PANNumber) {
			return false
		}
		return query.FilterMatches(filter.Type, v.Type) &&
			query.FilterMatches(filter.Status, v.Status)
	})

	if filter.SortKey != "" {
		sortVendors(vendors, query.Sort{Key: filter.SortKey, Desc: filter.Desc})
	}
	return vendors, nil
}

func sortVendors(vendors []*models.Vendor, s query.Sort) {
	query.OrderBy(vendors, s, func(a, b *models.Vendor) int {
		switch s.Key {
		case "type":
			return query.CompareStrings(a.Type, b.Type)
		case "status":
			return query.CompareStrings(a.Status, b.Status)
		default:
			return query.CompareStrings(a.Name, b.Name)
		}
	})
}

func (s *VendorService) UpdateVendor(ctx context.Context, id string, req *models.UpdateVendorRequest) (*models.Vendor, error) {
	if strings.HasPrefix(id, repVendorIDPrefix) {
		return nil, apperrors.Validation("id", "REP-sourced vendors are read-only; edit the REP instead")
	}
	if err := validateVendorRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	vendor := &models.Vendor{
		ID:            existing.ID,
		Source:        models.VendorSourceIndependent,
		Name:          strings.TrimSpace(req.Name),
		Type:          req.Type,
		GSTNumber:     req.GSTNumber,
		GSTVerified:   req.GSTVerified,
		PANNumber:     req.PANNumber,
		PANVerified:   req.PANVerified,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Address:       req.Address,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		BankIFSC:      req.BankIFSC,
		Status:        req.Status,
		CreatedAt:     existing.CreatedAt,
	}
	if err := s.Repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) DeleteVendor(ctx context.Context, id string) error {
	if strings.HasPrefix(id, repVendorIDPrefix) {
		return apperrors.Validation("id", "REP-sourced vendors are read-only; edit the REP instead")
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return apperrors.NotFound("vendor")
	}
	return s.Repo.Delete(ctx, n)
}
