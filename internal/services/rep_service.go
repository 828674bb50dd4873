package services

import (
	"context"
	"regexp"
	"strings"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/query"
	"tta-backend/internal/repositories"
)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

type REPService struct {
	Repo repositories.REPStore
}

func NewREPService(repo repositories.REPStore) *REPService {
	return &REPService{Repo: repo}
}

func validateREPRequest(req *models.CreateREPRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Validation("name", "name is required")
	}
	if strings.TrimSpace(req.State) == "" {
		return apperrors.Validation("state", "state is required")
	}
	if strings.TrimSpace(req.City) == "" {
		return apperrors.Validation("city", "city is required")
	}
	if strings.TrimSpace(req.ContactName) == "" {
		return apperrors.Validation("contactName", "primary contact name is required")
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		return apperrors.Validation("contactPhone", "primary contact phone is required")
	}
	if !panPattern.MatchString(req.PANCard) {
		return apperrors.Validation("panCard", "PAN must match AAAAA0000A")
	}
	return nil
}

func repFromRequest(req *models.CreateREPRequest) *models.REP {
	status := req.Status
	if status == "" {
		status = models.REPStatusActive
	}
	mouStatus := req.MOUStatus
	if mouStatus == "" {
		mouStatus = models.MOUStatusPending
	}
	return &models.REP{
		Name:               strings.TrimSpace(req.Name),
		State:              req.State,
		City:               strings.TrimSpace(req.City),
		Season:             req.Season,
		Region:             req.Region,
		Status:             status,
		ContactName:        req.ContactName,
		ContactPhone:       req.ContactPhone,
		ContactEmail:       req.ContactEmail,
		BackupContactName:  req.BackupContactName,
		BackupContactPhone: req.BackupContactPhone,
		BackupContactEmail: req.BackupContactEmail,
		PhysicalAddress:    req.PhysicalAddress,
		GroundLocation:     req.GroundLocation,
		PinCode:            req.PinCode,
		PANCard:            req.PANCard,
		GSTNo:              req.GSTNo,
		MOUStatus:          mouStatus,
		MOUDocumentURL:     req.MOUDocumentURL,
		LogoURL:            req.LogoURL,
		AssignedTrials:     []models.AssignedTrial{},
	}
}

func (s *REPService) CreateREP(ctx context.Context, req *models.CreateREPRequest) (*models.REP, error) {
	if err := validateREPRequest(req); err != nil {
		return nil, err
	}
	rep := repFromRequest(req)
	if err := s.Repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *REPService) GetREP(ctx context.Context, id int) (*models.REP, error) {
	return s.Repo.Get(ctx, id)
}

// ListREPs runs the shared list pipeline: search across name, city, state
// and assigned trial names, AND-combined dropdown filters, then a stable
// single-key sort.
func (s *REPService) ListREPs(ctx context.Context, filter *models.REPListFilter) ([]*models.REP, error) {
	reps, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return reps, nil
	}

	reps = query.Filter(reps, func(rep *models.REP) bool {
		fields := []string{rep.Name, rep.City, rep.State}
		for _, t := range rep.AssignedTrials {
			fields = append(fields, t.TrialName)
		}
		if !query.MatchesSearch(filter.Search, fields...) {
			return false
		}
		return query.FilterMatches(filter.State, rep.State) &&
			query.FilterMatches(filter.Status, rep.Status) &&
			query.FilterMatches(filter.Season, rep.Season)
	})

	if filter.SortKey != "" {
		sortREPs(reps, query.Sort{Key: filter.SortKey, Desc: filter.Desc})
	}
	return reps, nil
}

func sortREPs(reps []*models.REP, s query.Sort) {
	query.OrderBy(reps, s, func(a, b *models.REP) int {
		switch s.Key {
		case "city":
			return query.CompareStrings(a.City, b.City)
		case "state":
			return query.CompareStrings(a.State, b.State)
		case "status":
			return query.CompareStrings(a.Status, b.Status)
		case "trials":
			return query.CompareInts(len(a.AssignedTrials), len(b.AssignedTrials))
		default:
			return query.CompareStrings(a.Name, b.Name)
		}
	})
}

func (s *REPService) UpdateREP(ctx context.Context, id int, req *models.UpdateREPRequest) (*models.REP, error) {
	if err := validateREPRequest(req); err != nil {
		return nil, err
	}
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rep := repFromRequest(req)
	rep.ID = id
	rep.AssignedTrials = existing.AssignedTrials
	rep.CreatedAt = existing.CreatedAt
	if err := s.Repo.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// DeleteREP deletes a REP only when the typed confirmation equals the
// REP's name exactly, including case.
func (s *REPService) DeleteREP(ctx context.Context, id int, confirmName string) error {
	rep, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if confirmName != rep.Name {
		return apperrors.Validation("confirmName", "confirmation does not match the REP name")
	}
	return s.Repo.Delete(ctx, id)
}

// SyncAssignedTrial records a trial summary on every REP whose name
// matches a city assignment. Best effort: a missing REP is skipped.
func (s *REPService) SyncAssignedTrial(ctx context.Context, repName string, summary models.AssignedTrial) error {
	if strings.TrimSpace(repName) == "" {
		return nil
	}
	reps, err := s.Repo.List(ctx)
	if err != nil {
		return err
	}
	for _, rep := range reps {
		if !strings.EqualFold(rep.Name, repName) {
			continue
		}
		rep.AssignedTrials = append(rep.AssignedTrials, summary)
		if err := s.Repo.Update(ctx, rep); err != nil {
			return err
		}
	}
	return nil
}
