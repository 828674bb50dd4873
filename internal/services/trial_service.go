package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/cache"
	"tta-backend/internal/models"
	"tta-backend/internal/query"
	"tta-backend/internal/repositories"
	"tta-backend/internal/timeutil"
)

const nameCheckCacheTTL = 30 * time.Second

type TrialService struct {
	Repo       repositories.TrialStore
	CityRepo   repositories.TrialCityStore
	Codes      *CodeService
	REPService *REPService
}

func NewTrialService(repo repositories.TrialStore, cityRepo repositories.TrialCityStore, codeService *CodeService, repService *REPService) *TrialService {
	return &TrialService{
		Repo:       repo,
		CityRepo:   cityRepo,
		Codes:      codeService,
		REPService: repService,
	}
}

// CheckNameExists reports whether a trial name is already taken. Results
// are cached briefly in Redis; the cache degrades to a direct lookup
// when Redis is unavailable.
func (s *TrialService) CheckNameExists(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, apperrors.Validation("name", "name is required")
	}

	cacheKey := "trial:name-exists:" + strings.ToLower(name)
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		exists, err := strconv.ParseBool(string(data))
		if err == nil {
			return exists, nil
		}
	}

	exists, err := s.Repo.NameExists(ctx, name)
	if err != nil {
		return false, err
	}
	cache.SetCached(ctx, cacheKey, []byte(strconv.FormatBool(exists)), nameCheckCacheTTL)
	return exists, nil
}

func validateTierBranch(tierType string, details *string, amount *float64) error {
	if tierType == models.TierNotAny {
		return nil
	}
	if details == nil || strings.TrimSpace(*details) == "" {
		return apperrors.Validation("tierDetails", "tier details are required for a priced tier")
	}
	if amount == nil {
		return apperrors.Validation("tierAmount", "tier amount is required for a priced tier")
	}
	return nil
}

func validateScheduleBranch(scheduleType string, start, end *time.Time, tentativeMonth string) error {
	switch scheduleType {
	case models.ScheduleFixed:
		if start == nil || end == nil {
			return apperrors.Validation("startDate", "fixed schedules need both start and end dates")
		}
		if !end.After(*start) {
			return apperrors.Validation("endDate", "end date must be after start date")
		}
	case models.ScheduleTentative:
		if strings.TrimSpace(tentativeMonth) == "" {
			return apperrors.Validation("tentativeMonth", "tentative schedules need a month")
		}
	default:
		return apperrors.Validation("scheduleType", "schedule type must be Fixed or Tentative")
	}
	return nil
}

// applyBranchNulling clears the fields outside the chosen tier and
// schedule branches so a payload never carries stale values typed before
// the operator switched branch.
func applyBranchNulling(trial *models.Trial) {
	if trial.TierType == models.TierNotAny {
		trial.TierDetails = nil
		trial.TierAmount = nil
		trial.ExpectedParticipants = nil
	}
	switch trial.ScheduleType {
	case models.ScheduleFixed:
		trial.TentativeMonth = ""
		trial.TentativeDateRange = ""
	case models.ScheduleTentative:
		trial.StartDate = nil
		trial.EndDate = nil
	}
}

func (s *TrialService) CreateTrial(ctx context.Context, req *models.CreateTrialRequest) (*models.Trial, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	if strings.TrimSpace(req.Season) == "" {
		return nil, apperrors.Validation("season", "season is required")
	}
	if strings.TrimSpace(req.TrialType) == "" {
		return nil, apperrors.Validation("trialType", "trial type is required")
	}
	if err := validateTierBranch(req.TierType, req.TierDetails, req.TierAmount); err != nil {
		return nil, err
	}
	if err := validateScheduleBranch(req.ScheduleType, req.StartDate, req.EndDate, req.TentativeMonth); err != nil {
		return nil, err
	}

	exists, err := s.Repo.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("a trial with this name already exists")
	}

	code, err := s.Codes.NextTrialCode(ctx, req.Season, req.TrialType)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TrialStatusDraft
	}
	tierType := req.TierType
	if tierType == "" {
		tierType = models.TierNotAny
	}

	trial := &models.Trial{
		Name:                 name,
		TrialCode:            code,
		Season:               req.Season,
		TrialType:            req.TrialType,
		TierType:             tierType,
		TierDetails:          req.TierDetails,
		TierAmount:           req.TierAmount,
		ExpectedParticipants: req.ExpectedParticipants,
		ScheduleType:         req.ScheduleType,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TentativeMonth:       req.TentativeMonth,
		TentativeDateRange:   req.TentativeDateRange,
		NextTrialDate:        req.NextTrialDate,
		Status:               status,
		Comment:              req.Comment,
		AssignedCities:       req.AssignedCities,
		CreatedBy:            req.CreatedBy,
	}
	applyBranchNulling(trial)

	if err := s.Repo.Create(ctx, trial); err != nil {
		return nil, err
	}
	cache.InvalidateKeys(ctx, "trial:name-exists:"+strings.ToLower(name))

	s.syncAssignedREPs(ctx, trial)
	return trial, nil
}

// syncAssignedREPs records the new trial on REPs attached to its cities
// through the city registry. Best effort: lookup failures are ignored.
func (s *TrialService) syncAssignedREPs(ctx context.Context, trial *models.Trial) {
	if s.REPService == nil || s.CityRepo == nil {
		return
	}
	cities, err := s.CityRepo.List(ctx)
	if err != nil {
		return
	}
	period := trial.TentativeMonth
	var date string
	if trial.StartDate != nil {
		date = timeutil.FormatIST(*trial.StartDate, timeutil.DateLayout)
	}
	for _, assigned := range trial.AssignedCities {
		for _, city := range cities {
			if !strings.EqualFold(city.City, assigned.CityName) || city.AssignedREP == "" {
				continue
			}
			_ = s.REPService.SyncAssignedTrial(ctx, city.AssignedREP, models.AssignedTrial{
				City:      assigned.CityName,
				TrialName: trial.Name,
				Date:      date,
				Period:    period,
				Status:    trial.Status,
			})
		}
	}
}

func (s *TrialService) GetTrial(ctx context.Context, id int) (*models.Trial, error) {
	return s.Repo.Get(ctx, id)
}

// ListTrials runs the shared list pipeline. The date bucket is evaluated
// against the current IST calendar.
func (s *TrialService) ListTrials(ctx context.Context, filter *models.TrialListFilter) ([]*models.Trial, error) {
	trials, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return trials, nil
	}

	now := timeutil.Now()
	trials = query.Filter(trials, func(t *models.Trial) bool {
		fields := []string{t.Name, t.TrialCode, t.Season, t.TrialType}
		cityMatch := filter.City == "" || filter.City == "All"
		for _, c := range t.AssignedCities {
			fields = append(fields, c.CityName)
			if strings.EqualFold(c.CityName, filter.City) {
				cityMatch = true
			}
		}
		if !query.MatchesSearch(filter.Search, fields...) {
			return false
		}
		if !cityMatch {
			return false
		}
		if filter.DateBucket != "" {
			tentative := t.ScheduleType == models.ScheduleTentative
			if !query.MatchesDateBucket(query.DateBucket(filter.DateBucket), t.StartDate, tentative, now) {
				return false
			}
		}
		return query.FilterMatches(filter.Season, t.Season) &&
			query.FilterMatches(filter.TrialType, t.TrialType) &&
			query.FilterMatches(filter.Status, t.Status)
	})

	if filter.SortKey != "" {
		sortTrials(trials, query.Sort{Key: filter.SortKey, Desc: filter.Desc})
	}
	return trials, nil
}

func sortTrials(trials []*models.Trial, s query.Sort) {
	query.OrderBy(trials, s, func(a, b *models.Trial) int {
		switch s.Key {
		case "code":
			return query.CompareStrings(a.TrialCode, b.TrialCode)
		case "season":
			return query.CompareStrings(a.Season, b.Season)
		case "status":
			return query.CompareStrings(a.Status, b.Status)
		case "cities":
			return query.CompareInts(len(a.AssignedCities), len(b.AssignedCities))
		case "startDate":
			return compareDates(a.StartDate, b.StartDate)
		default:
			return query.CompareStrings(a.Name, b.Name)
		}
	})
}

// compareDates sorts nil dates first, matching how missing values sort
// as empty elsewhere.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

func (s *TrialService) UpdateTrial(ctx context.Context, id int, req *models.UpdateTrialRequest) (*models.Trial, error) {
	if err := validateTierBranch(req.TierType, req.TierDetails, req.TierAmount); err != nil {
		return nil, err
	}
	if err := validateScheduleBranch(req.ScheduleType, req.StartDate, req.EndDate, req.TentativeMonth); err != nil {
		return nil, err
	}

	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	trial := &models.Trial{
		ID:                   id,
		Name:                 existing.Name,
		TrialCode:            existing.TrialCode,
		Season:               req.Season,
		TrialType:            req.TrialType,
		TierType:             req.TierType,
		TierDetails:          req.TierDetails,
		TierAmount:           req.TierAmount,
		ExpectedParticipants: req.ExpectedParticipants,
		ScheduleType:         req.ScheduleType,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TentativeMonth:       req.TentativeMonth,
		TentativeDateRange:   req.TentativeDateRange,
		NextTrialDate:        req.NextTrialDate,
		Status:               req.Status,
		Comment:              req.Comment,
		AssignedCities:       req.AssignedCities,
		CreatedBy:            existing.CreatedBy,
		CreatedAt:            existing.CreatedAt,
	}
	applyBranchNulling(trial)

	if err := s.Repo.Update(ctx, trial); err != nil {
		return nil, err
	}
	return trial, nil
}

// DeleteTrial deletes a trial only when the typed confirmation equals
// the literal word DELETE, exact case.
func (s *TrialService) DeleteTrial(ctx context.Context, id int, confirm string) error {
	trial, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if confirm != "DELETE" {
		return apperrors.Validation("confirm", "type DELETE to confirm")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateKeys(ctx, "trial:name-exists:"+strings.ToLower(trial.Name))
	return nil
}

// MarshalSummary renders a compact JSON summary used by export and
// progress endpoints.
func MarshalSummary(trial *models.Trial) ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   trial.Name,
		"code":   trial.TrialCode,
		"season": trial.Season,
		"status": trial.Status,
		"cities": len(trial.AssignedCities),
	})
}
