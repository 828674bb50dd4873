package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/query"
	"tta-backend/internal/repositories"
	"tta-backend/internal/timeutil"
)

type TrialCityService struct {
	Repo  repositories.TrialCityStore
	Codes *CodeService
}

func NewTrialCityService(repo repositories.TrialCityStore, codeService *CodeService) *TrialCityService {
	return &TrialCityService{
		Repo:  repo,
		Codes: codeService,
	}
}

func (s *TrialCityService) CreateTrialCity(ctx context.Context, req *models.CreateTrialCityRequest) (*models.TrialCity, error) {
	if strings.TrimSpace(req.State) == "" {
		return nil, apperrors.Validation("state", "state is required")
	}
	if strings.TrimSpace(req.City) == "" {
		return nil, apperrors.Validation("city", "city is required")
	}

	code, err := s.Codes.NextTrialCityCode(ctx, req.State, req.City)
	if err != nil {
		return nil, err
	}

	city := &models.TrialCity{
		Code:            code,
		State:           req.State,
		Region:          req.Region,
		City:            strings.TrimSpace(req.City),
		AssignedREP:     req.AssignedREP,
		GroundLocation:  req.GroundLocation,
		GroundVerified:  req.GroundVerified,
		TrialType:       req.TrialType,
		TrialDate:       req.TrialDate,
		TrialMonth:      req.TrialMonth,
		Comment:         req.Comment,
		NextTrialDate:   req.NextTrialDate,
		ScoutName:       req.ScoutName,
		ScoutPhone:      req.ScoutPhone,
		ScoutBackupName: req.ScoutBackupName,
	}
	if err := s.Repo.Create(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *TrialCityService) GetTrialCity(ctx context.Context, code string) (*models.TrialCity, error) {
	return s.Repo.Get(ctx, code)
}

// ListTrialCities runs the shared list pipeline over the registry.
func (s *TrialCityService) ListTrialCities(ctx context.Context, filter *models.TrialCityListFilter) ([]*models.TrialCity, error) {
	cities, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return cities, nil
	}

	cities = query.Filter(cities, func(c *models.TrialCity) bool {
		if !query.MatchesSearch(filter.Search, c.City, c.Code, c.State, c.AssignedREP) {
			return false
		}
		switch filter.Verified {
		case "Verified":
			if !c.GroundVerified {
				return false
			}
		case "Unverified":
			if c.GroundVerified {
				return false
			}
		}
		return query.FilterMatches(filter.State, c.State) &&
			query.FilterMatches(filter.TrialType, c.TrialType)
	})

	if filter.SortKey != "" {
		sortTrialCities(cities, query.Sort{Key: filter.SortKey, Desc: filter.Desc})
	}
	return cities, nil
}

func sortTrialCities(cities []*models.TrialCity, s query.Sort) {
	query.OrderBy(cities, s, func(a, b *models.TrialCity) int {
		switch s.Key {
		case "state":
			return query.CompareStrings(a.State, b.State)
		case "code":
			return query.CompareStrings(a.Code, b.Code)
		case "rep":
			return query.CompareStrings(a.AssignedREP, b.AssignedREP)
		case "trialDate":
			return compareDates(a.TrialDate, b.TrialDate)
		default:
			return query.CompareStrings(a.City, b.City)
		}
	})
}

func (s *TrialCityService) UpdateTrialCity(ctx context.Context, code string, req *models.UpdateTrialCityRequest) (*models.TrialCity, error) {
	existing, err := s.Repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	existing.Region = req.Region
	existing.AssignedREP = req.AssignedREP
	existing.GroundLocation = req.GroundLocation
	existing.GroundVerified = req.GroundVerified
	existing.TrialType = req.TrialType
	existing.TrialDate = req.TrialDate
	existing.TrialMonth = req.TrialMonth
	existing.Comment = req.Comment
	existing.NextTrialDate = req.NextTrialDate
	existing.ScoutName = req.ScoutName
	existing.ScoutPhone = req.ScoutPhone
	existing.ScoutBackupName = req.ScoutBackupName

	if err := s.Repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Reverify stamps a fresh verification timestamp without touching the
// city's identity or details.
func (s *TrialCityService) Reverify(ctx context.Context, code string) (*models.TrialCity, error) {
	city, err := s.Repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	now := timeutil.Now()
	city.LastReverified = &now
	city.GroundVerified = true
	if err := s.Repo.Update(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

// DeleteTrialCity deletes a registry entry only when the typed
// confirmation equals the city name exactly, including case.
func (s *TrialCityService) DeleteTrialCity(ctx context.Context, code string, confirmCity string) error {
	city, err := s.Repo.Get(ctx, code)
	if err != nil {
		return err
	}
	if confirmCity != city.City {
		return apperrors.Validation("confirmCity", "confirmation does not match the city name")
	}
	return s.Repo.Delete(ctx, code)
}

// BulkImport creates cities one at a time in row order. A failing row is
// reported and skipped; it never aborts the rest of the batch. The
// progress callback, when set, fires after every row.
func (s *TrialCityService) BulkImport(ctx context.Context, reqs []*models.CreateTrialCityRequest, progress func(models.BulkImportItemResult)) *models.BulkImportResult {
	result := &models.BulkImportResult{Items: make([]models.BulkImportItemResult, 0, len(reqs))}

	for i, req := range reqs {
		item := models.BulkImportItemResult{Row: i + 1, City: req.City}

		if strings.TrimSpace(req.City) == "" {
			item.Status = "skipped"
			result.Skipped++
		} else if city, err := s.CreateTrialCity(ctx, req); err != nil {
			item.Status = "failed"
			item.Error = err.Error()
			result.Failed++
		} else {
			item.Status = "imported"
			item.Code = city.Code
			result.Imported++
		}

		result.Items = append(result.Items, item)
		if progress != nil {
			progress(item)
		}
	}
	return result
}

// ParseCitiesCSV reads a bulk import file: a header row followed by
// State,City,Region,Assigned REP,Ground Location rows. Blank lines are
// dropped; the header row is detected by its first column.
func ParseCitiesCSV(r io.Reader) ([]*models.CreateTrialCityRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var reqs []*models.CreateTrialCityRequest
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(field(record, 0)), "state") {
			continue
		}
		req := &models.CreateTrialCityRequest{
			State:          strings.TrimSpace(field(record, 0)),
			City:           strings.TrimSpace(field(record, 1)),
			Region:         strings.TrimSpace(field(record, 2)),
			AssignedREP:    strings.TrimSpace(field(record, 3)),
			GroundLocation: strings.TrimSpace(field(record, 4)),
		}
		if req.State == "" && req.City == "" {
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
