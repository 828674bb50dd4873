package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tta-backend/internal/codes"
	"tta-backend/internal/metrics"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

// CodeService issues trial and trial-city codes. The sequence store is
// the system of record for the next number per prefix; the string-scan
// in the codes package is only used to seed counters from codes that
// predate the counter table.
type CodeService struct {
	Seq repositories.SequenceStore
}

func NewCodeService(seq repositories.SequenceStore) *CodeService {
	return &CodeService{Seq: seq}
}

// NextTrialCityCode issues the next registry code for a state+city pair
func (s *CodeService) NextTrialCityCode(ctx context.Context, state, cityName string) (string, error) {
	prefix := codes.TrialCityPrefix(state, cityName)
	seq, err := s.Seq.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	metrics.CodesIssuedTotal.WithLabelValues("trial_city").Inc()
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// NextTrialCode issues the next trial code for a season+type pair
func (s *CodeService) NextTrialCode(ctx context.Context, season, trialType string) (string, error) {
	prefix := codes.TrialPrefix(season, trialType)
	seq, err := s.Seq.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	metrics.CodesIssuedTotal.WithLabelValues("trial").Inc()
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// SeedFromExisting adopts codes issued before the counter table existed.
// For each prefix found among the stored codes the counter is moved
// forward to the highest sequence seen; malformed codes are skipped.
func (s *CodeService) SeedFromExisting(ctx context.Context, cities []*models.TrialCity, trials []*models.Trial) error {
	maxByPrefix := make(map[string]int)

	record := func(code string) {
		idx := strings.LastIndex(code, "-")
		if idx < 0 || idx+1 >= len(code) {
			return
		}
		n, err := strconv.Atoi(code[idx+1:])
		if err != nil {
			return
		}
		prefix := code[:idx+1]
		if n > maxByPrefix[prefix] {
			maxByPrefix[prefix] = n
		}
	}

	for _, city := range cities {
		if codes.ValidTrialCityCode(city.Code) {
			record(city.Code)
		}
	}
	for _, trial := range trials {
		if codes.ValidTrialCode(trial.TrialCode) {
			record(trial.TrialCode)
		}
	}

	for prefix, max := range maxByPrefix {
		if err := s.Seq.Seed(ctx, prefix, max); err != nil {
			return err
		}
	}
	if len(maxByPrefix) > 0 {
		log.Printf("[Codes] Seeded %d sequence counter(s) from existing codes", len(maxByPrefix))
	}
	return nil
}
