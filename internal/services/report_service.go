package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"tta-backend/internal/models"
	"tta-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// TrialReportData holds everything rendered into a single trial report
type TrialReportData struct {
	Trial      *models.Trial
	Payments   []*models.TierPayment
	CityCount  int
	TotalPaid  float64
	PaidOrders int
}

// SeasonSummaryData aggregates the trials of one season
type SeasonSummaryData struct {
	Season      string
	Trials      []*models.Trial
	TotalCities int
	ByStatus    map[string]int
}

// ReportService produces the CSV and PDF exports the dashboard offers.
type ReportService struct {
	TrialService     *TrialService
	REPService       *REPService
	TrialCityService *TrialCityService
	PaymentRepo      interface {
		ListByTrial(ctx context.Context, trialID int) ([]*models.TierPayment, error)
	}
}

func NewReportService(trials *TrialService, reps *REPService, cities *TrialCityService, payments interface {
	ListByTrial(ctx context.Context, trialID int) ([]*models.TierPayment, error)
}) *ReportService {
	return &ReportService{
		TrialService:     trials,
		REPService:       reps,
		TrialCityService: cities,
		PaymentRepo:      payments,
	}
}

// GetTrialReportData fetches a trial with its payment history
func (s *ReportService) GetTrialReportData(ctx context.Context, trialID int) (*TrialReportData, error) {
	trial, err := s.TrialService.GetTrial(ctx, trialID)
	if err != nil {
		return nil, err
	}

	var payments []*models.TierPayment
	if s.PaymentRepo != nil {
		payments, err = s.PaymentRepo.ListByTrial(ctx, trialID)
		if err != nil {
			payments = nil
		}
	}

	totalPaid := 0.0
	paidOrders := 0
	for _, p := range payments {
		if p.Status == models.PaymentStatusSuccess {
			totalPaid += p.Amount
			paidOrders++
		}
	}

	return &TrialReportData{
		Trial:      trial,
		Payments:   payments,
		CityCount:  len(trial.AssignedCities),
		TotalPaid:  totalPaid,
		PaidOrders: paidOrders,
	}, nil
}

// GenerateTrialPDF renders a one-trial summary PDF
func (s *ReportService) GenerateTrialPDF(data *TrialReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	trial := data.Trial

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "TTA Dashboard - Trial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Trial Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Trial Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", trial.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Code: %s", trial.TrialCode), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Season: %s", trial.Season), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Type: %s", trial.TrialType), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", trial.Status), "LB", 0, "L", false, 0, "")
	schedule := trial.ScheduleType
	if trial.ScheduleType == models.ScheduleFixed && trial.StartDate != nil {
		schedule = fmt.Sprintf("Fixed, from %s", trial.StartDate.Format("02-Jan-2006"))
	} else if trial.ScheduleType == models.ScheduleTentative && trial.TentativeMonth != "" {
		schedule = fmt.Sprintf("Tentative, %s", trial.TentativeMonth)
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Schedule: %s", schedule), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Tier box
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Tier Pricing", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	if trial.TierType == models.TierNotAny {
		pdf.CellFormat(190, 8, "No tier pricing", "1", 1, "C", false, 0, "")
	} else {
		amount := 0.0
		if trial.TierAmount != nil {
			amount = *trial.TierAmount
		}
		participants := 0
		if trial.ExpectedParticipants != nil {
			participants = *trial.ExpectedParticipants
		}
		pdf.CellFormat(63, 8, fmt.Sprintf("Tier: %s", trial.TierType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(63, 8, fmt.Sprintf("Fee: Rs. %.2f", amount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(64, 8, fmt.Sprintf("Expected: %d", participants), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Cities table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Assigned Cities (%d)", data.CityCount), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(70, 7, "City", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Region", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Code", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, c := range trial.AssignedCities {
		city := c.CityName
		if len(city) > 30 {
			city = city[:27] + "..."
		}
		pdf.CellFormat(70, 6, city, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, c.TrialRegion, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, c.Code, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Payment summary
	if len(data.Payments) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Tier Fee Collection", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(60, 7, "Order", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "REP", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Status", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range data.Payments {
			repName := p.REPName
			if len(repName) > 22 {
				repName = repName[:19] + "..."
			}
			pdf.CellFormat(60, 6, p.RazorpayOrderID, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, repName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("Rs. %.2f", p.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, string(p.Status), "1", 1, "C", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(200, 255, 200)
		pdf.CellFormat(190, 10, fmt.Sprintf("Collected: Rs. %.2f across %d order(s)", data.TotalPaid, data.PaidOrders), "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSeasonTrialPDFs renders a report PDF for each trial in a season
func (s *ReportService) GenerateSeasonTrialPDFs(ctx context.Context, season string) (map[string][]byte, error) {
	trials, err := s.TrialService.ListTrials(ctx, &models.TrialListFilter{Season: season})
	if err != nil {
		return nil, err
	}

	type pdfResult struct {
		code string
		data []byte
		err  error
	}

	jobs := make(chan *models.Trial, len(trials))
	results := make(chan pdfResult, len(trials))

	var wg sync.WaitGroup
	numWorkers := 5
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range jobs {
				data, err := s.GetTrialReportData(ctx, trial.ID)
				if err != nil {
					results <- pdfResult{code: trial.TrialCode, err: err}
					continue
				}
				pdfBytes, err := s.GenerateTrialPDF(data)
				results <- pdfResult{code: trial.TrialCode, data: pdfBytes, err: err}
			}
		}()
	}

	for _, trial := range trials {
		jobs <- trial
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pdfs := make(map[string][]byte)
	for r := range results {
		if r.err == nil && r.data != nil {
			pdfs[r.code] = r.data
		}
	}
	return pdfs, nil
}

// CreatePDFZip bundles named PDFs into a single ZIP download
func (s *ReportService) CreatePDFZip(pdfs map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, pdfData := range pdfs {
		fw, err := zw.Create(fmt.Sprintf("trial_%s.pdf", name))
		if err != nil {
			continue
		}
		fw.Write(pdfData)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateREPsCSV exports the REP list, honoring the list filter
func (s *ReportService) GenerateREPsCSV(ctx context.Context, filter *models.REPListFilter) ([]byte, error) {
	reps, err := s.REPService.ListREPs(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Name", "State", "City", "Contact", "Phone", "Email",
		"Status", "MOU Status", "Assigned Trials",
	})
	for i, rep := range reps {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			rep.Name,
			rep.State,
			rep.City,
			rep.ContactName,
			rep.ContactPhone,
			rep.ContactEmail,
			rep.Status,
			rep.MOUStatus,
			fmt.Sprintf("%d", len(rep.AssignedTrials)),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateTrialCitiesCSV exports the trial city registry
func (s *ReportService) GenerateTrialCitiesCSV(ctx context.Context, filter *models.TrialCityListFilter) ([]byte, error) {
	cities, err := s.TrialCityService.ListTrialCities(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Code", "City", "State", "Region", "Assigned REP",
		"Ground Location", "Verified", "Last Reverified",
	})
	for i, c := range cities {
		verified := "No"
		if c.GroundVerified {
			verified = "Yes"
		}
		lastReverified := ""
		if c.LastReverified != nil {
			lastReverified = timeutil.ToIST(*c.LastReverified).Format("02-Jan-2006")
		}
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			c.Code,
			c.City,
			c.State,
			c.Region,
			c.AssignedREP,
			c.GroundLocation,
			verified,
			lastReverified,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateTrialsCSV exports the trial list with schedule and tier columns
func (s *ReportService) GenerateTrialsCSV(ctx context.Context, filter *models.TrialListFilter) ([]byte, error) {
	trials, err := s.TrialService.ListTrials(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Code", "Name", "Season", "Type", "Status",
		"Tier", "Tier Fee", "Schedule", "Start Date", "Tentative Month", "Cities",
	})
	for i, t := range trials {
		tierFee := ""
		if t.TierAmount != nil {
			tierFee = fmt.Sprintf("%.2f", *t.TierAmount)
		}
		startDate := ""
		if t.StartDate != nil {
			startDate = t.StartDate.Format("02-Jan-2006")
		}
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			t.TrialCode,
			t.Name,
			t.Season,
			t.TrialType,
			t.Status,
			t.TierType,
			tierFee,
			t.ScheduleType,
			startDate,
			t.TentativeMonth,
			fmt.Sprintf("%d", len(t.AssignedCities)),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetSeasonSummary aggregates trial counts for a season
func (s *ReportService) GetSeasonSummary(ctx context.Context, season string) (*SeasonSummaryData, error) {
	trials, err := s.TrialService.ListTrials(ctx, &models.TrialListFilter{Season: season})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int)
	totalCities := 0
	for _, t := range trials {
		byStatus[t.Status]++
		totalCities += len(t.AssignedCities)
	}

	return &SeasonSummaryData{
		Season:      season,
		Trials:      trials,
		TotalCities: totalCities,
		ByStatus:    byStatus,
	}, nil
}
