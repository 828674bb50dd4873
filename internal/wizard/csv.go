package wizard

import (
	"encoding/csv"
	"io"
	"strings"
)

// ImportSummary reports the outcome of a bulk city import into a draft.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCitiesCSV reads "City Name,Trial Region" rows into the draft.
// Every row goes through the same duplicate rule as manual entry; rows
// with a blank city name are skipped, as are duplicates.
func (d *Draft) ImportCitiesCSV(r io.Reader) (ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var summary ImportSummary
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, err
		}
		line++

		cityName := ""
		trialRegion := ""
		if len(record) > 0 {
			cityName = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			trialRegion = strings.TrimSpace(record[1])
		}

		// Header row
		if line == 1 && strings.EqualFold(cityName, "city name") {
			continue
		}
		if cityName == "" {
			summary.Skipped++
			continue
		}
		if _, err := d.AddCity(cityName, trialRegion); err != nil {
			summary.Skipped++
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

// CitiesCSVTemplate is the sample file offered for download next to the
// bulk import control.
const CitiesCSVTemplate = "City Name,Trial Region\nMumbai,Mumbai West\nPune,Pune Central\n"
