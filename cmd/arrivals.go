package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// LoadArrivalProfile reads an arrival profile CSV of (period-label,
// rate-per-hour) rows of uniform period length. A non-numeric second field
// in the first row is treated as a header and skipped. Conversion to the
// kernel's per-minute rates happens in clinic.Config.RateTable.
func LoadArrivalProfile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open arrival profile %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse arrival profile %s: %w", path, err)
	}

	rates := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("arrival profile %s row %d: want (period,rate), got %d fields", path, i+1, len(row))
		}
		rate, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			if i == 0 {
				logrus.Debugf("arrival profile %s: skipping header row", path)
				continue
			}
			return nil, fmt.Errorf("arrival profile %s row %d: bad rate %q: %w", path, i+1, row[1], err)
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("arrival profile %s has no data rows", path)
	}
	return rates, nil
}
