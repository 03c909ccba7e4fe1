package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ExportFilename is the suggested name for a downloaded export.
const ExportFilename = "batch_results.csv"

var exportHeader = []string{
	"Patient ID",
	"Heart Rate",
	"SpO2",
	"Temperature",
	"Systolic BP",
	"Diastolic BP",
	"Age",
	"Gender",
	"Predicted Disease",
	"Risk Level",
	"Confidence (%)",
	"Emergency Alert",
}

// WriteCSV writes rows in export layout.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for i, r := range rows {
		record := []string{
			r.PatientID,
			formatNumber(r.HeartRate),
			formatNumber(r.SpO2),
			formatNumber(r.Temperature),
			formatNumber(r.SystolicBP),
			formatNumber(r.DiastolicBP),
			r.Age,
			r.Gender,
			r.Disease,
			r.RiskLevel,
			strconv.FormatFloat(r.Confidence*100, 'f', 1, 64),
			yesNo(r.EmergencyAlert),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadExport parses a table produced by WriteCSV.
func ReadExport(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(exportHeader)
	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("line %d: %w", perr.Line, ErrHeaderMismatch)
		}
		return nil, fmt.Errorf("read export: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	for i, name := range records[0] {
		if cleanHeader(name) != exportHeader[i] {
			return nil, fmt.Errorf("column %d is %q, want %q: %w", i+1, name, exportHeader[i], ErrHeaderMismatch)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{
			PatientID:      rec[0],
			HeartRate:      ParseLooseFloat(rec[1]),
			SpO2:           ParseLooseFloat(rec[2]),
			Temperature:    ParseLooseFloat(rec[3]),
			SystolicBP:     ParseLooseFloat(rec[4]),
			DiastolicBP:    ParseLooseFloat(rec[5]),
			Age:            rec[6],
			Gender:         rec[7],
			Disease:        rec[8],
			RiskLevel:      rec[9],
			Confidence:     ParseLooseFloat(rec[10]) / 100,
			EmergencyAlert: strings.EqualFold(rec[11], "Yes"),
		})
	}
	return rows, nil
}

// formatNumber spells infinities the way ParseLooseFloat reads them back.
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
