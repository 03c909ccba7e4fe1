package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyTable is returned when the input holds no header line.
	ErrEmptyTable = errors.New("batch table is empty")
	// ErrHeaderMismatch is returned when an export does not carry the expected header.
	ErrHeaderMismatch = errors.New("batch header mismatch")
)

// Input column names.
const (
	ColPatientNumber = "Patient Number"
	ColHeartRate     = "Heart Rate (bpm)"
	ColSpO2          = "SpO2 Level (%)"
	ColSystolicBP    = "Systolic Blood Pressure (mmHg)"
	ColDiastolicBP   = "Diastolic Blood Pressure (mmHg)"
	ColTemperature   = "Body Temperature (°C)"
	ColDisease       = "Predicted Disease"
	ColAccuracy      = "Data Accuracy (%)"
	ColAge           = "Age"
	ColGender        = "Gender"
)

// Row is one subject of a batch. Vitals that could not be parsed are NaN.
type Row struct {
	PatientID      string  `json:"patientId"`
	HeartRate      float64 `json:"heartRate"`
	SpO2           float64 `json:"spo2"`
	SystolicBP     float64 `json:"systolicBP"`
	DiastolicBP    float64 `json:"diastolicBP"`
	Temperature    float64 `json:"temperature"`
	Disease        string  `json:"disease"`
	Confidence     float64 `json:"confidence"`
	RiskLevel      string  `json:"riskLevel"`
	EmergencyAlert bool    `json:"emergencyAlert"`
	Age            string  `json:"age,omitempty"`
	Gender         string  `json:"gender,omitempty"`
}

// MarshalJSON writes NaN readings as null.
func (r Row) MarshalJSON() ([]byte, error) {
	type wire struct {
		PatientID      string   `json:"patientId"`
		HeartRate      *float64 `json:"heartRate"`
		SpO2           *float64 `json:"spo2"`
		SystolicBP     *float64 `json:"systolicBP"`
		DiastolicBP    *float64 `json:"diastolicBP"`
		Temperature    *float64 `json:"temperature"`
		Disease        string   `json:"disease"`
		Confidence     *float64 `json:"confidence"`
		RiskLevel      string   `json:"riskLevel"`
		EmergencyAlert bool     `json:"emergencyAlert"`
		Age            string   `json:"age,omitempty"`
		Gender         string   `json:"gender,omitempty"`
	}
	return json.Marshal(wire{
		PatientID:      r.PatientID,
		HeartRate:      finite(r.HeartRate),
		SpO2:           finite(r.SpO2),
		SystolicBP:     finite(r.SystolicBP),
		DiastolicBP:    finite(r.DiastolicBP),
		Temperature:    finite(r.Temperature),
		Disease:        r.Disease,
		Confidence:     finite(r.Confidence),
		RiskLevel:      r.RiskLevel,
		EmergencyAlert: r.EmergencyAlert,
		Age:            r.Age,
		Gender:         r.Gender,
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Ingest reads a comma separated table. Cells are split on every comma;
// quoting is not supported.
func Ingest(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyTable
	}

	lines := strings.Split(text, "\n")
	header := strings.Split(strings.TrimSuffix(lines[0], "\r"), ",")
	for i, cell := range header {
		header[i] = cleanHeader(cell)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(strings.TrimSuffix(line, "\r"), ",")
		entry := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(values) {
				entry[name] = values[i]
			}
		}
		rows = append(rows, project(entry))
	}
	return rows, nil
}

func project(entry map[string]string) Row {
	row := Row{
		PatientID:   entry[ColPatientNumber],
		HeartRate:   numberOrNaN(entry, ColHeartRate),
		SpO2:        numberOrNaN(entry, ColSpO2),
		SystolicBP:  numberOrNaN(entry, ColSystolicBP),
		DiastolicBP: numberOrNaN(entry, ColDiastolicBP),
		Temperature: numberOrNaN(entry, ColTemperature),
		Disease:     entry[ColDisease],
		Confidence:  numberOrNaN(entry, ColAccuracy) / 100,
		Age:         strings.TrimSpace(entry[ColAge]),
		Gender:      strings.TrimSpace(entry[ColGender]),
	}
	row.RiskLevel = RiskLevel(row)
	return row
}

func numberOrNaN(entry map[string]string, col string) float64 {
	v, ok := entry[col]
	if !ok {
		return math.NaN()
	}
	return ParseLooseFloat(v)
}

func cleanHeader(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return norm.NFKC.String(v)
}

// ParseLooseFloat parses the longest numeric prefix of s after leading
// whitespace, so "72bpm" is 72 and "abc" is NaN.
func ParseLooseFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	end := numericPrefix(s)
	if end == 0 {
		return math.NaN()
	}
	prefix := s[:end]
	switch strings.TrimLeft(prefix, "+-") {
	case "Infinity":
		if strings.HasPrefix(prefix, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// numericPrefix returns the length of the longest decimal literal at the
// start of s, or 0 when there is none.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return i + len("Infinity")
	}

	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := countDigits(s[j:]); n > 0 {
			i = j + n
		}
	}
	return i
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
