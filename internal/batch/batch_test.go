package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

const sampleTable = "\ufeffPatient Number, Heart Rate (bpm) ,SpO2 Level (%),Systolic Blood Pressure (mmHg),Diastolic Blood Pressure (mmHg),Body Temperature (°C),Predicted Disease,Data Accuracy (%)\r\n" +
	"P-1,72,98,118,76,36.7,Normal,95\r\n" +
	"P-2,135,88,170,105,39.5,Hypertension,88\r\n" +
	"P-3,n/a,96,,80,37bpm,Normal,90\n"

func TestIngest_ParsesRows(t *testing.T) {
	rows, err := Ingest(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.PatientID != "P-1" || first.HeartRate != 72 || first.Temperature != 36.7 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", first.Confidence)
	}
	if first.Disease != "Normal" || first.RiskLevel != "Low" {
		t.Fatalf("unexpected classification: %+v", first)
	}

	if rows[1].RiskLevel != "Critical" {
		t.Fatalf("expected Critical for P-2, got %s", rows[1].RiskLevel)
	}

	third := rows[2]
	if !math.IsNaN(third.HeartRate) || !math.IsNaN(third.SystolicBP) {
		t.Fatalf("expected NaN for malformed cells, got %+v", third)
	}
	if third.Temperature != 37 {
		t.Fatalf("expected numeric prefix 37, got %v", third.Temperature)
	}
}

func TestIngest_EmptyInput(t *testing.T) {
	if _, err := Ingest(strings.NewReader("  \n ")); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestIngest_ShortRowYieldsNaN(t *testing.T) {
	rows, err := Ingest(strings.NewReader("Patient Number,Heart Rate (bpm),SpO2 Level (%)\nP-9,80"))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].HeartRate != 80 || !math.IsNaN(rows[0].SpO2) {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if !math.IsNaN(rows[0].Confidence) {
		t.Fatalf("missing accuracy column should give NaN confidence, got %v", rows[0].Confidence)
	}
}

func TestParseLooseFloat(t *testing.T) {
	cases := map[string]float64{
		"72":      72,
		"  98.5x": 98.5,
		"-3":      -3,
		".5":      0.5,
		"5.":      5,
		"1e2kg":   100,
		"1e":      1,
		"+7":      7,
	}
	for in, want := range cases {
		if got := ParseLooseFloat(in); got != want {
			t.Fatalf("ParseLooseFloat(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"", "abc", "-", ".", "NaN", "e5"} {
		if got := ParseLooseFloat(in); !math.IsNaN(got) {
			t.Fatalf("ParseLooseFloat(%q) = %v, want NaN", in, got)
		}
	}
	if got := ParseLooseFloat("-Infinity"); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
}

func TestRiskLevel_BatchScale(t *testing.T) {
	cases := []struct {
		name string
		row  Row
		want string
	}{
		{"all normal", Row{HeartRate: 75, SpO2: 98, Temperature: 36.8, SystolicBP: 120, DiastolicBP: 80, Disease: "Normal"}, "Low"},
		{"score four is low", Row{HeartRate: 140, SpO2: 98, Temperature: 36.8, SystolicBP: 120, DiastolicBP: 80, Disease: "Normal"}, "Low"},
		{"score five is medium", Row{HeartRate: 140, SpO2: 98, Temperature: 37.8, SystolicBP: 120, DiastolicBP: 80, Disease: "Normal"}, "Medium"},
		{"score seven is high", Row{HeartRate: 140, SpO2: 92, Temperature: 36.8, SystolicBP: 145, DiastolicBP: 80, Disease: "Normal"}, "High"},
		{"score nine is critical", Row{HeartRate: 140, SpO2: 85, Temperature: 36.8, SystolicBP: 120, DiastolicBP: 80, Disease: "Asthma"}, "Critical"},
		{"all NaN with disease", Row{HeartRate: math.NaN(), SpO2: math.NaN(), Temperature: math.NaN(), SystolicBP: math.NaN(), DiastolicBP: math.NaN(), Disease: "Fever"}, "Low"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RiskLevel(tc.row); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSummarize_ExcludesNaN(t *testing.T) {
	rows := []Row{
		{HeartRate: 70, SpO2: 97, Temperature: 36.6, Disease: "Normal"},
		{HeartRate: math.NaN(), SpO2: 96, Temperature: math.NaN(), Disease: "Asthma", EmergencyAlert: true},
		{HeartRate: 90, SpO2: 96, Temperature: 37.0, Disease: "Normal"},
	}
	s := Summarize(rows)
	if s.AvgHeartRate != 80 {
		t.Fatalf("expected avg heart rate 80, got %v", s.AvgHeartRate)
	}
	if s.AvgSpO2 != 96 {
		t.Fatalf("expected avg spo2 96, got %v", s.AvgSpO2)
	}
	if s.AvgTemp != 36.8 {
		t.Fatalf("expected avg temp 36.8, got %v", s.AvgTemp)
	}
	if s.TotalPatients != 3 || s.EmergencyCount != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.TopDiseases["Normal"] != 2 || s.DiseaseOrder[0] != "Normal" || s.DiseaseOrder[1] != "Asthma" {
		t.Fatalf("unexpected disease tally: %+v", s)
	}
}

func TestSummarize_RoundsHalfUp(t *testing.T) {
	s := Summarize([]Row{{HeartRate: 70, SpO2: 95}, {HeartRate: 71, SpO2: 96}})
	if s.AvgHeartRate != 71 || s.AvgSpO2 != 96 {
		t.Fatalf("expected 70.5 -> 71 and 95.5 -> 96, got %+v", s)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalPatients != 0 || s.AvgHeartRate != 0 || s.AvgTemp != 0 || len(s.TopDiseases) != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	allNaN := Summarize([]Row{{HeartRate: math.NaN(), SpO2: math.NaN(), Temperature: math.NaN()}})
	if allNaN.AvgHeartRate != 0 || allNaN.AvgSpO2 != 0 || allNaN.AvgTemp != 0 {
		t.Fatalf("expected zero averages without valid values, got %+v", allNaN)
	}
}

func TestCountRiskLevels_DropsUnknownLabels(t *testing.T) {
	rows := []Row{{RiskLevel: "Low"}, {RiskLevel: "Critical"}, {RiskLevel: "Critical"}, {RiskLevel: "low"}, {RiskLevel: ""}}
	got := CountRiskLevels(rows)
	if got != (RiskCounts{Low: 1, Critical: 2}) {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	rows := []Row{
		{PatientID: "P-1", HeartRate: 72, SpO2: 98, Temperature: 36.7, SystolicBP: 118, DiastolicBP: 76, Age: "54", Gender: "female", Disease: "Normal", RiskLevel: "Low", Confidence: 0.92},
		{PatientID: "P,2", HeartRate: math.NaN(), SpO2: 88, Temperature: 39.5, SystolicBP: 170, DiastolicBP: 105, Disease: "Hypertension", RiskLevel: "Critical", Confidence: 0.88, EmergencyAlert: true},
		{PatientID: "P-3", HeartRate: math.Inf(1), SpO2: 95, Temperature: math.Inf(-1), SystolicBP: 120, DiastolicBP: 80, Disease: "Normal", RiskLevel: "Low", Confidence: 0.5},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Patient ID,Heart Rate,SpO2,Temperature,") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
	if !strings.Contains(buf.String(), ",92.0,No\n") {
		t.Fatalf("expected one-decimal confidence and Yes/No flag, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "P-3,Infinity,95,-Infinity,") {
		t.Fatalf("expected spelled-out infinities, got %q", buf.String())
	}

	back, err := ReadExport(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(back) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(back))
	}
	for i := range rows {
		if !sameRow(rows[i], back[i]) {
			t.Fatalf("row %d changed in round trip:\n%+v\n%+v", i, rows[i], back[i])
		}
	}
}

func TestReadExport_HeaderMismatch(t *testing.T) {
	_, err := ReadExport(strings.NewReader("Patient Number,Heart Rate (bpm)\nP-1,70\n"))
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("expected ErrHeaderMismatch, got %v", err)
	}
	if _, err := ReadExport(strings.NewReader("")); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestRow_MarshalJSONWritesNullForNaN(t *testing.T) {
	data, err := json.Marshal(Row{PatientID: "P-1", HeartRate: math.NaN(), SpO2: 97, Confidence: math.NaN()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"heartRate":null`) || !strings.Contains(string(data), `"spo2":97`) {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestAnalyze(t *testing.T) {
	rows, err := Ingest(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}
	a := Analyze(rows)
	if a.Summary.TotalPatients != 3 || a.RiskCounts.Critical != 1 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func sameRow(a, b Row) bool {
	eq := func(x, y float64) bool { return x == y || (math.IsNaN(x) && math.IsNaN(y)) }
	return a.PatientID == b.PatientID &&
		eq(a.HeartRate, b.HeartRate) && eq(a.SpO2, b.SpO2) && eq(a.Temperature, b.Temperature) &&
		eq(a.SystolicBP, b.SystolicBP) && eq(a.DiastolicBP, b.DiastolicBP) &&
		a.Age == b.Age && a.Gender == b.Gender && a.Disease == b.Disease &&
		a.RiskLevel == b.RiskLevel && eq(a.Confidence, b.Confidence) &&
		a.EmergencyAlert == b.EmergencyAlert
}
