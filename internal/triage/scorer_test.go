package triage

import (
	"strings"
	"testing"
)

func normalSubject() SubjectInput {
	return DefaultSubject()
}

func TestScoreSubject_NormalBaseline(t *testing.T) {
	score := ScoreSubject(normalSubject())
	if score.RiskScore != 0 || score.EmergencyAlert || len(score.Alerts) != 0 {
		t.Fatalf("expected clean score for baseline subject, got %+v", score)
	}
}

func TestScoreSubject_ExtremeHeartRateIsEmergency(t *testing.T) {
	for _, hr := range []int{0, 20, 39, 151, 160, 220} {
		s := normalSubject()
		s.HeartRate = hr
		score := ScoreSubject(s)
		if !score.EmergencyAlert {
			t.Fatalf("hr=%d: expected emergency, got %+v", hr, score)
		}
		if score.RiskScore != 30 {
			t.Fatalf("hr=%d: expected +30 only, got %d", hr, score.RiskScore)
		}
	}
}

func TestScoreSubject_HeartRateAlerts(t *testing.T) {
	cases := []struct {
		hr     int
		points int
		alert  string
	}{
		{160, 30, "Critical: Severe Tachycardia"},
		{35, 30, "Critical: Severe Bradycardia"},
		{110, 10, "High Heart Rate"},
		{55, 10, "Low Heart Rate"},
		{40, 10, "Low Heart Rate"},
		{150, 10, "High Heart Rate"},
	}
	for _, tc := range cases {
		s := normalSubject()
		s.HeartRate = tc.hr
		score := ScoreSubject(s)
		if score.RiskScore != tc.points {
			t.Fatalf("hr=%d: expected %d points, got %d", tc.hr, tc.points, score.RiskScore)
		}
		if len(score.Alerts) != 1 || score.Alerts[0] != tc.alert {
			t.Fatalf("hr=%d: expected alert %q, got %v", tc.hr, tc.alert, score.Alerts)
		}
	}
}

func TestScoreSubject_InvalidSpO2ScoresNothing(t *testing.T) {
	for _, spo2 := range []int{101, 120, 250} {
		s := normalSubject()
		s.SpO2 = spo2
		score := ScoreSubject(s)
		if score.RiskScore != 0 {
			t.Fatalf("spo2=%d: expected no score impact, got %d", spo2, score.RiskScore)
		}
		if len(score.Alerts) != 1 || score.Alerts[0] != "Invalid Data" {
			t.Fatalf("spo2=%d: expected Invalid Data alert, got %v", spo2, score.Alerts)
		}
		if got := ClassifyVital(VitalSpO2, float64(spo2)).Status; got != "Invalid Data" {
			t.Fatalf("spo2=%d: expected Invalid Data status, got %s", spo2, got)
		}
	}
}

func TestScoreSubject_RuleOrderAndAccumulation(t *testing.T) {
	s := normalSubject()
	s.HeartRate = 160
	s.SpO2 = 80
	s.FallDetected = true
	s.SystolicBP = 190
	s.Temperature = 40
	s.Age = 70
	s.Symptoms = []Symptom{SymptomConfusion, SymptomChestPain}
	s.MedicalHistory = []Condition{ConditionHeartDisease, ConditionDiabetes}

	score := ScoreSubject(s)
	want := []string{
		"Critical: Severe Tachycardia",
		"Critical: Severe Hypoxemia",
		"Fall Detected: Possible trauma risk",
		"Critical: Hypertensive Crisis",
		"Critical: Severe Temperature Abnormality",
		"Critical symptoms detected",
	}
	if strings.Join(score.Alerts, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected alert order: %v", score.Alerts)
	}
	// 30+35+10+40+25+20+10+15+10
	if score.RiskScore != 195 {
		t.Fatalf("expected uncapped score 195, got %d", score.RiskScore)
	}
	if !score.EmergencyAlert {
		t.Fatal("expected emergency")
	}
}

func TestScoreSubject_CriticalSymptomsSingleAlert(t *testing.T) {
	s := normalSubject()
	s.Symptoms = []Symptom{SymptomChestPain, SymptomShortnessOfBreath, SymptomConfusion, SymptomFatigue}
	score := ScoreSubject(s)
	if score.RiskScore != 20 || len(score.Alerts) != 1 {
		t.Fatalf("expected one combined +20 alert, got %+v", score)
	}

	s.Symptoms = []Symptom{SymptomFatigue, SymptomCough}
	if score := ScoreSubject(s); score.RiskScore != 0 {
		t.Fatalf("non-critical symptoms should not score, got %+v", score)
	}
}

func TestScoreSubject_DemographicsWithoutAlerts(t *testing.T) {
	s := normalSubject()
	s.Age = 66
	s.MedicalHistory = []Condition{ConditionHeartDisease, ConditionDiabetes, ConditionAsthma}
	score := ScoreSubject(s)
	if score.RiskScore != 35 {
		t.Fatalf("expected 10+15+10, got %d", score.RiskScore)
	}
	if len(score.Alerts) != 0 {
		t.Fatalf("demographic rules must not alert, got %v", score.Alerts)
	}

	s.Age = 65
	if score := ScoreSubject(s); score.RiskScore != 25 {
		t.Fatalf("age 65 is not over 65, got %d", score.RiskScore)
	}
}

func TestScoreSubject_BloodPressureAndTemperatureTiers(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*SubjectInput)
		points    int
		emergency bool
	}{
		{"diastolic crisis", func(s *SubjectInput) { s.DiastolicBP = 111 }, 40, true},
		{"systolic high", func(s *SubjectInput) { s.SystolicBP = 141 }, 20, false},
		{"systolic 140 is fine", func(s *SubjectInput) { s.SystolicBP = 140 }, 0, false},
		{"hypothermia", func(s *SubjectInput) { s.Temperature = 34.9 }, 25, true},
		{"mild low temp", func(s *SubjectInput) { s.Temperature = 36.4 }, 10, false},
		{"39.0 is not severe", func(s *SubjectInput) { s.Temperature = 39.0 }, 10, false},
		{"zero temperature", func(s *SubjectInput) { s.Temperature = 0 }, 25, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := normalSubject()
			tc.mutate(&s)
			score := ScoreSubject(s)
			if score.RiskScore != tc.points || score.EmergencyAlert != tc.emergency {
				t.Fatalf("expected %d/%v, got %+v", tc.points, tc.emergency, score)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score     int
		emergency bool
		want      RiskLevel
	}{
		{0, false, RiskLow},
		{20, false, RiskLow},
		{21, false, RiskMedium},
		{40, false, RiskMedium},
		{41, false, RiskHigh},
		{55, false, RiskHigh},
		{60, false, RiskHigh},
		{61, false, RiskCritical},
		{250, false, RiskCritical},
		{0, true, RiskCritical},
		{30, true, RiskCritical},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.score, tc.emergency); got != tc.want {
			t.Fatalf("LevelFor(%d, %v) = %s, want %s", tc.score, tc.emergency, got, tc.want)
		}
	}
}
