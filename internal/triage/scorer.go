package triage

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevels lists the buckets from least to most severe.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Score is the raw output of the live scorer.
type Score struct {
	RiskScore      int      `json:"riskScore"`
	Alerts         []string `json:"alerts"`
	EmergencyAlert bool     `json:"emergencyAlert"`
}

// tier is one predicate→effect pair. Within a rule the first matching tier
// fires and the rest are skipped.
type tier struct {
	when      func(SubjectInput) bool
	points    int
	emergency bool
	alert     func(SubjectInput) string
}

type scoreRule struct {
	name  string
	tiers []tier
}

func fixed(msg string) func(SubjectInput) string {
	return func(SubjectInput) string { return msg }
}

var criticalSymptoms = []Symptom{SymptomChestPain, SymptomShortnessOfBreath, SymptomConfusion}

// scoreRules is evaluated top to bottom; alerts keep this order.
var scoreRules = []scoreRule{
	{name: "heart_rate", tiers: []tier{
		{
			when:      func(s SubjectInput) bool { return s.HeartRate < 40 || s.HeartRate > 150 },
			points:    30,
			emergency: true,
			alert: func(s SubjectInput) string {
				if s.HeartRate > 150 {
					return "Critical: Severe Tachycardia"
				}
				return "Critical: Severe Bradycardia"
			},
		},
		{
			when:   func(s SubjectInput) bool { return s.HeartRate < 60 || s.HeartRate > 100 },
			points: 10,
			alert: func(s SubjectInput) string {
				if s.HeartRate > 100 {
					return "High Heart Rate"
				}
				return "Low Heart Rate"
			},
		},
	}},
	{name: "spo2", tiers: []tier{
		{when: func(s SubjectInput) bool { return s.SpO2 < 85 }, points: 35, emergency: true, alert: fixed("Critical: Severe Hypoxemia")},
		{when: func(s SubjectInput) bool { return s.SpO2 < 95 }, points: 15, alert: fixed("Low SpO2 Level")},
		// Readings above 100 are flagged but deliberately score nothing.
		{when: func(s SubjectInput) bool { return s.SpO2 > 100 }, points: 0, alert: fixed("Invalid Data")},
	}},
	{name: "fall", tiers: []tier{
		{when: func(s SubjectInput) bool { return s.FallDetected }, points: 10, alert: fixed("Fall Detected: Possible trauma risk")},
	}},
	{name: "blood_pressure", tiers: []tier{
		{
			when:      func(s SubjectInput) bool { return s.SystolicBP > 180 || s.DiastolicBP > 110 },
			points:    40,
			emergency: true,
			alert:     fixed("Critical: Hypertensive Crisis"),
		},
		{
			when:   func(s SubjectInput) bool { return s.SystolicBP > 140 || s.DiastolicBP > 90 },
			points: 20,
			alert:  fixed("High Blood Pressure"),
		},
	}},
	{name: "temperature", tiers: []tier{
		{
			when:      func(s SubjectInput) bool { return s.Temperature > 39.0 || s.Temperature < 35.0 },
			points:    25,
			emergency: true,
			alert:     fixed("Critical: Severe Temperature Abnormality"),
		},
		{
			when:   func(s SubjectInput) bool { return s.Temperature < 36.5 || s.Temperature > 37.5 },
			points: 10,
			alert:  fixed("Abnormal Temperature"),
		},
	}},
	{name: "critical_symptoms", tiers: []tier{
		{
			when: func(s SubjectInput) bool {
				for _, sym := range criticalSymptoms {
					if s.HasSymptom(sym) {
						return true
					}
				}
				return false
			},
			points: 20,
			alert:  fixed("Critical symptoms detected"),
		},
	}},
	{name: "age", tiers: []tier{
		{when: func(s SubjectInput) bool { return s.Age > 65 }, points: 10},
	}},
	{name: "heart_disease", tiers: []tier{
		{when: func(s SubjectInput) bool { return s.HasCondition(ConditionHeartDisease) }, points: 15},
	}},
	{name: "diabetes", tiers: []tier{
		{when: func(s SubjectInput) bool { return s.HasCondition(ConditionDiabetes) }, points: 10},
	}},
}

// ScoreSubject runs every scoring rule against s. Rules are independent and
// additive; the score has no ceiling.
func ScoreSubject(s SubjectInput) Score {
	out := Score{Alerts: []string{}}
	for _, rule := range scoreRules {
		for _, t := range rule.tiers {
			if !t.when(s) {
				continue
			}
			out.RiskScore += t.points
			if t.emergency {
				out.EmergencyAlert = true
			}
			if t.alert != nil {
				out.Alerts = append(out.Alerts, t.alert(s))
			}
			break
		}
	}
	return out
}

// LevelFor buckets a live score. Emergencies are always Critical.
func LevelFor(score int, emergency bool) RiskLevel {
	switch {
	case emergency || score > 60:
		return RiskCritical
	case score > 40:
		return RiskHigh
	case score > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}
