package enrich

import "github.com/Skufu/vitalrisk/internal/triage"

type Vitals struct {
	HeartRate   int     `json:"heartRate"`
	SpO2        int     `json:"spo2"`
	SystolicBP  int     `json:"systolicBP"`
	DiastolicBP int     `json:"diastolicBP"`
	Temperature float64 `json:"temperature"`
}

func VitalsOf(s triage.SubjectInput) Vitals {
	return Vitals{
		HeartRate:   s.HeartRate,
		SpO2:        s.SpO2,
		SystolicBP:  s.SystolicBP,
		DiastolicBP: s.DiastolicBP,
		Temperature: s.Temperature,
	}
}

type Demographics struct {
	Age    int           `json:"age"`
	Gender triage.Gender `json:"gender"`
	Weight float64       `json:"weight,omitempty"`
	Height float64       `json:"height,omitempty"`
}

// Request payloads.

type SymptomsRequest struct {
	Disease      triage.Disease `json:"disease"`
	Vitals       Vitals         `json:"vitals"`
	Demographics Demographics   `json:"demographics"`
}

type AnalysisRequest struct {
	Symptoms     []triage.Symptom `json:"symptoms"`
	Vitals       Vitals           `json:"vitals"`
	Demographics Demographics     `json:"demographics"`
}

type ExplanationRequest struct {
	Disease  triage.Disease   `json:"disease"`
	Symptoms []triage.Symptom `json:"symptoms"`
	Vitals   Vitals           `json:"vitals"`
}

type InsightRequest struct {
	Vitals         Vitals             `json:"vitals"`
	Demographics   Demographics       `json:"demographics"`
	MedicalHistory []triage.Condition `json:"medicalHistory"`
	Symptoms       []triage.Symptom   `json:"symptoms"`
}

type EvolutionRequest struct {
	CurrentSymptoms []triage.Symptom      `json:"currentSymptoms"`
	PastSymptoms    []triage.Symptom      `json:"pastSymptoms"`
	CurrentVitals   Vitals                `json:"currentVitals"`
	PastVitals      []triage.SubjectInput `json:"pastVitals"`
}

// Response payloads. They are opaque to scoring.

type AISymptoms struct {
	PrimarySymptoms   []string `json:"primarySymptoms"`
	SecondarySymptoms []string `json:"secondarySymptoms"`
	Explanation       string   `json:"explanation"`
	Severity          string   `json:"severity"`
	Recommendations   []string `json:"recommendations"`
}

type SymptomAnalysis struct {
	Analysis           string   `json:"analysis"`
	PossibleConditions []string `json:"possibleConditions"`
	UrgencyLevel       string   `json:"urgencyLevel"`
	RedFlags           []string `json:"redFlags"`
	Recommendations    []string `json:"recommendations"`
	FollowUpQuestions  []string `json:"followUpQuestions"`
}

type MedicalExplanation struct {
	DiseaseExplanation string `json:"diseaseExplanation"`
	SymptomConnection  string `json:"symptomConnection"`
	Pathophysiology    string `json:"pathophysiology"`
	Prognosis          string `json:"prognosis"`
	Lifestyle          string `json:"lifestyle"`
	WhenToSeekHelp     string `json:"whenToSeekHelp"`
}

type PersonalizedInsight struct {
	Insight              string   `json:"insight"`
	TailoredAdvice       []string `json:"tailoredAdvice"`
	LifestyleSuggestions []string `json:"lifestyleSuggestions"`
}

type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendWorsening Trend = "Worsening"
	TrendStable    Trend = "Stable"
)

type SymptomEvolution struct {
	Changes     string `json:"changes"`
	Trend       Trend  `json:"trend"`
	UpdatedRisk string `json:"updatedRisk"`
}
