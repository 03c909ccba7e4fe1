package triage

// PredictionResult is the immutable outcome of one single-record prediction.
type PredictionResult struct {
	Disease          Disease   `json:"disease"`
	Confidence       float64   `json:"confidence"`
	RiskScore        int       `json:"riskScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Alerts           []string  `json:"alerts"`
	EmergencyAlert   bool      `json:"emergencyAlert"`
	Recommendations  []string  `json:"recommendations"`
	FollowUpRequired bool      `json:"followUpRequired"`
}

// Predict scores s, infers its disease and composes the recommendations.
func Predict(s SubjectInput) PredictionResult {
	score := ScoreSubject(s)
	disease, confidence := InferDisease(s)
	level := LevelFor(score.RiskScore, score.EmergencyAlert)

	return PredictionResult{
		Disease:          disease,
		Confidence:       confidence,
		RiskScore:        score.RiskScore,
		RiskLevel:        level,
		Alerts:           score.Alerts,
		EmergencyAlert:   score.EmergencyAlert,
		Recommendations:  ComposeRecommendations(disease, score.EmergencyAlert, level),
		FollowUpRequired: level != RiskLow || len(score.Alerts) > 0,
	}
}

// Clone returns a copy that shares no slices with r.
func (r PredictionResult) Clone() PredictionResult {
	out := r
	out.Alerts = append([]string(nil), r.Alerts...)
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return out
}

// Assessment bundles a prediction with everything displayed next to it.
type Assessment struct {
	Prediction   PredictionResult               `json:"prediction"`
	DiseaseInfo  DiseaseInfo                    `json:"diseaseInfo"`
	Vitals       map[Vital]VitalStatus          `json:"vitals"`
	Population   map[Vital]PopulationComparison `json:"population"`
	Interactions []Interaction                  `json:"interactions"`
	Schedule     []string                       `json:"schedule"`
}

func Assess(s SubjectInput) Assessment {
	p := Predict(s)
	pop := make(map[Vital]PopulationComparison, len(populationAverages))
	readings := map[Vital]float64{
		VitalHeartRate:   float64(s.HeartRate),
		VitalSpO2:        float64(s.SpO2),
		VitalSystolicBP:  float64(s.SystolicBP),
		VitalDiastolicBP: float64(s.DiastolicBP),
		VitalTemperature: s.Temperature,
	}
	for v, value := range readings {
		if cmp, ok := ComparePopulation(v, value, s.Gender); ok {
			pop[v] = cmp
		}
	}
	return Assessment{
		Prediction:   p,
		DiseaseInfo:  MustDiseaseInfo(p.Disease),
		Vitals:       ClassifyAll(s),
		Population:   pop,
		Interactions: CheckInteractions(s.CurrentMedications),
		Schedule:     MedicationSchedule(s.CurrentMedications),
	}
}
