package triage

import "fmt"

type Disease string

const (
	DiseaseNormal             Disease = "Normal"
	DiseaseAsthma             Disease = "Asthma"
	DiseaseHypertension       Disease = "Hypertension"
	DiseaseArrhythmia         Disease = "Arrhythmia"
	DiseaseDiabetesMellitus   Disease = "Diabetes Mellitus"
	DiseaseFever              Disease = "Fever"
	DiseaseHypothermia        Disease = "Hypothermia"
	DiseaseTachycardia        Disease = "Tachycardia"
	DiseaseBradycardia        Disease = "Bradycardia"
	DiseaseHypoxemia          Disease = "Hypoxemia"
	DiseaseStage1Hypertension Disease = "Stage1Hypertension"
	DiseaseStage2Hypertension Disease = "Stage2Hypertension"
	DiseaseObesityClass1      Disease = "ObesityClass1"
	DiseaseObesityClass2      Disease = "ObesityClass2"
	DiseaseUnderweight        Disease = "Underweight"
)

// DiseaseInfo is the static education record shown next to a prediction.
type DiseaseInfo struct {
	Description     string   `json:"description"`
	Color           string   `json:"color"`
	Recommendations []string `json:"recommendations"`
	Education       string   `json:"education"`
}

// DiseaseOrder is the display order of the education table.
var DiseaseOrder = []Disease{
	DiseaseNormal, DiseaseAsthma, DiseaseHypertension, DiseaseArrhythmia,
	DiseaseDiabetesMellitus, DiseaseFever, DiseaseHypothermia, DiseaseTachycardia,
	DiseaseBradycardia, DiseaseHypoxemia, DiseaseStage1Hypertension,
	DiseaseStage2Hypertension, DiseaseObesityClass1, DiseaseObesityClass2,
	DiseaseUnderweight,
}

var diseaseTable = map[Disease]DiseaseInfo{
	DiseaseNormal: {
		Description:     "All vital signs are within normal ranges",
		Color:           "bg-green-500",
		Recommendations: []string{"Continue regular health checkups", "Maintain healthy lifestyle", "Stay hydrated"},
		Education:       "Maintaining normal vital signs indicates good cardiovascular and respiratory health.",
	},
	DiseaseAsthma: {
		Description: "Respiratory condition affecting breathing",
		Color:       "bg-yellow-500",
		Recommendations: []string{
			"Monitor SpO2 levels regularly",
			"Keep rescue inhaler available",
			"Avoid triggers",
			"Consider pulmonary function test",
		},
		Education: "Asthma is a chronic respiratory condition that can be well-managed with proper medication and trigger avoidance.",
	},
	DiseaseHypertension: {
		Description: "High blood pressure condition",
		Color:       "bg-orange-500",
		Recommendations: []string{
			"Monitor blood pressure daily",
			"Reduce sodium intake",
			"Regular exercise",
			"Consider ACE inhibitor",
		},
		Education: "Hypertension is often called the 'silent killer' because it usually has no symptoms but can lead to serious complications.",
	},
	DiseaseArrhythmia: {
		Description: "Irregular heart rhythm",
		Color:       "bg-red-500",
		Recommendations: []string{
			"Monitor heart rate regularly",
			"Avoid caffeine",
			"Consult cardiologist",
			"Consider ECG monitoring",
		},
		Education: "Arrhythmias can range from harmless to life-threatening. Regular monitoring and medical supervision are essential.",
	},
	DiseaseDiabetesMellitus: {
		Description:     "Blood sugar regulation disorder",
		Color:           "bg-purple-500",
		Recommendations: []string{"Monitor blood glucose", "Follow diabetic diet", "Regular medication", "Check HbA1c quarterly"},
		Education:       "Diabetes management involves lifestyle changes, medication adherence, and regular monitoring to prevent complications.",
	},
	DiseaseFever: {
		Description: "Elevated core body temperature",
		Color:       "bg-red-600",
		Recommendations: []string{
			"Rest and hydrate",
			"Use antipyretics if needed",
			"Monitor temperature every 2-3 hours",
			"Seek medical help if > 39 °C",
		},
		Education: "Fever is the body's response to infection or inflammation; persistent high fever needs evaluation.",
	},
	DiseaseHypothermia: {
		Description: "Core body temperature below 35 °C",
		Color:       "bg-cyan-600",
		Recommendations: []string{
			"Gradual rewarming",
			"Remove wet clothing",
			"Use blankets or warm fluids",
			"Seek emergency care if < 34 °C",
		},
		Education: "Hypothermia can impair heart rhythm and consciousness; rapid rewarming can be dangerous.",
	},
	DiseaseTachycardia: {
		Description: "Resting heart rate above 100 bpm",
		Color:       "bg-orange-500",
		Recommendations: []string{
			"Reduce caffeine & alcohol",
			"Check thyroid function",
			"Practice relaxation techniques",
			"See cardiologist if persistent",
		},
		Education: "Sustained tachycardia increases cardiac workload and may signal underlying disease.",
	},
	DiseaseBradycardia: {
		Description: "Resting heart rate below 60 bpm",
		Color:       "bg-blue-500",
		Recommendations: []string{
			"Review medications",
			"Check electrolytes & thyroid",
			"Monitor for dizziness or syncope",
			"Consider pacemaker evaluation if < 40 bpm",
		},
		Education: "Bradycardia may be normal in athletes or pathological in others.",
	},
	DiseaseHypoxemia: {
		Description: "Low blood-oxygen saturation",
		Color:       "bg-purple-600",
		Recommendations: []string{
			"Administer supplemental O2",
			"Identify and treat underlying cause",
			"Monitor SpO2 continuously",
			"Consider ABG analysis",
		},
		Education: "SpO2 < 90 % indicates significant hypoxemia that can damage organs.",
	},
	DiseaseStage1Hypertension: {
		Description: "Mild high blood pressure (130-139/80-89)",
		Color:       "bg-yellow-400",
		Recommendations: []string{
			"Adopt DASH diet",
			"Limit sodium to < 2 g/day",
			"Exercise 30 min daily",
			"Recheck BP in 1-3 months",
		},
		Education: "Early intervention can prevent progression to more severe hypertension.",
	},
	DiseaseStage2Hypertension: {
		Description: "Moderate-severe high blood pressure (≥140/≥90)",
		Color:       "bg-red-500",
		Recommendations: []string{
			"Start antihypertensive medication",
			"Home BP monitoring twice daily",
			"Lifestyle modification",
			"Cardiology referral",
		},
		Education: "Stage 2 hypertension markedly increases stroke and MI risk.",
	},
	DiseaseObesityClass1: {
		Description: "BMI 30-34.9 kg/m²",
		Color:       "bg-amber-500",
		Recommendations: []string{
			"5-10 % weight-loss goal",
			"Calorie-restricted diet",
			"150 min moderate exercise/week",
			"Bariatric evaluation if comorbid",
		},
		Education: "Even modest weight loss improves BP, lipids, and glycemic control.",
	},
	DiseaseObesityClass2: {
		Description: "BMI 35-39.9 kg/m²",
		Color:       "bg-orange-600",
		Recommendations: []string{
			"Structured weight-loss program",
			"Consider pharmacotherapy",
			"Screen for diabetes & sleep apnea",
			"Bariatric surgery consult",
		},
		Education: "Class 2 obesity significantly raises cardiovascular and metabolic risk.",
	},
	DiseaseUnderweight: {
		Description: "BMI < 18.5 kg/m²",
		Color:       "bg-teal-400",
		Recommendations: []string{
			"Nutritionist consultation",
			"Rule out malabsorption or hyperthyroidism",
			"Strength training & protein increase",
			"Monitor for anemia or osteoporosis",
		},
		Education: "Underweight can impair immunity and increase fracture risk.",
	},
}

type diseaseRule struct {
	disease    Disease
	confidence float64
	when       func(SubjectInput) bool
}

const normalConfidence = 0.85

// diseaseRules is a decision list: the first matching rule wins.
var diseaseRules = []diseaseRule{
	{DiseaseAsthma, 0.92, func(s SubjectInput) bool { return s.SpO2 < 95 && s.HeartRate > 80 }},
	{DiseaseHypertension, 0.89, func(s SubjectInput) bool { return s.SystolicBP >= 140 || s.DiastolicBP >= 90 }},
	{DiseaseArrhythmia, 0.87, func(s SubjectInput) bool { return s.HeartRate < 50 || s.HeartRate > 120 }},
	{DiseaseDiabetesMellitus, 0.84, func(s SubjectInput) bool { return s.Temperature > 37.5 && s.SystolicBP > 130 }},
}

// InferDisease returns the first matching disease label and its fixed
// confidence, or Normal.
func InferDisease(s SubjectInput) (Disease, float64) {
	for _, r := range diseaseRules {
		if r.when(s) {
			return r.disease, r.confidence
		}
	}
	return DiseaseNormal, normalConfidence
}

// LookupDisease returns the education record for d.
func LookupDisease(d Disease) (DiseaseInfo, bool) {
	info, ok := diseaseTable[d]
	return info, ok
}

// MustDiseaseInfo panics when d has no education record: the rule list and the
// table have drifted apart and nothing downstream can recover from that.
func MustDiseaseInfo(d Disease) DiseaseInfo {
	info, ok := diseaseTable[d]
	if !ok {
		panic(fmt.Sprintf("triage: disease %q has no education record", string(d)))
	}
	return info
}
