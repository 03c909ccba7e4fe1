package triage

var (
	emergencyRecommendations = []string{"Seek immediate medical attention", "Call emergency services"}
	highRiskRecommendations  = []string{"Schedule urgent medical consultation"}
)

// ComposeRecommendations appends score-conditioned advice to the disease
// baseline. Nothing is de-duplicated.
func ComposeRecommendations(d Disease, emergency bool, level RiskLevel) []string {
	base := MustDiseaseInfo(d).Recommendations
	out := make([]string, 0, len(base)+len(emergencyRecommendations)+len(highRiskRecommendations))
	out = append(out, base...)
	if emergency {
		out = append(out, emergencyRecommendations...)
	}
	if level == RiskHigh {
		out = append(out, highRiskRecommendations...)
	}
	return out
}
