package history

import (
	"fmt"
	"math"

	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/triage"
)

// MinEvolutionEntries is the history depth an evolution needs.
const MinEvolutionEntries = 2

// trendMargin is how far the current score must move from the past mean
// before the trend leaves Stable.
const trendMargin = 5.0

// Evolution compares current against the past entries. It reports false,
// and does nothing, when fewer than MinEvolutionEntries past entries exist.
func Evolution(current triage.PredictionResult, past []Entry) (enrich.SymptomEvolution, bool) {
	if len(past) < MinEvolutionEntries {
		return enrich.SymptomEvolution{}, false
	}

	var sum float64
	for _, e := range past {
		sum += float64(e.Prediction.RiskScore)
	}
	mean := sum / float64(len(past))
	delta := float64(current.RiskScore) - mean

	trend := enrich.TrendStable
	switch {
	case delta <= -trendMargin:
		trend = enrich.TrendImproving
	case delta >= trendMargin:
		trend = enrich.TrendWorsening
	}

	return enrich.SymptomEvolution{
		Changes: fmt.Sprintf("Risk score %d against an average of %.1f over the last %d assessments (%+.1f)",
			current.RiskScore, mean, len(past), roundOne(delta)),
		Trend:       trend,
		UpdatedRisk: string(current.RiskLevel),
	}, true
}

// EvolutionRequest builds the payload for the remote evolution service.
// Past vitals are passed through as recorded.
func EvolutionRequest(current triage.SubjectInput, past []Entry) enrich.EvolutionRequest {
	req := enrich.EvolutionRequest{
		CurrentSymptoms: append([]triage.Symptom{}, current.Symptoms...),
		PastSymptoms:    []triage.Symptom{},
		CurrentVitals:   enrich.VitalsOf(current),
		PastVitals:      make([]triage.SubjectInput, 0, len(past)),
	}
	for _, e := range past {
		req.PastSymptoms = append(req.PastSymptoms, e.Vitals.Symptoms...)
		req.PastVitals = append(req.PastVitals, e.Vitals)
	}
	return req
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
