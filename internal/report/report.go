package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/session"
	"github.com/Skufu/vitalrisk/internal/triage"
)

// ErrNoPrediction is returned when a session has nothing to report yet.
var ErrNoPrediction = errors.New("no prediction to report")

// Report is the downloadable JSON document for one prediction.
type Report struct {
	ID                  string                      `json:"reportId"`
	Timestamp           time.Time                   `json:"timestamp"`
	PatientData         triage.SubjectInput         `json:"patientData"`
	Prediction          triage.PredictionResult     `json:"prediction"`
	AISymptoms          *enrich.AISymptoms          `json:"aiSymptoms,omitempty"`
	SymptomAnalysis     *enrich.SymptomAnalysis     `json:"symptomAnalysis,omitempty"`
	MedicalExplanation  *enrich.MedicalExplanation  `json:"medicalExplanation,omitempty"`
	PersonalizedInsight *enrich.PersonalizedInsight `json:"personalizedInsight,omitempty"`
	SymptomEvolution    *enrich.SymptomEvolution    `json:"symptomEvolution,omitempty"`
	Recommendations     []string                    `json:"recommendations"`
}

func Build(at time.Time, subject triage.SubjectInput, p triage.PredictionResult, e session.Enrichment) Report {
	p = p.Clone()
	return Report{
		ID:                  uuid.NewString(),
		Timestamp:           at.UTC(),
		PatientData:         subject.Clone(),
		Prediction:          p,
		AISymptoms:          e.AISymptoms,
		SymptomAnalysis:     e.SymptomAnalysis,
		MedicalExplanation:  e.MedicalExplanation,
		PersonalizedInsight: e.PersonalizedInsight,
		SymptomEvolution:    e.SymptomEvolution,
		Recommendations:     append([]string{}, p.Recommendations...),
	}
}

// FromSession reports the session's latest prediction against its current
// draft, which includes any merged generated symptoms.
func FromSession(s *session.Session, at time.Time) (Report, error) {
	out, ok := s.Latest()
	if !ok {
		return Report{}, ErrNoPrediction
	}
	return Build(at, s.Draft(), out.Assessment.Prediction, s.Enrichment()), nil
}

// Filename is the download name for a report generated at at.
func Filename(at time.Time) string {
	return fmt.Sprintf("ai-medical-report-%d.json", at.UnixMilli())
}

// Write encodes r as two-space indented JSON.
func Write(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
