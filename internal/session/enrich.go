package session

import (
	"context"
	"errors"
	"time"

	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/history"
	"github.com/Skufu/vitalrisk/internal/triage"
)

// enrich starts the enrichment calls a prediction qualifies for. Each call
// runs on its own goroutine and applies its result only if gen is current.
func (s *Session) enrich(gen uint64, in triage.SubjectInput, p triage.PredictionResult, past []history.Entry, at time.Time) {
	e := s.deps.Enricher
	vitals := enrich.VitalsOf(in)
	demo := enrich.Demographics{Age: in.Age, Gender: in.Gender}

	if p.Disease != triage.DiseaseNormal {
		s.background(func(ctx context.Context) {
			out, err := e.GenerateSymptoms(ctx, enrich.SymptomsRequest{Disease: p.Disease, Vitals: vitals, Demographics: demo})
			if !s.ok(err, "generate symptoms") {
				return
			}
			s.apply(gen, "aiSymptoms", func() {
				s.enrichment.AISymptoms = out
				s.history.AttachSymptoms(at, out)
				s.mergeSymptoms(out)
			})
		})
		s.background(func(ctx context.Context) {
			out, err := e.ExplainDisease(ctx, enrich.ExplanationRequest{Disease: p.Disease, Symptoms: in.Symptoms, Vitals: vitals})
			if !s.ok(err, "medical explanation") {
				return
			}
			s.apply(gen, "medicalExplanation", func() { s.enrichment.MedicalExplanation = out })
		})
		s.background(func(ctx context.Context) {
			full := demo
			full.Weight, full.Height = in.Weight, in.Height
			out, err := e.PersonalizedInsight(ctx, enrich.InsightRequest{
				Vitals:         vitals,
				Demographics:   full,
				MedicalHistory: in.MedicalHistory,
				Symptoms:       in.Symptoms,
			})
			if !s.ok(err, "personalized insight") {
				return
			}
			s.apply(gen, "personalizedInsight", func() { s.enrichment.PersonalizedInsight = out })
		})
	}

	if len(in.Symptoms) == 0 {
		return
	}
	s.background(func(ctx context.Context) {
		analysis, err := e.AnalyzeSymptoms(ctx, enrich.AnalysisRequest{Symptoms: in.Symptoms, Vitals: vitals, Demographics: demo})
		if !s.ok(err, "analyze symptoms") {
			return
		}
		if !s.apply(gen, "symptomAnalysis", func() { s.enrichment.SymptomAnalysis = analysis }) {
			return
		}
		if len(past) < history.MinEvolutionEntries {
			return
		}
		ev, err := e.SymptomEvolution(ctx, history.EvolutionRequest(in, past))
		if !s.ok(err, "symptom evolution") {
			return
		}
		s.apply(gen, "symptomEvolution", func() { s.enrichment.SymptomEvolution = ev })
	})
}

func (s *Session) ok(err error, what string) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, enrich.ErrDisabled) {
		s.log.Warn().Err(err).Str("call", what).Msg("enrichment failed")
	}
	return false
}

// mergeSymptoms adds generated symptoms that exist in the catalog to the
// draft. Caller holds s.mu.
func (s *Session) mergeSymptoms(out *enrich.AISymptoms) {
	if out == nil {
		return
	}
	names := append(append([]string{}, out.PrimarySymptoms...), out.SecondarySymptoms...)
	for _, name := range names {
		sym := triage.Symptom(name)
		if sym.Valid() {
			_ = s.draft.SetSymptom(sym, true)
		}
	}
}
