package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skufu/vitalrisk/internal/triage"
)

func TestNew_EmptyURLIsDisabled(t *testing.T) {
	e := New("  ", zerolog.Nop())
	if _, ok := e.(Disabled); !ok {
		t.Fatalf("expected Disabled, got %T", e)
	}
	if _, err := e.GenerateSymptoms(context.Background(), SymptomsRequest{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestClient_GenerateSymptoms(t *testing.T) {
	var got SymptomsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-symptoms" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"primarySymptoms":["Wheezing"],"secondarySymptoms":["Cough"],"explanation":"x","severity":"moderate","recommendations":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", zerolog.Nop(), WithAPIKey("secret"))
	s := triage.DefaultSubject()
	s.SpO2 = 90
	out, err := c.GenerateSymptoms(context.Background(), SymptomsRequest{
		Disease:      triage.DiseaseAsthma,
		Vitals:       VitalsOf(s),
		Demographics: Demographics{Age: s.Age, Gender: s.Gender},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out.PrimarySymptoms) != 1 || out.PrimarySymptoms[0] != "Wheezing" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if got.Disease != triage.DiseaseAsthma || got.Vitals.SpO2 != 90 {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.AnalyzeSymptoms(context.Background(), AnalysisRequest{Symptoms: []triage.Symptom{triage.SymptomCough}})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Fatalf("expected StatusError 429, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop(), WithTimeout(50*time.Millisecond))
	if _, err := c.ExplainDisease(context.Background(), ExplanationRequest{}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClient_DecodesEvolution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"changes":"better","trend":"Improving","updatedRisk":"Low"}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL, zerolog.Nop()).SymptomEvolution(context.Background(), EvolutionRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Trend != TrendImproving || out.UpdatedRisk != "Low" {
		t.Fatalf("unexpected evolution: %+v", out)
	}
}
