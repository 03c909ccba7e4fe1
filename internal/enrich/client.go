package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrDisabled is returned by every call when no enrichment service is configured.
var ErrDisabled = errors.New("enrichment disabled")

// Enricher produces the free-text payloads shown next to a prediction.
type Enricher interface {
	GenerateSymptoms(ctx context.Context, req SymptomsRequest) (*AISymptoms, error)
	AnalyzeSymptoms(ctx context.Context, req AnalysisRequest) (*SymptomAnalysis, error)
	ExplainDisease(ctx context.Context, req ExplanationRequest) (*MedicalExplanation, error)
	PersonalizedInsight(ctx context.Context, req InsightRequest) (*PersonalizedInsight, error)
	SymptomEvolution(ctx context.Context, req EvolutionRequest) (*SymptomEvolution, error)
}

// StatusError reports a non-2xx answer from the service.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("enrich %s: non-2xx response: %d", e.Path, e.Code)
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithAPIKey(key string) Option {
	return func(cl *Client) { cl.apiKey = key }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// New returns a Client for baseURL, or a disabled Enricher when baseURL is empty.
func New(baseURL string, log zerolog.Logger, opts ...Option) Enricher {
	if strings.TrimSpace(baseURL) == "" {
		return Disabled{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
		log:        log.With().Str("component", "enrich").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) GenerateSymptoms(ctx context.Context, req SymptomsRequest) (*AISymptoms, error) {
	var out AISymptoms
	if err := c.post(ctx, "/api/generate-symptoms", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyzeSymptoms(ctx context.Context, req AnalysisRequest) (*SymptomAnalysis, error) {
	var out SymptomAnalysis
	if err := c.post(ctx, "/api/analyze-symptoms", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExplainDisease(ctx context.Context, req ExplanationRequest) (*MedicalExplanation, error) {
	var out MedicalExplanation
	if err := c.post(ctx, "/api/medical-explanation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PersonalizedInsight(ctx context.Context, req InsightRequest) (*PersonalizedInsight, error) {
	var out PersonalizedInsight
	if err := c.post(ctx, "/api/personalized-insight", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SymptomEvolution(ctx context.Context, req EvolutionRequest) (*SymptomEvolution, error) {
	var out SymptomEvolution
	if err := c.post(ctx, "/api/symptom-evolution", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("enrichment call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Path: path, Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Disabled answers every call with ErrDisabled.
type Disabled struct{}

func (Disabled) GenerateSymptoms(context.Context, SymptomsRequest) (*AISymptoms, error) {
	return nil, ErrDisabled
}

func (Disabled) AnalyzeSymptoms(context.Context, AnalysisRequest) (*SymptomAnalysis, error) {
	return nil, ErrDisabled
}

func (Disabled) ExplainDisease(context.Context, ExplanationRequest) (*MedicalExplanation, error) {
	return nil, ErrDisabled
}

func (Disabled) PersonalizedInsight(context.Context, InsightRequest) (*PersonalizedInsight, error) {
	return nil, ErrDisabled
}

func (Disabled) SymptomEvolution(context.Context, EvolutionRequest) (*SymptomEvolution, error) {
	return nil, ErrDisabled
}
