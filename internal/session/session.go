package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skufu/vitalrisk/internal/alerts"
	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/history"
	"github.com/Skufu/vitalrisk/internal/triage"
)

type TrendSink interface {
	SaveTrend(ctx context.Context, userID string, r history.TrendRecord) error
}

type HistoryMirror interface {
	Push(ctx context.Context, sessionID, userID string, e history.Entry) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Load(ctx context.Context, sessionID string) ([]history.Entry, error)
	Owner(ctx context.Context, sessionID string) (string, error)
}

type AlertPublisher interface {
	Publish(a alerts.Alert)
}

// Deps are the collaborators shared by every session. Nil collaborators are
// skipped.
type Deps struct {
	Enricher enrich.Enricher
	Mirror   HistoryMirror
	Trends   TrendSink
	Alerts   AlertPublisher
	Log      zerolog.Logger
	Timeout  time.Duration
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return 20 * time.Second
}

// Enrichment holds the latest payload of each enrichment call. Fields stay
// nil until their call succeeds.
type Enrichment struct {
	AISymptoms          *enrich.AISymptoms          `json:"aiSymptoms,omitempty"`
	SymptomAnalysis     *enrich.SymptomAnalysis     `json:"symptomAnalysis,omitempty"`
	MedicalExplanation  *enrich.MedicalExplanation  `json:"medicalExplanation,omitempty"`
	PersonalizedInsight *enrich.PersonalizedInsight `json:"personalizedInsight,omitempty"`
	SymptomEvolution    *enrich.SymptomEvolution    `json:"symptomEvolution,omitempty"`
}

// Outcome is what Predict returns before any enrichment resolves.
type Outcome struct {
	SessionID  string                   `json:"sessionId"`
	Generation uint64                   `json:"generation"`
	Assessment triage.Assessment        `json:"assessment"`
	Evolution  *enrich.SymptomEvolution `json:"evolution,omitempty"`
	Timestamp  time.Time                `json:"timestamp"`
}

// Session is one subject's working state: the draft input, the history log
// and the enrichment of the latest prediction.
type Session struct {
	ID     string
	UserID string

	deps Deps
	log  zerolog.Logger
	wg   sync.WaitGroup

	mu         sync.Mutex
	draft      triage.SubjectInput
	history    *history.Log
	latest     *Outcome
	enrichment Enrichment
	generation uint64
}

func newSession(id, userID string, deps Deps, restored []history.Entry) *Session {
	return &Session{
		ID:      id,
		UserID:  userID,
		deps:    deps,
		log:     deps.Log.With().Str("session_id", id).Logger(),
		draft:   triage.DefaultSubject(),
		history: history.Restore(restored),
	}
}

func (s *Session) Draft() triage.SubjectInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SetDraft replaces the draft after validating it.
func (s *Session) SetDraft(in triage.SubjectInput) error {
	if err := in.Normalize(); err != nil {
		return err
	}
	s.mu.Lock()
	s.draft = in.Clone()
	s.mu.Unlock()
	return nil
}

// Predict scores in, records it and returns immediately. Enrichment,
// persistence and the emergency push run in the background; results from an
// older generation are discarded when they arrive.
func (s *Session) Predict(in triage.SubjectInput) (Outcome, error) {
	if err := in.Normalize(); err != nil {
		return Outcome{}, err
	}
	at := s.deps.now().UTC()
	assessment := triage.Assess(in)
	entry := history.NewEntry(at, assessment.Prediction, in)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	past := s.history.Entries()
	s.history.Record(entry)
	s.draft = in.Clone()
	s.enrichment = Enrichment{}
	out := Outcome{
		SessionID:  s.ID,
		Generation: gen,
		Assessment: assessment,
		Timestamp:  at,
	}
	if ev, ok := history.Evolution(assessment.Prediction, past); ok {
		out.Evolution = &ev
		s.enrichment.SymptomEvolution = &ev
	}
	s.latest = &out
	s.mu.Unlock()

	s.log.Info().
		Uint64("generation", gen).
		Str("disease", string(assessment.Prediction.Disease)).
		Str("risk_level", string(assessment.Prediction.RiskLevel)).
		Int("risk_score", assessment.Prediction.RiskScore).
		Bool("emergency", assessment.Prediction.EmergencyAlert).
		Msg("prediction recorded")

	s.background(func(ctx context.Context) { s.persist(ctx, entry) })
	if assessment.Prediction.EmergencyAlert && s.deps.Alerts != nil {
		s.deps.Alerts.Publish(alerts.NewEmergency(s.ID, assessment.Prediction, at))
	}
	if s.deps.Enricher != nil {
		s.enrich(gen, in, assessment.Prediction, past, at)
	}
	return out, nil
}

func (s *Session) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.deps.timeout())
		defer cancel()
		fn(ctx)
	}()
}

func (s *Session) persist(ctx context.Context, entry history.Entry) {
	if s.deps.Mirror != nil {
		if err := s.deps.Mirror.Push(ctx, s.ID, s.UserID, entry); err != nil {
			s.log.Warn().Err(err).Msg("mirror history")
		}
	}
	if s.deps.Trends != nil && s.UserID != "" {
		if err := s.deps.Trends.SaveTrend(ctx, s.UserID, history.TrendRecordOf(entry.Vitals, entry.Timestamp)); err != nil {
			s.log.Warn().Err(err).Msg("save trend")
		}
	}
}

// apply runs fn under the lock only if gen is still current.
func (s *Session) apply(gen uint64, what string, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.log.Debug().Uint64("generation", gen).Uint64("current", s.generation).Str("payload", what).Msg("dropping stale enrichment")
		return false
	}
	fn()
	return true
}

// Wait blocks until all background work started so far has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

func (s *Session) Distribution() history.Distribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Distribution()
}

func (s *Session) Enrichment() Enrichment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enrichment
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Latest returns the most recent outcome, if any prediction was made.
func (s *Session) Latest() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Outcome{}, false
	}
	return *s.latest, true
}

// Evolution returns the current symptom evolution, remote or computed.
func (s *Session) Evolution() (enrich.SymptomEvolution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enrichment.SymptomEvolution == nil {
		return enrich.SymptomEvolution{}, false
	}
	return *s.enrichment.SymptomEvolution, true
}
