package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/vitalrisk/internal/history"
	"github.com/Skufu/vitalrisk/internal/triage"
)

func TestHistoryKey(t *testing.T) {
	if got := historyKey("abc"); got != "session:abc:history" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ownerKey("abc"); got != "session:abc:owner" {
		t.Fatalf("unexpected owner key %q", got)
	}
}

func TestNewRedisClient_RejectsBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "http://not-redis"); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}

func TestNewPool_RejectsBadURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "::not a url::", 1, 1); err == nil {
		t.Fatal("expected parse error")
	}
}

// Integration tests run only when a live service is configured.

func TestHistoryMirror_Redis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	m := NewHistoryMirror(client, time.Minute)
	id := uuid.NewString()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		e := history.NewEntry(base.Add(time.Duration(i)*time.Second), triage.PredictionResult{RiskScore: i}, triage.DefaultSubject())
		if err := m.Push(ctx, id, "user-7", e); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	got, err := m.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != history.MaxEntries || got[0].Prediction.RiskScore != 11 {
		t.Fatalf("expected 10 entries newest first, got %d (first %+v)", len(got), got[0].Prediction)
	}
	if ok, err := m.Exists(ctx, id); err != nil || !ok {
		t.Fatalf("expected key to exist, got %v %v", ok, err)
	}
	if owner, err := m.Owner(ctx, id); err != nil || owner != "user-7" {
		t.Fatalf("expected owner user-7, got %q %v", owner, err)
	}

	anon := uuid.NewString()
	if ok, err := m.Exists(ctx, anon); err != nil || ok {
		t.Fatalf("expected no key for a fresh id, got %v %v", ok, err)
	}
	if err := m.Push(ctx, anon, "", got[0]); err != nil {
		t.Fatalf("push: %v", err)
	}
	if owner, err := m.Owner(ctx, anon); err != nil || owner != "" {
		t.Fatalf("expected no owner, got %q %v", owner, err)
	}
}

func TestTrendStore_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, url, 2, 1)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	s := NewTrendStore(pool)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	user := uuid.NewString()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sys := 135
	older := history.TrendRecord{HeartRate: 70, SpO2: 97, Temperature: 36.7, Timestamp: base}
	newer := history.TrendRecord{HeartRate: 110, SpO2: 92, Temperature: 38.1, SystolicBP: &sys, Timestamp: base.Add(time.Hour)}
	for _, r := range []history.TrendRecord{older, newer} {
		if err := s.SaveTrend(ctx, user, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	got, err := s.ListTrends(ctx, user, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].HeartRate != 110 || got[0].SystolicBP == nil || *got[0].SystolicBP != 135 {
		t.Fatalf("unexpected trends: %+v", got)
	}
	if got[1].DiastolicBP != nil {
		t.Fatal("expected NULL diastolic to scan as nil")
	}
}
