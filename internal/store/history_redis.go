package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skufu/vitalrisk/internal/history"
)

func historyKey(sessionID string) string {
	return fmt.Sprintf("session:%s:history", sessionID)
}

func ownerKey(sessionID string) string {
	return fmt.Sprintf("session:%s:owner", sessionID)
}

// HistoryMirror keeps a copy of each session's history log in Redis so a
// restarted process can restore it.
type HistoryMirror struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewHistoryMirror(client redis.Cmdable, ttl time.Duration) *HistoryMirror {
	return &HistoryMirror{client: client, ttl: ttl}
}

// Push prepends e and trims the list to history.MaxEntries. A non-empty
// userID is stored alongside so a restored session keeps its owner.
func (m *HistoryMirror) Push(ctx context.Context, sessionID, userID string, e history.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := historyKey(sessionID)
	pipe := m.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, history.MaxEntries-1)
	if m.ttl > 0 {
		pipe.Expire(ctx, key, m.ttl)
	}
	if userID != "" {
		pipe.Set(ctx, ownerKey(sessionID), userID, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

// Load returns the stored entries, most recent first. A missing key is an
// empty history.
func (m *HistoryMirror) Load(ctx context.Context, sessionID string) ([]history.Entry, error) {
	raw, err := m.client.LRange(ctx, historyKey(sessionID), 0, history.MaxEntries-1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]history.Entry, 0, len(raw))
	for _, item := range raw {
		var e history.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("unmarshal history entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Exists reports whether a history is stored for sessionID.
func (m *HistoryMirror) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := m.client.Exists(ctx, historyKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check history: %w", err)
	}
	return n > 0, nil
}

// Owner returns the user id stored by Push, or "" for an anonymous session.
func (m *HistoryMirror) Owner(ctx context.Context, sessionID string) (string, error) {
	userID, err := m.client.Get(ctx, ownerKey(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load owner: %w", err)
	}
	return userID, nil
}
