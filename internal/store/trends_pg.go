package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Skufu/vitalrisk/internal/history"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// DefaultTrendLimit caps ListTrends when the caller passes no limit.
const DefaultTrendLimit = 50

const trendSchema = `
CREATE TABLE IF NOT EXISTS vital_trends (
	id           UUID PRIMARY KEY,
	user_id      TEXT NOT NULL,
	heart_rate   INTEGER NOT NULL,
	spo2         INTEGER NOT NULL,
	temperature  DOUBLE PRECISION NOT NULL,
	systolic_bp  INTEGER,
	diastolic_bp INTEGER,
	recorded_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vital_trends_user_recorded_idx ON vital_trends (user_id, recorded_at DESC);
`

type TrendStore struct {
	db queryable
}

func NewTrendStore(db queryable) *TrendStore {
	return &TrendStore{db: db}
}

// Migrate creates the trend table when it does not exist.
func (s *TrendStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, trendSchema); err != nil {
		return fmt.Errorf("migrate vital_trends: %w", err)
	}
	return nil
}

func (s *TrendStore) SaveTrend(ctx context.Context, userID string, r history.TrendRecord) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vital_trends (id, user_id, heart_rate, spo2, temperature, systolic_bp, diastolic_bp, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), userID, r.HeartRate, r.SpO2, r.Temperature, r.SystolicBP, r.DiastolicBP, r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert trend: %w", err)
	}
	return nil
}

// ListTrends returns the most recent records for userID, newest first.
func (s *TrendStore) ListTrends(ctx context.Context, userID string, limit int) ([]history.TrendRecord, error) {
	if limit <= 0 {
		limit = DefaultTrendLimit
	}
	rows, err := s.db.Query(ctx, `
		SELECT heart_rate, spo2, temperature, systolic_bp, diastolic_bp, recorded_at
		FROM vital_trends
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	out := []history.TrendRecord{}
	for rows.Next() {
		var r history.TrendRecord
		if err := rows.Scan(&r.HeartRate, &r.SpO2, &r.Temperature, &r.SystolicBP, &r.DiastolicBP, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
