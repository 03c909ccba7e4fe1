package history

import (
	"time"

	"github.com/Skufu/vitalrisk/internal/triage"
)

// TrendRecord is the flat reading persisted after each prediction. Blood
// pressure is optional because older records do not carry it.
type TrendRecord struct {
	HeartRate   int       `json:"heartRate"`
	SpO2        int       `json:"spo2"`
	Temperature float64   `json:"temperature"`
	SystolicBP  *int      `json:"systolicBP,omitempty"`
	DiastolicBP *int      `json:"diastolicBP,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func TrendRecordOf(s triage.SubjectInput, at time.Time) TrendRecord {
	return TrendRecord{
		HeartRate:   s.HeartRate,
		SpO2:        s.SpO2,
		Temperature: s.Temperature,
		Timestamp:   at.UTC(),
	}
}

type TrendCounts struct {
	Low      int `json:"Low"`
	Medium   int `json:"Medium"`
	High     int `json:"High"`
	Critical int `json:"Critical"`
}

// TrendDistribution buckets stored records on the profile scale, which is
// separate from both the single-record and batch scales.
func TrendDistribution(records []TrendRecord) TrendCounts {
	var c TrendCounts
	for _, r := range records {
		score := 0
		if r.HeartRate < 60 || r.HeartRate > 100 {
			score += 2
		}
		if r.SpO2 < 94 {
			score += 3
		}
		if r.Temperature < 36 || r.Temperature > 37.5 {
			score += 1
		}
		if (r.SystolicBP != nil && *r.SystolicBP > 130) || (r.DiastolicBP != nil && *r.DiastolicBP > 80) {
			score += 2
		}
		switch {
		case score >= 6:
			c.Critical++
		case score >= 4:
			c.High++
		case score >= 2:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}
