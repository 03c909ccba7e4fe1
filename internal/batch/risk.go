package batch

import "github.com/Skufu/vitalrisk/internal/triage"

type points struct {
	severe, mild int
}

// RiskLevel buckets a row on the batch scale. NaN compares false everywhere
// and therefore contributes nothing.
func RiskLevel(r Row) string {
	score := 0
	score += band(r.HeartRate < 50 || r.HeartRate > 130, r.HeartRate < 60 || r.HeartRate > 100, points{4, 2})
	score += band(r.SpO2 < 90, r.SpO2 < 94, points{4, 2})
	score += band(r.Temperature > 39 || r.Temperature < 35, r.Temperature > 37.5 || r.Temperature < 36, points{3, 1})
	score += band(r.SystolicBP > 160 || r.DiastolicBP > 100, r.SystolicBP > 140 || r.DiastolicBP > 90, points{3, 1})
	if r.Disease != string(triage.DiseaseNormal) {
		score += 2
	}

	switch {
	case score >= 9:
		return string(triage.RiskCritical)
	case score >= 7:
		return string(triage.RiskHigh)
	case score > 4:
		return string(triage.RiskMedium)
	default:
		return string(triage.RiskLow)
	}
}

func band(severe, mild bool, p points) int {
	switch {
	case severe:
		return p.severe
	case mild:
		return p.mild
	}
	return 0
}

// RiskCounts holds one bucket per risk level.
type RiskCounts struct {
	Low      int `json:"Low"`
	Medium   int `json:"Medium"`
	High     int `json:"High"`
	Critical int `json:"Critical"`
}

// CountRiskLevels counts rows per level. Labels other than the four known
// levels are dropped.
func CountRiskLevels(rows []Row) RiskCounts {
	var c RiskCounts
	for _, r := range rows {
		switch triage.RiskLevel(r.RiskLevel) {
		case triage.RiskLow:
			c.Low++
		case triage.RiskMedium:
			c.Medium++
		case triage.RiskHigh:
			c.High++
		case triage.RiskCritical:
			c.Critical++
		}
	}
	return c
}
