package batch

import "math"

type Summary struct {
	TotalPatients  int            `json:"totalPatients"`
	EmergencyCount int            `json:"emergencyCount"`
	AvgHeartRate   float64        `json:"avgHeartRate"`
	AvgSpO2        float64        `json:"avgSpO2"`
	AvgTemp        float64        `json:"avgTemp"`
	TopDiseases    map[string]int `json:"topDiseases"`
	DiseaseOrder   []string       `json:"diseaseOrder"`
}

// Summarize aggregates rows. NaN readings are left out of both the sum and
// the count of their average.
func Summarize(rows []Row) Summary {
	s := Summary{
		TotalPatients: len(rows),
		TopDiseases:   map[string]int{},
		DiseaseOrder:  []string{},
	}
	if len(rows) == 0 {
		return s
	}

	var hr, spo2, temp mean
	for _, r := range rows {
		hr.add(r.HeartRate)
		spo2.add(r.SpO2)
		temp.add(r.Temperature)
		if r.EmergencyAlert {
			s.EmergencyCount++
		}
		if _, seen := s.TopDiseases[r.Disease]; !seen {
			s.DiseaseOrder = append(s.DiseaseOrder, r.Disease)
		}
		s.TopDiseases[r.Disease]++
	}

	s.AvgHeartRate = roundHalfUp(hr.value())
	s.AvgSpO2 = roundHalfUp(spo2.value())
	s.AvgTemp = math.Round(temp.value()*10) / 10
	return s
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Analysis is everything a batch upload produces.
type Analysis struct {
	Rows       []Row      `json:"rows"`
	Summary    Summary    `json:"summary"`
	RiskCounts RiskCounts `json:"riskCounts"`
}

func Analyze(rows []Row) Analysis {
	return Analysis{
		Rows:       rows,
		Summary:    Summarize(rows),
		RiskCounts: CountRiskLevels(rows),
	}
}
