package triage

import (
	"fmt"
	"math"
	"strconv"
)

var scheduleHints = map[Medication]string{
	MedAspirin:             "Take in the morning, with food",
	MedMetformin:           "Take in the morning and evening, with meals",
	MedLisinopril:          "Take once daily in the morning",
	MedAtorvastatin:        "Take in the evening or at bedtime",
	MedAmlodipine:          "Take at the same time daily",
	MedMetoprolol:          "Take with or immediately after meals",
	MedOmeprazole:          "Take before breakfast, empty stomach",
	MedAlbuterol:           "Use as needed for breathing issues",
	MedInsulin:             "Use as prescribed, based on meals/blood sugar",
	MedWarfarin:            "Take at the same time each day, monitor INR",
	MedLevothyroxine:       "Take in the morning, empty stomach, 30 min before food",
	MedGabapentin:          "Take at bedtime, may cause drowsiness",
	MedHydrochlorothiazide: "Take in the morning to avoid nighttime urination",
	MedPrednisone:          "Take in the morning, with food",
}

// MedicationSchedule returns one timing line per medication, in input order.
func MedicationSchedule(meds []Medication) []string {
	out := make([]string, 0, len(meds))
	for _, m := range meds {
		hint, ok := scheduleHints[m]
		if !ok {
			hint = "Take as prescribed"
		}
		out = append(out, fmt.Sprintf("%s: %s", m, hint))
	}
	return out
}

type populationAverage struct {
	male, female float64
	rangeLabel   string
}

var populationAverages = map[Vital]populationAverage{
	VitalHeartRate:   {72, 76, "60-100"},
	VitalSpO2:        {97, 97, "95-100"},
	VitalSystolicBP:  {120, 118, "100-120"},
	VitalDiastolicBP: {80, 78, "60-80"},
	VitalTemperature: {36.8, 36.9, "36.5-37.2"},
}

type PopulationComparison struct {
	Average    float64 `json:"average"`
	Range      string  `json:"range"`
	Difference float64 `json:"difference"`
	IsHigher   bool    `json:"isHigher"`
	Status     string  `json:"status"`
}

// ComparePopulation compares a reading against the gender-specific population
// average. Anything other than male uses the female average.
func ComparePopulation(v Vital, value float64, g Gender) (PopulationComparison, bool) {
	pop, ok := populationAverages[v]
	if !ok {
		return PopulationComparison{}, false
	}
	avg := pop.female
	if g == GenderMale {
		avg = pop.male
	}
	diff := roundTo((value-avg)/avg*100, 1)
	cmp := PopulationComparison{
		Average:    avg,
		Range:      pop.rangeLabel,
		Difference: diff,
		IsHigher:   value > avg,
	}
	switch {
	case math.Abs(diff) < 10:
		cmp.Status = "Similar"
	case cmp.IsHigher:
		cmp.Status = "Above"
	default:
		cmp.Status = "Below"
	}
	return cmp, true
}

func roundTo(v float64, places int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return f
}
