package triage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type SubjectInput struct {
	HeartRate    int     `json:"heartRate"`
	SpO2         int     `json:"spo2"`
	SystolicBP   int     `json:"systolicBP"`
	DiastolicBP  int     `json:"diastolicBP"`
	Temperature  float64 `json:"temperature"`
	FallDetected bool    `json:"fallDetected"`

	Age    int     `json:"age"`
	Gender Gender  `json:"gender"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`

	Symptoms           []Symptom    `json:"symptoms"`
	MedicalHistory     []Condition  `json:"medicalHistory"`
	CurrentMedications []Medication `json:"currentMedications"`
}

// DefaultSubject is the form baseline a new session starts from.
func DefaultSubject() SubjectInput {
	return SubjectInput{
		HeartRate:   75,
		SpO2:        98,
		SystolicBP:  120,
		DiastolicBP: 80,
		Temperature: 36.8,
		Age:         45,
		Gender:      GenderMale,
		Weight:      70,
		Height:      170,
	}
}

// Normalize clamps numeric fields to their non-negative baseline, defaults the
// gender and de-duplicates the catalog selections. Unknown selections are
// rejected with ErrUnknownSelection.
func (s *SubjectInput) Normalize() error {
	s.HeartRate = clampInt(s.HeartRate)
	s.SpO2 = clampInt(s.SpO2)
	s.SystolicBP = clampInt(s.SystolicBP)
	s.DiastolicBP = clampInt(s.DiastolicBP)
	s.Age = clampInt(s.Age)
	s.Temperature = clampFloat(s.Temperature)
	s.Weight = clampFloat(s.Weight)
	s.Height = clampFloat(s.Height)

	switch s.Gender {
	case GenderMale, GenderFemale, GenderOther:
	case "":
		s.Gender = GenderMale
	default:
		return fmt.Errorf("gender %q: %w", string(s.Gender), ErrUnknownSelection)
	}

	var err error
	if s.Symptoms, err = dedupe("symptom", s.Symptoms, knownSymptoms); err != nil {
		return err
	}
	if s.MedicalHistory, err = dedupe("medical history", s.MedicalHistory, knownConditions); err != nil {
		return err
	}
	if s.CurrentMedications, err = dedupe("medication", s.CurrentMedications, knownMedications); err != nil {
		return err
	}
	return nil
}

// SetSymptom toggles a symptom the way a checkbox does.
func (s *SubjectInput) SetSymptom(sym Symptom, checked bool) error {
	if !sym.Valid() {
		return fmt.Errorf("symptom %q: %w", string(sym), ErrUnknownSelection)
	}
	if checked {
		if !contains(s.Symptoms, sym) {
			s.Symptoms = append(s.Symptoms, sym)
		}
		return nil
	}
	s.Symptoms = without(s.Symptoms, sym)
	return nil
}

func (s *SubjectInput) SetCondition(c Condition, checked bool) error {
	if !c.Valid() {
		return fmt.Errorf("medical history %q: %w", string(c), ErrUnknownSelection)
	}
	if checked {
		if !contains(s.MedicalHistory, c) {
			s.MedicalHistory = append(s.MedicalHistory, c)
		}
		return nil
	}
	s.MedicalHistory = without(s.MedicalHistory, c)
	return nil
}

func (s *SubjectInput) SetMedication(m Medication, checked bool) error {
	if !m.Valid() {
		return fmt.Errorf("medication %q: %w", string(m), ErrUnknownSelection)
	}
	if checked {
		if !contains(s.CurrentMedications, m) {
			s.CurrentMedications = append(s.CurrentMedications, m)
		}
		return nil
	}
	s.CurrentMedications = without(s.CurrentMedications, m)
	return nil
}

func (s *SubjectInput) HasSymptom(sym Symptom) bool     { return contains(s.Symptoms, sym) }
func (s *SubjectInput) HasCondition(c Condition) bool   { return contains(s.MedicalHistory, c) }
func (s *SubjectInput) HasMedication(m Medication) bool { return contains(s.CurrentMedications, m) }

// Clone returns a deep copy suitable for history snapshots.
func (s SubjectInput) Clone() SubjectInput {
	out := s
	out.Symptoms = append([]Symptom(nil), s.Symptoms...)
	out.MedicalHistory = append([]Condition(nil), s.MedicalHistory...)
	out.CurrentMedications = append([]Medication(nil), s.CurrentMedications...)
	return out
}

// CoerceInt parses manually entered text. Malformed or negative input becomes 0.
func CoerceInt(text string) int {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		return clampInt(n)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clampInt(int(f))
}

// CoerceFloat parses manually entered text. Malformed or negative input becomes 0.
func CoerceFloat(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return clampFloat(f)
}

// SubjectFromFields builds a subject from text form fields, keyed by the JSON
// field names. Missing fields keep the DefaultSubject baseline.
func SubjectFromFields(fields map[string]string) SubjectInput {
	s := DefaultSubject()
	ints := map[string]*int{
		"heartRate":   &s.HeartRate,
		"spo2":        &s.SpO2,
		"systolicBP":  &s.SystolicBP,
		"diastolicBP": &s.DiastolicBP,
		"age":         &s.Age,
	}
	for key, dst := range ints {
		if v, ok := fields[key]; ok {
			*dst = CoerceInt(v)
		}
	}
	floats := map[string]*float64{
		"temperature": &s.Temperature,
		"weight":      &s.Weight,
		"height":      &s.Height,
	}
	for key, dst := range floats {
		if v, ok := fields[key]; ok {
			*dst = CoerceFloat(v)
		}
	}
	if v, ok := fields["fallDetected"]; ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1":
			s.FallDetected = true
		default:
			s.FallDetected = false
		}
	}
	if v, ok := fields["gender"]; ok {
		s.Gender = Gender(strings.ToLower(strings.TrimSpace(v)))
	}
	return s
}

func clampInt(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clampFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
