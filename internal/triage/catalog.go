package triage

import (
	"errors"
	"fmt"
)

// ErrUnknownSelection is returned when a symptom, condition or medication is
// not part of the fixed catalogs.
var ErrUnknownSelection = errors.New("unknown catalog selection")

type Symptom string

const (
	SymptomChestPain         Symptom = "Chest Pain"
	SymptomShortnessOfBreath Symptom = "Shortness of Breath"
	SymptomDizziness         Symptom = "Dizziness"
	SymptomFatigue           Symptom = "Fatigue"
	SymptomNausea            Symptom = "Nausea"
	SymptomHeadache          Symptom = "Headache"
	SymptomPalpitations      Symptom = "Palpitations"
	SymptomSweating          Symptom = "Sweating"
	SymptomConfusion         Symptom = "Confusion"
	SymptomWeakness          Symptom = "Weakness"
	SymptomCough             Symptom = "Cough"
	SymptomFever             Symptom = "Fever"
	SymptomJointPain         Symptom = "Joint Pain"
	SymptomMuscleAches       Symptom = "Muscle Aches"
	SymptomVisionChanges     Symptom = "Vision Changes"
)

type Condition string

const (
	ConditionDiabetes       Condition = "Diabetes"
	ConditionHypertension   Condition = "Hypertension"
	ConditionHeartDisease   Condition = "Heart Disease"
	ConditionAsthma         Condition = "Asthma"
	ConditionCOPD           Condition = "COPD"
	ConditionStroke         Condition = "Stroke"
	ConditionCancer         Condition = "Cancer"
	ConditionKidneyDisease  Condition = "Kidney Disease"
	ConditionLiverDisease   Condition = "Liver Disease"
	ConditionDepression     Condition = "Depression"
	ConditionAnxiety        Condition = "Anxiety"
	ConditionArthritis      Condition = "Arthritis"
	ConditionOsteoporosis   Condition = "Osteoporosis"
	ConditionThyroidDisease Condition = "Thyroid Disease"
)

type Medication string

const (
	MedAspirin             Medication = "Aspirin"
	MedMetformin           Medication = "Metformin"
	MedLisinopril          Medication = "Lisinopril"
	MedAtorvastatin        Medication = "Atorvastatin"
	MedAmlodipine          Medication = "Amlodipine"
	MedMetoprolol          Medication = "Metoprolol"
	MedOmeprazole          Medication = "Omeprazole"
	MedAlbuterol           Medication = "Albuterol"
	MedInsulin             Medication = "Insulin"
	MedWarfarin            Medication = "Warfarin"
	MedLevothyroxine       Medication = "Levothyroxine"
	MedGabapentin          Medication = "Gabapentin"
	MedHydrochlorothiazide Medication = "Hydrochlorothiazide"
	MedPrednisone          Medication = "Prednisone"
)

// Catalog order is the display order of the selection lists.
var (
	SymptomCatalog = []Symptom{
		SymptomChestPain, SymptomShortnessOfBreath, SymptomDizziness, SymptomFatigue,
		SymptomNausea, SymptomHeadache, SymptomPalpitations, SymptomSweating,
		SymptomConfusion, SymptomWeakness, SymptomCough, SymptomFever,
		SymptomJointPain, SymptomMuscleAches, SymptomVisionChanges,
	}
	ConditionCatalog = []Condition{
		ConditionDiabetes, ConditionHypertension, ConditionHeartDisease, ConditionAsthma,
		ConditionCOPD, ConditionStroke, ConditionCancer, ConditionKidneyDisease,
		ConditionLiverDisease, ConditionDepression, ConditionAnxiety, ConditionArthritis,
		ConditionOsteoporosis, ConditionThyroidDisease,
	}
	MedicationCatalog = []Medication{
		MedAspirin, MedMetformin, MedLisinopril, MedAtorvastatin, MedAmlodipine,
		MedMetoprolol, MedOmeprazole, MedAlbuterol, MedInsulin, MedWarfarin,
		MedLevothyroxine, MedGabapentin, MedHydrochlorothiazide, MedPrednisone,
	}
)

var (
	knownSymptoms    = toSet(SymptomCatalog)
	knownConditions  = toSet(ConditionCatalog)
	knownMedications = toSet(MedicationCatalog)
)

func (s Symptom) Valid() bool    { return knownSymptoms[s] }
func (c Condition) Valid() bool  { return knownConditions[c] }
func (m Medication) Valid() bool { return knownMedications[m] }

func toSet[T comparable](values []T) map[T]bool {
	out := make(map[T]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

// dedupe keeps the first occurrence of every value and rejects anything the
// catalog does not know.
func dedupe[T ~string](kind string, values []T, known map[T]bool) ([]T, error) {
	if len(values) == 0 {
		return nil, nil
	}
	seen := make(map[T]bool, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if !known[v] {
			return nil, fmt.Errorf("%s %q: %w", kind, string(v), ErrUnknownSelection)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

func contains[T comparable](values []T, target T) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func without[T comparable](values []T, target T) []T {
	out := values[:0:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
