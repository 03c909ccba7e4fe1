package triage

import "fmt"

type Interaction struct {
	Pair string `json:"pair"`
	Note string `json:"note"`
}

func (i Interaction) Message() string {
	return fmt.Sprintf("%s: %s", i.Pair, i.Note)
}

type interactionRule struct {
	a, b Medication
	note string
}

// interactionTable order is the report order.
var interactionTable = []interactionRule{
	{MedWarfarin, MedAspirin, "Increased bleeding risk"},
	{MedWarfarin, MedOmeprazole, "May increase INR — monitor for bleeding"},
	{MedWarfarin, MedLevothyroxine, "May enhance anticoagulant effect — monitor INR"},
	{MedMetformin, MedPrednisone, "May affect blood sugar control"},
	{MedMetformin, MedInsulin, "Increased risk of hypoglycemia"},
	{MedLisinopril, MedHydrochlorothiazide, "Monitor kidney function and electrolytes"},
	{MedLisinopril, MedAmlodipine, "Risk of low blood pressure — monitor"},
	{MedMetoprolol, MedInsulin, "May mask symptoms of hypoglycemia"},
	{MedMetoprolol, MedAlbuterol, "Reduced bronchodilation — caution in asthma/COPD"},
	{MedAspirin, MedPrednisone, "Increased risk of GI bleeding"},
	{MedLevothyroxine, MedOmeprazole, "Reduced thyroid absorption — space doses"},
	{MedGabapentin, MedOmeprazole, "May reduce Gabapentin absorption"},
}

// CheckInteractions reports every known interacting pair present in meds.
// The result depends only on membership, never on input order.
func CheckInteractions(meds []Medication) []Interaction {
	out := []Interaction{}
	if len(meds) < 2 {
		return out
	}
	set := toSet(meds)
	for _, rule := range interactionTable {
		if set[rule.a] && set[rule.b] {
			out = append(out, Interaction{
				Pair: fmt.Sprintf("%s + %s", rule.a, rule.b),
				Note: rule.note,
			})
		}
	}
	return out
}

func InteractionMessages(meds []Medication) []string {
	found := CheckInteractions(meds)
	out := make([]string, 0, len(found))
	for _, i := range found {
		out = append(out, i.Message())
	}
	return out
}
