package triage

import "testing"

func TestCheckInteractions_Empty(t *testing.T) {
	for _, meds := range [][]Medication{nil, {}, {MedWarfarin}, {MedAtorvastatin, MedAlbuterol}} {
		got := CheckInteractions(meds)
		if got == nil || len(got) != 0 {
			t.Fatalf("%v: expected empty non-nil slice, got %#v", meds, got)
		}
	}
}

func TestCheckInteractions_OrderIndependent(t *testing.T) {
	a := CheckInteractions([]Medication{MedWarfarin, MedAspirin, MedOmeprazole})
	b := CheckInteractions([]Medication{MedOmeprazole, MedAspirin, MedWarfarin})
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected two interactions, got %v and %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("result depends on input order: %v vs %v", a, b)
		}
	}
	if a[0].Message() != "Warfarin + Aspirin: Increased bleeding risk" {
		t.Fatalf("unexpected first message: %q", a[0].Message())
	}
}

func TestInteractionMessages_AllPairs(t *testing.T) {
	got := InteractionMessages(MedicationCatalog)
	if len(got) != len(interactionTable) {
		t.Fatalf("expected all %d pairs, got %d", len(interactionTable), len(got))
	}
	if got[len(got)-1] != "Gabapentin + Omeprazole: May reduce Gabapentin absorption" {
		t.Fatalf("unexpected last message: %q", got[len(got)-1])
	}
}

func TestInteractionMessages_Text(t *testing.T) {
	cases := map[string][]Medication{
		"Warfarin + Omeprazole: May increase INR — monitor for bleeding":           {MedOmeprazole, MedWarfarin},
		"Warfarin + Levothyroxine: May enhance anticoagulant effect — monitor INR": {MedWarfarin, MedLevothyroxine},
		"Lisinopril + Amlodipine: Risk of low blood pressure — monitor":            {MedAmlodipine, MedLisinopril},
		"Metoprolol + Albuterol: Reduced bronchodilation — caution in asthma/COPD": {MedMetoprolol, MedAlbuterol},
		"Levothyroxine + Omeprazole: Reduced thyroid absorption — space doses":     {MedLevothyroxine, MedOmeprazole},
	}
	for want, meds := range cases {
		got := InteractionMessages(meds)
		if len(got) != 1 || got[0] != want {
			t.Fatalf("%v: expected [%q], got %q", meds, want, got)
		}
	}
}
