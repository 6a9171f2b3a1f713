package concepts

import "testing"

func TestCatalogMembership(t *testing.T) {
	if !Unknown.IsMember(UnknownGender) {
		t.Fatalf("UnknownGender should be a member of Unknown")
	}
	if !Unknown.IsMember(0) {
		t.Fatalf("zero (absent) value should count as a member")
	}
	if Unknown.IsMember(12345) {
		t.Fatalf("12345 is not an unknown sentinel")
	}
	if !IsUnknown(UnknownCancer) {
		t.Fatalf("IsUnknown(UnknownCancer) = false")
	}
	if IsUnknown(32531) {
		t.Fatalf("treatment regimen concept should not be unknown")
	}
}

func TestCatalogNameOf(t *testing.T) {
	if got := Unknown.NameOf(UnknownCondition); got != "condition" {
		t.Fatalf("NameOf(UnknownCondition) = %q", got)
	}
	if got := Unknown.NameOf(999); got != "" {
		t.Fatalf("NameOf on absent id should be empty, got %q", got)
	}
	// First declared label wins on shared ids.
	if got := DiseaseEpisode.NameOf(32947); got != "partial_response" {
		t.Fatalf("NameOf(32947) = %q, want partial_response", got)
	}
}

func TestCatalogGet(t *testing.T) {
	id, ok := TreatmentEpisode.Get("radiotherapy")
	if !ok || id != Radiotherapy {
		t.Fatalf("Get(radiotherapy) = %d, %v", id, ok)
	}
	if _, ok := TreatmentEpisode.Get("immunotherapy"); ok {
		t.Fatalf("unexpected hit for absent label")
	}
}

// The source vocabulary carries labels that share one concept id. These are
// upstream data errors and must surface from Validate, not be deduplicated.
func TestValidateReportsKnownDuplicates(t *testing.T) {
	wantDupes := map[string][]ConceptID{
		"DiseaseEpisode": {32947},
		"TStage":         {1635682},
		"GroupStage":     {1633650},
	}
	for _, cat := range All() {
		dupes := cat.Validate()
		want, expected := wantDupes[cat.Name()]
		if !expected {
			if len(dupes) != 0 {
				t.Fatalf("catalog %s has unexpected duplicates: %+v", cat.Name(), dupes)
			}
			continue
		}
		if len(dupes) != len(want) {
			t.Fatalf("catalog %s: got %d duplicate groups, want %d (%+v)", cat.Name(), len(dupes), len(want), dupes)
		}
		for i, d := range dupes {
			if d.ID != want[i] {
				t.Fatalf("catalog %s: duplicate id %d, want %d", cat.Name(), d.ID, want[i])
			}
			if len(d.Labels) < 2 {
				t.Fatalf("catalog %s: duplicate group %d has %d labels", cat.Name(), d.ID, len(d.Labels))
			}
		}
	}
}

func TestValuesAndLabelsPreserveOrder(t *testing.T) {
	labels := MStage.Labels()
	if len(labels) != 3 || labels[0] != "m0" || labels[2] != "mx" {
		t.Fatalf("unexpected MStage labels: %v", labels)
	}
	values := MStage.Values()
	if len(values) != 3 || values[0] != 1635624 {
		t.Fatalf("unexpected MStage values: %v", values)
	}
}
