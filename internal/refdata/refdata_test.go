package refdata

import "testing"

func TestListsAreNonEmptyAndCopied(t *testing.T) {
	got := Cities()
	if len(got) == 0 {
		t.Fatal("cities empty")
	}
	got[0] = "mutated"
	if Cities()[0] == "mutated" {
		t.Fatal("Cities() must return a copy")
	}

	if len(LawTypes()) == 0 {
		t.Fatal("law types empty")
	}
	if len(Languages()) == 0 {
		t.Fatal("languages empty")
	}
}

func TestMembership(t *testing.T) {
	if !IsKnownCity("Mumbai") {
		t.Error("Mumbai should be a known city")
	}
	if IsKnownCity("Gotham") {
		t.Error("Gotham should not be a known city")
	}
	if !IsKnownLawType("Criminal Law") {
		t.Error("Criminal Law should be known")
	}
	if !IsKnownLanguage("Hindi") {
		t.Error("Hindi should be known")
	}
}
