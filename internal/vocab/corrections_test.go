package vocab

import "testing"

func TestRemoveSlash(t *testing.T) {
	if got := RemoveSlash("8140/3"); got != "81403" {
		t.Fatalf("RemoveSlash(8140/3) = %q", got)
	}
	if got := RemoveSlash("no slash"); got != "no slash" {
		t.Fatalf("RemoveSlash(no slash) = %q", got)
	}
}

func TestInsertSlash(t *testing.T) {
	if got := InsertSlash("81403"); got != "8140/3" {
		t.Fatalf("InsertSlash(81403) = %q", got)
	}
	if got := InsertSlash(""); got != "" {
		t.Fatalf("InsertSlash on empty input should be empty, got %q", got)
	}
	if got := InsertSlash("3"); got != "/3" {
		t.Fatalf("InsertSlash(3) = %q", got)
	}
}

func TestICDCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C50.9 breast", "C50.9"},
		{"dx C34.12", "C34.12"},
		{"C92", ""},
		{"no code here", ""},
	}
	for _, c := range cases {
		if got := ICDCode(c.in); got != c.want {
			t.Fatalf("ICDCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestICDGroup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C92 leukaemia", "C92"},
		{"C50.9", "C50"},
		{"no code", ""},
	}
	for _, c := range cases {
		if got := ICDGroup(c.in); got != c.want {
			t.Fatalf("ICDGroup(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAppendLanguage(t *testing.T) {
	if got := AppendLanguage(" Greek "); got != "greek language" {
		t.Fatalf("AppendLanguage(Greek) = %q", got)
	}
}

func TestCorrectionByName(t *testing.T) {
	for _, name := range []string{"remove_slash", "insert_slash", "icd_code", "icd_group", "append_language", " ICD_CODE "} {
		if _, ok := CorrectionByName(name); !ok {
			t.Fatalf("CorrectionByName(%q) missing", name)
		}
	}
	if _, ok := CorrectionByName("spellcheck"); ok {
		t.Fatalf("unexpected correction for unregistered name")
	}
}
