package ingest

import "testing"

func TestNormalizeNameStripsMarkupAndLevelSuffix(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"plain", "Goblin", "Goblin"},
		{"markup tags", "<col=ffff00>Goblin</col>", "Goblin"},
		{"level suffix", "Goblin (level-2)", "Goblin"},
		{"level suffix with space", "Goblin (level 2)", "Goblin"},
		{"level suffix uppercase", "Goblin (LEVEL-2)", "Goblin"},
		{"markup and level", "<col=ffff00>Goblin</col> (level-2)", "Goblin"},
		{"collapses whitespace", "  Grand   Exchange  Clerk ", "Grand Exchange Clerk"},
		{"nil input", nil, "Unknown"},
		{"empty string", "", "Unknown"},
		{"only markup", "<col=ffff00></col>", "Unknown"},
		{"non-string input", 42, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeName(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeName(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"<col=ff>Zulrah</col> (level-725)", "Goblin", "  Abyssal   demon "}
	for _, in := range inputs {
		once := NormalizeName(in)
		twice := NormalizeName(once)
		if once != twice {
			t.Fatalf("NormalizeName not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeItemAndNPCDefaults(t *testing.T) {
	if got := NormalizeItemName(""); got != "Unknown Item" {
		t.Fatalf("NormalizeItemName(\"\") = %q, want %q", got, "Unknown Item")
	}
	if got := NormalizeNPCName(nil); got != "Unknown NPC" {
		t.Fatalf("NormalizeNPCName(nil) = %q, want %q", got, "Unknown NPC")
	}
}

func TestHasLevelSuffix(t *testing.T) {
	if !HasLevelSuffix("Goblin (level-2)") {
		t.Fatal("expected level suffix to be detected")
	}
	if !HasLevelSuffix("Goblin (level 2)") {
		t.Fatal("expected spaced level suffix to be detected")
	}
	if HasLevelSuffix("Leveled plank") {
		t.Fatal("did not expect level suffix in plain text")
	}
	if HasLevelSuffix("Goblin") {
		t.Fatal("did not expect level suffix")
	}
}
