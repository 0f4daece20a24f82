package graph

import (
	"reflect"
	"testing"
)

func TestGroupDuplicates(t *testing.T) {
	refs := []nodeRef{
		{ID: "1", Name: "goblin"},
		{ID: "2", Name: "Goblin"},
		{ID: "3", Name: " Goblin "},
		{ID: "4", Name: "Zulrah"},
		{ID: "5", Name: "Abyssal demon"},
		{ID: "6", Name: "abyssal   demon"},
	}
	groups := GroupDuplicates(refs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}

	goblins := groups[0]
	if goblins.Key != "goblin" {
		t.Fatalf("unexpected key %q", goblins.Key)
	}
	// "goblin" is already its own cleaned form, so it wins primary.
	if goblins.PrimaryID != "1" {
		t.Fatalf("primary = %q, want %q", goblins.PrimaryID, "1")
	}
	if !reflect.DeepEqual(goblins.DuplicateIDs, []string{"2", "3"}) {
		t.Fatalf("duplicates = %v", goblins.DuplicateIDs)
	}

	demons := groups[1]
	if demons.Key != "abyssal demon" {
		t.Fatalf("unexpected key %q", demons.Key)
	}
	// "Abyssal demon" has no stray whitespace, so it wins over "abyssal   demon".
	if demons.PrimaryID != "5" {
		t.Fatalf("primary = %q, want %q", demons.PrimaryID, "5")
	}
}

func TestGroupDuplicatesSkipsSingletonsAndBlanks(t *testing.T) {
	refs := []nodeRef{
		{ID: "1", Name: "Zulrah"},
		{ID: "2", Name: ""},
		{ID: "3", Name: "   "},
	}
	if groups := GroupDuplicates(refs); len(groups) != 0 {
		t.Fatalf("expected no groups, got %+v", groups)
	}
}

func TestNormalizedKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Goblin", "goblin"},
		{"  Abyssal   Demon  ", "abyssal demon"},
		{"ZULRAH", "zulrah"},
	}
	for _, tc := range cases {
		if got := normalizedKey(tc.in); got != tc.want {
			t.Fatalf("normalizedKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRelTypePattern(t *testing.T) {
	valid := []string{"ATTACKED", "OCCURRED_AT", "_private", "R2"}
	for _, rt := range valid {
		if !relTypePattern.MatchString(rt) {
			t.Fatalf("expected %q to be a valid relationship type", rt)
		}
	}
	invalid := []string{"", "2R", "DROP ALL", "X-Y", "a;DETACH DELETE"}
	for _, rt := range invalid {
		if relTypePattern.MatchString(rt) {
			t.Fatalf("expected %q to be rejected", rt)
		}
	}
}

func TestDedupCategoriesExcludeStructuralKeys(t *testing.T) {
	for _, category := range []string{"location", "world", "player", "event"} {
		if _, ok := DedupCategories[category]; ok {
			t.Fatalf("category %q must not be sweepable", category)
		}
	}
}
