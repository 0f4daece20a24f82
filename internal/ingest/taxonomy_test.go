package ingest

import "testing"

func TestClassifyTarget(t *testing.T) {
	cases := []struct {
		action         string
		target         string
		hasLevelSuffix bool
		want           TargetCategory
	}{
		{"Attack", "Goblin (level-2)", true, CategoryCharacter},
		{"Mine", "Rocks", false, CategoryObject},
		{"Take", "Bones", false, CategoryItem},
		{"Trade with", "Zezima", false, CategoryPlayer},
		{"Walk here", "", false, CategoryInterface},
		{"Foobar", "Thing", false, CategoryUnknown},
		// Level suffix wins over the verb table.
		{"Examine", "Goblin (level-2)", true, CategoryCharacter},
		// Ambiguous verbs resolve by fixed tie-break.
		{"Examine", "Rocks", false, CategoryObject},
		{"Use", "Tinderbox", false, CategoryItem},
		{"Open", "Door", false, CategoryObject},
		{"Close", "Door", false, CategoryObject},
		{"Collect", "Birdhouse", false, CategoryObject},
	}
	for _, tc := range cases {
		got := ClassifyTarget(tc.action, tc.target, tc.hasLevelSuffix)
		if got != tc.want {
			t.Fatalf("ClassifyTarget(%q, %q, %v) = %q, want %q", tc.action, tc.target, tc.hasLevelSuffix, got, tc.want)
		}
	}
}

func TestVerbTablesAreDisjoint(t *testing.T) {
	tables := []map[string]bool{characterVerbs, itemVerbs, objectVerbs, playerVerbs, interfaceVerbs}
	seen := map[string]int{}
	for i, table := range tables {
		for verb := range table {
			if prev, dup := seen[verb]; dup {
				t.Fatalf("verb %q appears in tables %d and %d; move it to ambiguousVerbs", verb, prev, i)
			}
			seen[verb] = i
		}
	}
	for verb := range ambiguousVerbs {
		if _, dup := seen[verb]; dup {
			t.Fatalf("ambiguous verb %q also present in a disjoint table", verb)
		}
	}
}

func TestVerbFor(t *testing.T) {
	cases := []struct {
		category TargetCategory
		action   string
		want     string
	}{
		{CategoryCharacter, "Attack", "ATTACKED"},
		{CategoryObject, "Mine", "MINED"},
		{CategoryItem, "Eat", "ATE"},
		{CategoryPlayer, "Trade with", "TRADED_WITH"},
		{CategoryInterface, "Walk here", "WALKED"},
		// Same action maps differently per category.
		{CategoryCharacter, "Examine", "EXAMINED"},
		{CategoryObject, "Use", "USED"},
		// Untabulated actions and unknown categories fall back.
		{CategoryObject, "Foobar", RelVerbInteracted},
		{CategoryUnknown, "Attack", RelVerbInteracted},
	}
	for _, tc := range cases {
		got := VerbFor(tc.category, tc.action)
		if got != tc.want {
			t.Fatalf("VerbFor(%q, %q) = %q, want %q", tc.category, tc.action, got, tc.want)
		}
	}
}
