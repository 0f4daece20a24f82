package graph

import (
	"testing"

	"github.com/runegraph/runegraph-backend/internal/ingest"
)

func clickEvent(id, action, target string) *ingest.Event {
	return &ingest.Event{
		EventType: ingest.EventMenuClick,
		ID:        id,
		MenuClick: &ingest.MenuClickDetails{Action: action, Target: target},
	}
}

func TestTargetRowsGroupsByLabelAndVerb(t *testing.T) {
	events := []*ingest.Event{
		clickEvent("d_1", "Attack", "Goblin (level-2)"),
		clickEvent("d_2", "Attack", "<col=ff>Zulrah</col> (level-725)"),
		clickEvent("d_3", "Mine", "Rocks"),
		clickEvent("d_4", "Foobar", "Mystery box"),
	}

	groups := targetRows(events)

	attacked := groups[targetGroup{label: "Character", verb: "ATTACKED"}]
	if len(attacked) != 2 {
		t.Fatalf("expected 2 attacked rows, got %d", len(attacked))
	}
	if attacked[0]["name"] != "Goblin" || attacked[1]["name"] != "Zulrah" {
		t.Fatalf("names not normalized: %v, %v", attacked[0]["name"], attacked[1]["name"])
	}
	if attacked[0]["event_id"] != "d_1" {
		t.Fatalf("event id not carried: %v", attacked[0]["event_id"])
	}

	mined := groups[targetGroup{label: "Object", verb: "MINED"}]
	if len(mined) != 1 || mined[0]["name"] != "Rocks" {
		t.Fatalf("unexpected mined group: %+v", mined)
	}

	// Unknown verbs land on the Entity label with the generic relationship.
	fallback := groups[targetGroup{label: "Entity", verb: ingest.RelVerbInteracted}]
	if len(fallback) != 1 || fallback[0]["name"] != "Mystery box" {
		t.Fatalf("unexpected fallback group: %+v", fallback)
	}
}

func TestTargetRowsSkipsEventsWithoutDetails(t *testing.T) {
	events := []*ingest.Event{
		{EventType: ingest.EventMenuClick, ID: "d_1"},
	}
	if groups := targetRows(events); len(groups) != 0 {
		t.Fatalf("expected no groups, got %+v", groups)
	}
}

func TestTargetRowsLevelSuffixForcesCharacter(t *testing.T) {
	// "Examine" defaults to Object, but the level suffix marks a character.
	events := []*ingest.Event{
		clickEvent("d_1", "Examine", "Goblin (level-2)"),
	}
	groups := targetRows(events)
	rows := groups[targetGroup{label: "Character", verb: "EXAMINED"}]
	if len(rows) != 1 || rows[0]["name"] != "Goblin" {
		t.Fatalf("expected examined character row, got %+v", groups)
	}
}
