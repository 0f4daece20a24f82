package graph

import (
	"testing"
	"time"

	"github.com/runegraph/runegraph-backend/internal/ingest"
)

func TestEventRowLocationList(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	located := &ingest.Event{
		ID:        "d_1",
		EventType: ingest.EventXpGain,
		Timestamp: ts,
		Location:  &ingest.Location{X: 3200, Y: 3201, Plane: 1},
	}
	row := eventRow(located, map[string]interface{}{"skill": "Mining"})
	locs, ok := row["loc"].([]map[string]interface{})
	if !ok || len(locs) != 1 {
		t.Fatalf("expected one location entry, got %v", row["loc"])
	}
	if locs[0]["x"] != int64(3200) || locs[0]["y"] != int64(3201) || locs[0]["plane"] != int64(1) {
		t.Fatalf("location not coerced: %+v", locs[0])
	}
	if row["id"] != "d_1" || row["event_type"] != ingest.EventXpGain {
		t.Fatalf("identity fields missing: %+v", row)
	}

	bare := &ingest.Event{ID: "d_2", EventType: ingest.EventXpGain, Timestamp: ts}
	row = eventRow(bare, nil)
	locs, ok = row["loc"].([]map[string]interface{})
	if !ok || len(locs) != 0 {
		t.Fatalf("expected empty location list, got %v", row["loc"])
	}
}

func TestInventoryRelVerb(t *testing.T) {
	cases := []struct{ in, want string }{
		{"MOVED", "MOVED"},
		{"moved", "MOVED"},
		{" Moved ", "MOVED"},
		{"ADDED", "ADDED"},
		{"REMOVED", "ADDED"},
		{"", "ADDED"},
	}
	for _, tc := range cases {
		if got := inventoryRelVerb(tc.in); got != tc.want {
			t.Fatalf("inventoryRelVerb(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
