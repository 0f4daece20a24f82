package graph

import (
	"testing"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestRegistryResolvesKnownTypes(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	for _, eventType := range []string{
		ingest.EventMenuClick,
		ingest.EventXpGain,
		ingest.EventInventoryChange,
		ingest.EventHitSplat,
		ingest.EventMonsterKill,
		ingest.EventWorldChange,
		ingest.EventQuestCompletion,
		ingest.EventAchievementDiary,
		ingest.EventCombatAchievement,
		ingest.EventReward,
	} {
		m := registry.For(eventType)
		if m == nil {
			t.Fatalf("no materializer for %s", eventType)
		}
		if m.EventType() != eventType {
			t.Fatalf("materializer for %s reports %s", eventType, m.EventType())
		}
	}
}

func TestRegistryFallsBackToGeneric(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	m := registry.For("GRAND_EXCHANGE_OFFER")
	if m == nil {
		t.Fatal("expected generic fallback")
	}
	if m.EventType() != "" {
		t.Fatalf("generic materializer must not claim a type, got %q", m.EventType())
	}
}
