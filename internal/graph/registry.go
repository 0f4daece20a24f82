package graph

import (
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

// Registry resolves event types to their materializers; unrecognized types
// fall back to the generic one.
type Registry struct {
	byType  map[string]Materializer
	generic Materializer
}

func NewRegistry(log *logger.Logger) *Registry {
	materializers := []Materializer{
		NewMenuClickMaterializer(log),
		NewXpGainMaterializer(log),
		NewInventoryChangeMaterializer(log),
		NewHitSplatMaterializer(log),
		NewMonsterKillMaterializer(log),
		NewWorldChangeMaterializer(log),
		NewQuestCompletionMaterializer(log),
		NewAchievementDiaryMaterializer(log),
		NewCombatAchievementMaterializer(log),
		NewRewardMaterializer(log),
	}
	byType := make(map[string]Materializer, len(materializers))
	for _, m := range materializers {
		byType[m.EventType()] = m
	}
	return &Registry{
		byType:  byType,
		generic: NewGenericMaterializer(log),
	}
}

func (r *Registry) For(eventType string) Materializer {
	if m, ok := r.byType[eventType]; ok {
		return m
	}
	return r.generic
}
