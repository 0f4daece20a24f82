package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

// completionSpec describes one completion-style event type: the event label,
// the reference entity label, and how to extract the dedup key. Completions
// are idempotent per (player, key): a resubmission is a no-op.
type completionSpec struct {
	eventType   string
	eventLabel  string
	entityLabel string
	relVerb     string
	// key returns (entity name, tier, extra event props); empty name skips
	// the event's enrichment but still records the event.
	key func(ev *ingest.Event) (string, string, map[string]interface{})
}

type completionMaterializer struct {
	log  *logger.Logger
	spec completionSpec
}

func (m *completionMaterializer) EventType() string { return m.spec.eventType }

func (m *completionMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, ev := range events {
			name, tier, props := m.spec.key(ev)
			if name == "" {
				if err := createEvents(ctx, tx, m.spec.eventLabel, verbCompletedBy, []map[string]interface{}{eventRow(ev, props)}, account, playerID); err != nil {
					return nil, err
				}
				continue
			}

			exists, err := m.completionExists(ctx, tx, account, playerID, name, tier)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}

			if props == nil {
				props = map[string]interface{}{}
			}
			props["completion_key"] = name
			if tier != "" {
				props["tier"] = tier
			}
			if err := createEvents(ctx, tx, m.spec.eventLabel, verbCompletedBy, []map[string]interface{}{eventRow(ev, props)}, account, playerID); err != nil {
				return nil, err
			}

			link := fmt.Sprintf(`
MATCH (e:%s {id: $event_id})
MERGE (t:%s {name: $name})
MERGE (e)-[:%s]->(t)
`, m.spec.eventLabel, m.spec.entityLabel, m.spec.relVerb)
			if err := runConsume(ctx, tx, link, map[string]interface{}{
				"event_id": ev.ID,
				"name":     name,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore(fmt.Sprintf("materialize %s completions", m.spec.entityLabel), err)
	}
	return nil
}

func (m *completionMaterializer) completionExists(ctx context.Context, tx neo4j.ManagedTransaction, account, playerID, name, tier string) (bool, error) {
	query := fmt.Sprintf(`
MATCH (e:%s)-[:%s]->(p:Player {account: $account, player_id: $player_id})
WHERE e.completion_key = $name
`, m.spec.eventLabel, verbCompletedBy)
	params := map[string]interface{}{
		"account":   account,
		"player_id": playerID,
		"name":      name,
	}
	if tier != "" {
		query += `  AND e.tier = $tier
`
		params["tier"] = tier
	}
	query += `RETURN count(e) AS ct`

	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return false, err
	}
	record, err := res.Single(ctx)
	if err != nil {
		return false, err
	}
	ct, _ := record.Get("ct")
	count, ok := ct.(int64)
	return ok && count > 0, nil
}

func NewQuestCompletionMaterializer(log *logger.Logger) Materializer {
	return &completionMaterializer{
		log: log.With("materializer", "QuestCompletion"),
		spec: completionSpec{
			eventType:   ingest.EventQuestCompletion,
			eventLabel:  labelQuestCompletion,
			entityLabel: "Quest",
			relVerb:     "COMPLETED",
			key: func(ev *ingest.Event) (string, string, map[string]interface{}) {
				if ev.Quest == nil {
					return "", "", nil
				}
				props := map[string]interface{}{}
				if ev.Quest.QuestPoints != nil {
					props["quest_points"] = int64(*ev.Quest.QuestPoints)
				}
				return ingest.NormalizeName(ev.Quest.QuestName), "", props
			},
		},
	}
}

func NewAchievementDiaryMaterializer(log *logger.Logger) Materializer {
	return &completionMaterializer{
		log: log.With("materializer", "AchievementDiary"),
		spec: completionSpec{
			eventType:   ingest.EventAchievementDiary,
			eventLabel:  labelAchievementDiary,
			entityLabel: "AchievementDiary",
			relVerb:     "COMPLETED",
			key: func(ev *ingest.Event) (string, string, map[string]interface{}) {
				if ev.Diary == nil {
					return "", "", nil
				}
				return ingest.NormalizeName(ev.Diary.Area), ev.Diary.Tier, nil
			},
		},
	}
}

func NewCombatAchievementMaterializer(log *logger.Logger) Materializer {
	return &completionMaterializer{
		log: log.With("materializer", "CombatAchievement"),
		spec: completionSpec{
			eventType:   ingest.EventCombatAchievement,
			eventLabel:  labelCombatAchievement,
			entityLabel: "CombatAchievement",
			relVerb:     "COMPLETED",
			key: func(ev *ingest.Event) (string, string, map[string]interface{}) {
				if ev.CombatTask == nil {
					return "", "", nil
				}
				props := map[string]interface{}{}
				if ev.CombatTask.Tier != "" {
					props["task_tier"] = ev.CombatTask.Tier
				}
				return ingest.NormalizeName(ev.CombatTask.TaskName), "", props
			},
		},
	}
}
