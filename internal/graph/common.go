package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
)

// Materializer turns one event-type sub-batch into idempotent graph
// mutations. Implementations issue one or more write transactions on the
// caller's session; a failure aborts only this sub-batch.
type Materializer interface {
	EventType() string
	Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error
}

// Node labels. Interpolated into Cypher, so they stay a closed set.
const (
	labelMenuClick         = "MenuClick"
	labelXpGain            = "XpGain"
	labelInventoryChange   = "InventoryChange"
	labelHitSplat          = "HitSplat"
	labelMonsterKill       = "MonsterKill"
	labelWorldChange       = "WorldChange"
	labelQuestCompletion   = "QuestCompletion"
	labelAchievementDiary  = "AchievementDiary"
	labelCombatAchievement = "CombatAchievement"
	labelReward            = "Reward"
	labelGameEvent         = "GameEvent"
)

// Event→Player verbs, one per event type.
const (
	verbPerformedBy = "PERFORMED_BY"
	verbGainedBy    = "GAINED_BY"
	verbOwnedBy     = "OWNED_BY"
	verbInflictedBy = "INFLICTED_BY"
	verbKilledBy    = "KILLED_BY"
	verbHoppedBy    = "HOPPED_BY"
	verbCompletedBy = "COMPLETED_BY"
	verbReceivedBy  = "RECEIVED_BY"
)

// UpsertPlayer resolves the submission's player node, creating it on first
// sight and refreshing mutable attributes on every submission.
func UpsertPlayer(ctx context.Context, sess neo4j.SessionWithContext, account string, summary ingest.PlayerSummary) error {
	params := map[string]interface{}{
		"account":      account,
		"player_id":    summary.PlayerID,
		"name":         summary.PlayerName,
		"combat_level": int64(summary.CombatLevel),
		"last_updated": time.Now().UTC().Format(time.RFC3339Nano),
	}
	query := `
MERGE (p:Player {account: $account, player_id: $player_id})
SET p.name = $name,
    p.combat_level = $combat_level,
    p.last_updated = $last_updated
`
	if summary.QuestPoints != nil {
		params["quest_points"] = int64(*summary.QuestPoints)
		query += `SET p.quest_points = $quest_points
`
	}
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, consumeErr(ctx, res)
	})
	if err != nil {
		return pkgerrors.NewStore("upsert player", err)
	}
	return nil
}

// eventRow is the common UNWIND payload for bulk event creation. Loc is a
// zero-or-one element list so absent locations skip the FOREACH body.
func eventRow(ev *ingest.Event, props map[string]interface{}) map[string]interface{} {
	row := map[string]interface{}{
		"id":         ev.ID,
		"event_type": ev.EventType,
		"timestamp":  ev.Timestamp.Format(time.RFC3339Nano),
		"props":      props,
	}
	locs := make([]map[string]interface{}, 0, 1)
	if ev.Location != nil {
		locs = append(locs, map[string]interface{}{
			"x":     int64(ev.Location.X),
			"y":     int64(ev.Location.Y),
			"plane": int64(ev.Location.Plane),
		})
	}
	row["loc"] = locs
	return row
}

// createEvents bulk-creates one node per event under the given label, links
// each to the player with the type-specific verb, and find-or-creates the
// shared Location node for location-bearing events.
func createEvents(ctx context.Context, tx neo4j.ManagedTransaction, label, playerVerb string, rows []map[string]interface{}, account, playerID string) error {
	if len(rows) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
UNWIND $rows AS ev
MATCH (p:Player {account: $account, player_id: $player_id})
CREATE (e:%s:Event {id: ev.id})
SET e.event_type = ev.event_type,
    e.timestamp = datetime(ev.timestamp)
SET e += ev.props
CREATE (e)-[:%s]->(p)
FOREACH (loc IN ev.loc |
  MERGE (l:Location {x: loc.x, y: loc.y, plane: loc.plane})
  MERGE (e)-[:OCCURRED_AT]->(l))
`, label, playerVerb)
	res, err := tx.Run(ctx, query, map[string]interface{}{
		"rows":      rows,
		"account":   account,
		"player_id": playerID,
	})
	if err != nil {
		return err
	}
	return consumeErr(ctx, res)
}

func consumeErr(ctx context.Context, res neo4j.ResultWithContext) error {
	_, err := res.Consume(ctx)
	return err
}

func runConsume(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]interface{}) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	return consumeErr(ctx, res)
}
