package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type monsterKillMaterializer struct {
	log *logger.Logger
}

func NewMonsterKillMaterializer(log *logger.Logger) Materializer {
	return &monsterKillMaterializer{log: log.With("materializer", "MonsterKill")}
}

func (m *monsterKillMaterializer) EventType() string { return ingest.EventMonsterKill }

func (m *monsterKillMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	monsterRows := make([]map[string]interface{}, 0, len(events))
	var lootByID, lootByName []map[string]interface{}

	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.MonsterKill != nil {
			name := ingest.NormalizeNPCName(ev.MonsterKill.MonsterName)
			props["monster_name"] = name

			monster := map[string]interface{}{
				"event_id":     ev.ID,
				"name":         name,
				"combat_level": int64(ev.MonsterKill.CombatLevel),
			}
			if ev.MonsterKill.MonsterID != nil {
				monster["monster_id"] = int64(*ev.MonsterKill.MonsterID)
			} else {
				monster["monster_id"] = nil
			}
			monsterRows = append(monsterRows, monster)

			for _, loot := range ev.MonsterKill.Loot {
				row := map[string]interface{}{
					"event_id": ev.ID,
					"name":     ingest.NormalizeItemName(loot.ItemName),
					"quantity": int64(loot.Quantity),
				}
				if loot.ItemID != nil {
					row["item_id"] = int64(*loot.ItemID)
					lootByID = append(lootByID, row)
				} else {
					lootByName = append(lootByName, row)
				}
			}
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelMonsterKill, verbKilledBy, rows, account, playerID); err != nil {
			return nil, err
		}

		// Combat level and monster id accumulate on first creation only; a
		// later sighting never rewrites them.
		if len(monsterRows) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:MonsterKill {id: r.event_id})
MERGE (c:Character {name: r.name})
ON CREATE SET c.combat_level = r.combat_level,
              c.monster_id = r.monster_id
MERGE (e)-[:KILLED]->(c)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": monsterRows}); err != nil {
				return nil, err
			}
		}

		if len(lootByID) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:MonsterKill {id: r.event_id})
MERGE (i:Item {item_id: r.item_id})
ON CREATE SET i.name = r.name
CREATE (e)-[:DROPPED {quantity: r.quantity}]->(i)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": lootByID}); err != nil {
				return nil, err
			}
		}
		if len(lootByName) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:MonsterKill {id: r.event_id})
MERGE (i:Item {name: r.name})
CREATE (e)-[:DROPPED {quantity: r.quantity}]->(i)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": lootByName}); err != nil {
				return nil, err
			}
		}

		// Best-effort credit of the player's recent hits against the same
		// monster name. Missing hit splats just match nothing.
		if len(monsterRows) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:MonsterKill {id: r.event_id})-[:KILLED_BY]->(p:Player {account: $account, player_id: $player_id})
MATCH (h:HitSplat)-[:INFLICTED_BY]->(p)
MATCH (h)-[:STRUCK]->(c:Character {name: r.name})
WHERE h.timestamp >= e.timestamp - duration('PT2M')
  AND h.timestamp <= e.timestamp
MERGE (h)-[:CONTRIBUTED_TO]->(e)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{
				"rows":      monsterRows,
				"account":   account,
				"player_id": playerID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize monster kills", err)
	}
	return nil
}
