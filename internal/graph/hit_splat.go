package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type hitSplatMaterializer struct {
	log *logger.Logger
}

func NewHitSplatMaterializer(log *logger.Logger) Materializer {
	return &hitSplatMaterializer{log: log.With("materializer", "HitSplat")}
}

func (m *hitSplatMaterializer) EventType() string { return ingest.EventHitSplat }

// The source field arrives pre-decoded as a tagged union. Opponents link by
// direction, afflictions get their own node, raw damage-type markers leave
// the event standing alone.
func (m *hitSplatMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	var incoming, outgoing, legacy, afflictions []map[string]interface{}

	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.HitSplat != nil {
			props["damage"] = int64(ev.HitSplat.Damage)
			props["direction"] = ev.HitSplat.Direction

			switch ev.HitSplat.Source.Kind {
			case ingest.DamageSourceOpponent:
				row := map[string]interface{}{
					"event_id": ev.ID,
					"name":     ev.HitSplat.Source.Opponent,
				}
				switch ev.HitSplat.Direction {
				case "incoming":
					incoming = append(incoming, row)
				case "outgoing":
					outgoing = append(outgoing, row)
				default:
					legacy = append(legacy, row)
				}
			case ingest.DamageSourceAffliction:
				afflictions = append(afflictions, map[string]interface{}{
					"event_id": ev.ID,
					"kind":     ev.HitSplat.Source.Affliction,
				})
			case ingest.DamageSourceRawType:
				if ev.HitSplat.Source.RawType != "" {
					props["hitsplat_type"] = ev.HitSplat.Source.RawType
				}
			}
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelHitSplat, verbInflictedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		if len(incoming) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:HitSplat {id: r.event_id})
MERGE (c:Character {name: r.name})
MERGE (c)-[:DEALT]->(e)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": incoming}); err != nil {
				return nil, err
			}
		}
		if len(outgoing) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:HitSplat {id: r.event_id})
MERGE (c:Character {name: r.name})
MERGE (e)-[:STRUCK]->(c)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": outgoing}); err != nil {
				return nil, err
			}
		}
		if len(legacy) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:HitSplat {id: r.event_id})
MERGE (c:Character {name: r.name})
MERGE (e)-[:INVOLVED]->(c)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": legacy}); err != nil {
				return nil, err
			}
		}
		if len(afflictions) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:HitSplat {id: r.event_id})
MERGE (a:Affliction {kind: r.kind})
MERGE (e)-[:AFFLICTED_BY]->(a)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": afflictions}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize hit splats", err)
	}
	return nil
}
