package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type worldChangeMaterializer struct {
	log *logger.Logger
}

func NewWorldChangeMaterializer(log *logger.Logger) Materializer {
	return &worldChangeMaterializer{log: log.With("materializer", "WorldChange")}
}

func (m *worldChangeMaterializer) EventType() string { return ingest.EventWorldChange }

func (m *worldChangeMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	destRows := make([]map[string]interface{}, 0, len(events))
	var originRows []map[string]interface{}

	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.WorldChange != nil {
			props["world_id"] = int64(ev.WorldChange.WorldID)
			destRows = append(destRows, map[string]interface{}{
				"event_id": ev.ID,
				"world_id": int64(ev.WorldChange.WorldID),
			})
			if ev.WorldChange.PreviousWorldID != nil {
				originRows = append(originRows, map[string]interface{}{
					"event_id": ev.ID,
					"world_id": int64(*ev.WorldChange.PreviousWorldID),
				})
			}
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelWorldChange, verbHoppedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		if len(destRows) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:WorldChange {id: r.event_id})
MERGE (w:World {world_id: r.world_id})
MERGE (e)-[:CHANGED_TO]->(w)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": destRows}); err != nil {
				return nil, err
			}
		}
		if len(originRows) > 0 {
			query := `
UNWIND $rows AS r
MATCH (e:WorldChange {id: r.event_id})
MERGE (w:World {world_id: r.world_id})
MERGE (e)-[:CHANGED_FROM]->(w)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": originRows}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize world changes", err)
	}
	return nil
}
