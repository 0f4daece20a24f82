package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type xpGainMaterializer struct {
	log *logger.Logger
}

func NewXpGainMaterializer(log *logger.Logger) Materializer {
	return &xpGainMaterializer{log: log.With("materializer", "XpGain")}
}

func (m *xpGainMaterializer) EventType() string { return ingest.EventXpGain }

func (m *xpGainMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	skillRows := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.XpGain != nil {
			props["skill"] = ev.XpGain.Skill
			props["xp_gained"] = int64(ev.XpGain.XpGained)
			props["total_xp"] = ev.XpGain.TotalXp
			props["level"] = int64(ev.XpGain.Level)
			skillRows = append(skillRows, map[string]interface{}{
				"event_id": ev.ID,
				"skill":    ingest.NormalizeName(ev.XpGain.Skill),
			})
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelXpGain, verbGainedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		if len(skillRows) == 0 {
			return nil, nil
		}
		query := `
UNWIND $rows AS r
MATCH (e:XpGain {id: r.event_id})
MERGE (s:Skill {name: r.skill})
MERGE (e)-[:GAINED_IN]->(s)
`
		return nil, runConsume(ctx, tx, query, map[string]interface{}{"rows": skillRows})
	})
	if err != nil {
		return pkgerrors.NewStore("materialize xp gains", err)
	}
	return nil
}
