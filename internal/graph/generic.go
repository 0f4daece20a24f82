package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type genericMaterializer struct {
	log *logger.Logger
}

// NewGenericMaterializer persists unrecognized event types as GameEvent nodes
// with their opaque details, so new client event types survive until a
// dedicated materializer exists.
func NewGenericMaterializer(log *logger.Logger) Materializer {
	return &genericMaterializer{log: log.With("materializer", "Generic")}
}

func (m *genericMaterializer) EventType() string { return "" }

func (m *genericMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		props := map[string]interface{}{
			"details_json": string(ev.Details),
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, createEvents(ctx, tx, labelGameEvent, verbPerformedBy, rows, account, playerID)
	})
	if err != nil {
		return pkgerrors.NewStore("materialize generic events", err)
	}
	return nil
}
