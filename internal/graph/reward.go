package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type rewardMaterializer struct {
	log *logger.Logger
}

func NewRewardMaterializer(log *logger.Logger) Materializer {
	return &rewardMaterializer{log: log.With("materializer", "Reward")}
}

func (m *rewardMaterializer) EventType() string { return ingest.EventReward }

// Each reward line becomes a Reward node; item links run as a second pass
// correlated by reward_id rather than event id.
func (m *rewardMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	var itemsByID, itemsByName []map[string]interface{}

	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.Reward != nil {
			props["reward_id"] = ev.Reward.RewardID
			props["reward_source"] = ev.Reward.RewardSource
			for _, item := range ev.Reward.Items {
				row := map[string]interface{}{
					"reward_id": ev.Reward.RewardID,
					"name":      ingest.NormalizeItemName(item.ItemName),
					"quantity":  int64(item.Quantity),
				}
				if item.ItemID != nil {
					row["item_id"] = int64(*item.ItemID)
					itemsByID = append(itemsByID, row)
				} else {
					itemsByName = append(itemsByName, row)
				}
			}
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelReward, verbReceivedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		if len(itemsByID) > 0 {
			query := `
UNWIND $rows AS r
MATCH (rw:Reward {reward_id: r.reward_id})
MERGE (i:Item {item_id: r.item_id})
ON CREATE SET i.name = r.name
MERGE (rw)-[:CONTAINS {quantity: r.quantity}]->(i)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": itemsByID}); err != nil {
				return nil, err
			}
		}
		if len(itemsByName) > 0 {
			query := `
UNWIND $rows AS r
MATCH (rw:Reward {reward_id: r.reward_id})
MERGE (i:Item {name: r.name})
MERGE (rw)-[:CONTAINS {quantity: r.quantity}]->(i)
`
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": itemsByName}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize rewards", err)
	}
	return nil
}
