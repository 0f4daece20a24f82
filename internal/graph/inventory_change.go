package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type inventoryChangeMaterializer struct {
	log *logger.Logger
}

func NewInventoryChangeMaterializer(log *logger.Logger) Materializer {
	return &inventoryChangeMaterializer{log: log.With("materializer", "InventoryChange")}
}

func (m *inventoryChangeMaterializer) EventType() string { return ingest.EventInventoryChange }

// Repositioning inside the inventory links with MOVED; everything else is an
// acquisition and links with ADDED.
func inventoryRelVerb(changeType string) string {
	if strings.EqualFold(strings.TrimSpace(changeType), "MOVED") {
		return "MOVED"
	}
	return "ADDED"
}

func (m *inventoryChangeMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))

	// Items are keyed by itemId when present, else by normalized name; each
	// (key kind, verb) pair runs as one grouped query.
	type itemGroup struct {
		byID bool
		verb string
	}
	itemGroups := make(map[itemGroup][]map[string]interface{})

	for _, ev := range events {
		props := map[string]interface{}{
			// TODO: wire rarity lookup once the item reference feed exists.
			"is_rare_item": false,
		}
		if ev.Inventory != nil {
			props["item_name"] = ev.Inventory.ItemName
			props["quantity"] = int64(ev.Inventory.Quantity)
			props["change_type"] = ev.Inventory.ChangeType
			if ev.Inventory.ItemID != nil {
				props["item_id"] = int64(*ev.Inventory.ItemID)
			}

			verb := inventoryRelVerb(ev.Inventory.ChangeType)
			row := map[string]interface{}{
				"event_id": ev.ID,
				"name":     ingest.NormalizeItemName(ev.Inventory.ItemName),
			}
			key := itemGroup{byID: ev.Inventory.ItemID != nil, verb: verb}
			if key.byID {
				row["item_id"] = int64(*ev.Inventory.ItemID)
			}
			itemGroups[key] = append(itemGroups[key], row)
		}
		rows = append(rows, eventRow(ev, props))
	}

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelInventoryChange, verbOwnedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		for _, verb := range []string{"ADDED", "MOVED"} {
			for _, byID := range []bool{true, false} {
				group := itemGroups[itemGroup{byID: byID, verb: verb}]
				if len(group) == 0 {
					continue
				}
				var query string
				if byID {
					query = fmt.Sprintf(`
UNWIND $rows AS r
MATCH (e:InventoryChange {id: r.event_id})
MERGE (i:Item {item_id: r.item_id})
ON CREATE SET i.name = r.name
MERGE (e)-[:%s]->(i)
`, verb)
				} else {
					query = fmt.Sprintf(`
UNWIND $rows AS r
MATCH (e:InventoryChange {id: r.event_id})
MERGE (i:Item {name: r.name})
MERGE (e)-[:%s]->(i)
`, verb)
				}
				if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": group}); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize inventory changes", err)
	}
	return nil
}
