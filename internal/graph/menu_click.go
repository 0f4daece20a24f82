package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

type menuClickMaterializer struct {
	log *logger.Logger
}

func NewMenuClickMaterializer(log *logger.Logger) Materializer {
	return &menuClickMaterializer{log: log.With("materializer", "MenuClick")}
}

func (m *menuClickMaterializer) EventType() string { return ingest.EventMenuClick }

var categoryLabels = map[ingest.TargetCategory]string{
	ingest.CategoryCharacter: "Character",
	ingest.CategoryItem:      "Item",
	ingest.CategoryObject:    "Object",
	ingest.CategoryPlayer:    "OtherPlayer",
	ingest.CategoryInterface: "Interface",
	ingest.CategoryUnknown:   "Entity",
}

type targetGroup struct {
	label string
	verb  string
}

// targetRows classifies and normalizes every click target, grouping rows by
// (label, verb) so each group runs as one UNWIND query. Relationship types
// cannot be parameterized in Cypher, hence the grouping.
func targetRows(events []*ingest.Event) map[targetGroup][]map[string]interface{} {
	groups := make(map[targetGroup][]map[string]interface{})
	for _, ev := range events {
		if ev.MenuClick == nil {
			continue
		}
		action := ev.MenuClick.Action
		rawTarget := ev.MenuClick.Target
		hasLevel := ingest.HasLevelSuffix(rawTarget)
		category := ingest.ClassifyTarget(action, rawTarget, hasLevel)

		var name string
		switch category {
		case ingest.CategoryCharacter:
			name = ingest.NormalizeNPCName(rawTarget)
		case ingest.CategoryItem:
			name = ingest.NormalizeItemName(rawTarget)
		default:
			name = ingest.NormalizeName(rawTarget)
		}

		verb := ingest.VerbFor(category, action)
		key := targetGroup{label: categoryLabels[category], verb: verb}
		groups[key] = append(groups[key], map[string]interface{}{
			"event_id": ev.ID,
			"name":     name,
			"action":   action,
		})
	}
	return groups
}

func (m *menuClickMaterializer) Materialize(ctx context.Context, sess neo4j.SessionWithContext, events []*ingest.Event, account, playerID string) error {
	rows := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		props := map[string]interface{}{}
		if ev.MenuClick != nil {
			props["action"] = ev.MenuClick.Action
			props["target"] = ev.MenuClick.Target
		}
		rows = append(rows, eventRow(ev, props))
	}

	groups := targetRows(events)
	keys := make([]targetGroup, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].label != keys[j].label {
			return keys[i].label < keys[j].label
		}
		return keys[i].verb < keys[j].verb
	})

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := createEvents(ctx, tx, labelMenuClick, verbPerformedBy, rows, account, playerID); err != nil {
			return nil, err
		}
		for _, key := range keys {
			query := fmt.Sprintf(`
UNWIND $rows AS r
MATCH (e:MenuClick {id: r.event_id})
MERGE (t:%s {name: r.name})
MERGE (e)-[:%s]->(t)
`, key.label, key.verb)
			if err := runConsume(ctx, tx, query, map[string]interface{}{"rows": groups[key]}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return pkgerrors.NewStore("materialize menu clicks", err)
	}
	return nil
}
