package graph

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/platform/neo4jdb"
)

// DedupCategories maps the public category names to node labels eligible for
// the duplicate sweep. Worlds and Locations are keyed structurally and can't
// drift, so they are absent.
var DedupCategories = map[string]string{
	"character":          "Character",
	"item":               "Item",
	"object":             "Object",
	"skill":              "Skill",
	"quest":              "Quest",
	"diary":              "AchievementDiary",
	"combat-achievement": "CombatAchievement",
	"interface":          "Interface",
	"entity":             "Entity",
}

type DuplicateGroup struct {
	Key          string   `json:"key"`
	PrimaryID    string   `json:"primary_id"`
	PrimaryName  string   `json:"primary_name"`
	DuplicateIDs []string `json:"duplicate_ids"`
}

type DedupService interface {
	FindDuplicates(ctx context.Context, category string) ([]DuplicateGroup, error)
	Merge(ctx context.Context, category, primaryID string, duplicateIDs []string) error
	Sweep(ctx context.Context) (int, error)
}

type dedupService struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewDedupService(client *neo4jdb.Client, log *logger.Logger) DedupService {
	return &dedupService{
		client: client,
		log:    log.With("service", "DedupService"),
	}
}

type nodeRef struct {
	ID   string
	Name string
}

var collapseSpace = regexp.MustCompile(`\s+`)

func normalizedKey(name string) string {
	return collapseSpace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

// GroupDuplicates buckets node refs by case- and whitespace-insensitive name
// and returns only buckets with more than one member. The primary is the node
// whose stored name already equals the cleaned form, else the first seen.
func GroupDuplicates(refs []nodeRef) []DuplicateGroup {
	buckets := make(map[string][]nodeRef)
	var order []string
	for _, ref := range refs {
		key := normalizedKey(ref.Name)
		if key == "" {
			continue
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], ref)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		members := buckets[key]
		if len(members) < 2 {
			continue
		}
		primary := members[0]
		for _, member := range members {
			if strings.TrimSpace(member.Name) == member.Name && normalizedKey(member.Name) == strings.ToLower(member.Name) {
				primary = member
				break
			}
		}
		group := DuplicateGroup{
			Key:         key,
			PrimaryID:   primary.ID,
			PrimaryName: primary.Name,
		}
		for _, member := range members {
			if member.ID != primary.ID {
				group.DuplicateIDs = append(group.DuplicateIDs, member.ID)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func (s *dedupService) FindDuplicates(ctx context.Context, category string) ([]DuplicateGroup, error) {
	label, ok := DedupCategories[category]
	if !ok {
		return nil, pkgerrors.NewValidation("unknown dedup category %q", category)
	}

	sess := s.client.ReadSession(ctx)
	defer sess.Close(ctx)

	query := fmt.Sprintf(`
MATCH (n:%s)
WHERE n.name IS NOT NULL
RETURN elementId(n) AS id, n.name AS name
`, label)
	result, err := sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		var refs []nodeRef
		for res.Next(ctx) {
			record := res.Record()
			id, _ := record.Get("id")
			name, _ := record.Get("name")
			idStr, _ := id.(string)
			nameStr, _ := name.(string)
			refs = append(refs, nodeRef{ID: idStr, Name: nameStr})
		}
		return refs, res.Err()
	})
	if err != nil {
		return nil, pkgerrors.NewStore("scan duplicates", err)
	}
	return GroupDuplicates(result.([]nodeRef)), nil
}

var relTypePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Merge folds each duplicate into the primary: every distinct
// (relationship-type, neighbor) pair on the duplicate is re-created against
// the primary with find-or-create semantics, then the duplicate is
// detach-deleted. Safe to re-run; it never loses a relationship.
func (s *dedupService) Merge(ctx context.Context, category, primaryID string, duplicateIDs []string) error {
	if _, ok := DedupCategories[category]; !ok {
		return pkgerrors.NewValidation("unknown dedup category %q", category)
	}
	if primaryID == "" || len(duplicateIDs) == 0 {
		return pkgerrors.NewValidation("merge requires a primary id and at least one duplicate id")
	}

	sess := s.client.WriteSession(ctx)
	defer sess.Close(ctx)

	for _, dupID := range duplicateIDs {
		if dupID == primaryID {
			continue
		}
		if err := s.mergeOne(ctx, sess, primaryID, dupID); err != nil {
			return err
		}
	}
	return nil
}

func (s *dedupService) mergeOne(ctx context.Context, sess neo4j.SessionWithContext, primaryID, dupID string) error {
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		outgoing, err := relNeighbors(ctx, tx, `
MATCH (d)-[r]->(m)
WHERE elementId(d) = $dup AND elementId(m) <> $primary
RETURN DISTINCT type(r) AS rel_type, elementId(m) AS other_id
`, primaryID, dupID)
		if err != nil {
			return nil, err
		}
		incoming, err := relNeighbors(ctx, tx, `
MATCH (m)-[r]->(d)
WHERE elementId(d) = $dup AND elementId(m) <> $primary
RETURN DISTINCT type(r) AS rel_type, elementId(m) AS other_id
`, primaryID, dupID)
		if err != nil {
			return nil, err
		}

		for relType, ids := range outgoing {
			query := fmt.Sprintf(`
MATCH (p) WHERE elementId(p) = $primary
UNWIND $ids AS oid
MATCH (m) WHERE elementId(m) = oid
MERGE (p)-[:%s]->(m)
`, relType)
			if err := runConsume(ctx, tx, query, map[string]interface{}{"primary": primaryID, "ids": ids}); err != nil {
				return nil, err
			}
		}
		for relType, ids := range incoming {
			query := fmt.Sprintf(`
MATCH (p) WHERE elementId(p) = $primary
UNWIND $ids AS oid
MATCH (m) WHERE elementId(m) = oid
MERGE (m)-[:%s]->(p)
`, relType)
			if err := runConsume(ctx, tx, query, map[string]interface{}{"primary": primaryID, "ids": ids}); err != nil {
				return nil, err
			}
		}

		return nil, runConsume(ctx, tx, `
MATCH (d) WHERE elementId(d) = $dup
DETACH DELETE d
`, map[string]interface{}{"dup": dupID})
	})
	if err != nil {
		return pkgerrors.NewStore("merge duplicate", err)
	}
	return nil
}

func relNeighbors(ctx context.Context, tx neo4j.ManagedTransaction, query, primaryID, dupID string) (map[string][]string, error) {
	res, err := tx.Run(ctx, query, map[string]interface{}{"primary": primaryID, "dup": dupID})
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for res.Next(ctx) {
		record := res.Record()
		rt, _ := record.Get("rel_type")
		oid, _ := record.Get("other_id")
		relType, _ := rt.(string)
		otherID, _ := oid.(string)
		if !relTypePattern.MatchString(relType) {
			return nil, fmt.Errorf("unexpected relationship type %q", relType)
		}
		out[relType] = append(out[relType], otherID)
	}
	return out, res.Err()
}

// Sweep scans every category concurrently and merges whatever it finds.
// Returns the number of duplicate nodes folded away.
func (s *dedupService) Sweep(ctx context.Context) (int, error) {
	categories := make([]string, 0, len(DedupCategories))
	for category := range DedupCategories {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var mu sync.Mutex
	merged := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, category := range categories {
		category := category
		g.Go(func() error {
			groups, err := s.FindDuplicates(gctx, category)
			if err != nil {
				return err
			}
			for _, group := range groups {
				if err := s.Merge(gctx, category, group.PrimaryID, group.DuplicateIDs); err != nil {
					return err
				}
				mu.Lock()
				merged += len(group.DuplicateIDs)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return merged, err
	}
	return merged, nil
}
