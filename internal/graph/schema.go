package graph

import (
	"context"

	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/platform/neo4jdb"
)

// Reference entities deliberately carry no name-uniqueness constraints:
// normalization drift can produce duplicates, which the dedup sweep repairs.
// The constraints here are the atomic-upsert substrate concurrent submissions
// rely on.
var schemaStatements = []string{
	`CREATE CONSTRAINT player_identity IF NOT EXISTS FOR (p:Player) REQUIRE (p.account, p.player_id) IS NODE KEY`,
	`CREATE CONSTRAINT event_id_unique IF NOT EXISTS FOR (e:Event) REQUIRE e.id IS UNIQUE`,
	`CREATE CONSTRAINT location_identity IF NOT EXISTS FOR (l:Location) REQUIRE (l.x, l.y, l.plane) IS NODE KEY`,
	`CREATE CONSTRAINT world_id_unique IF NOT EXISTS FOR (w:World) REQUIRE w.world_id IS UNIQUE`,
	`CREATE INDEX character_name_idx IF NOT EXISTS FOR (c:Character) ON (c.name)`,
	`CREATE INDEX item_name_idx IF NOT EXISTS FOR (i:Item) ON (i.name)`,
	`CREATE INDEX object_name_idx IF NOT EXISTS FOR (o:Object) ON (o.name)`,
	`CREATE INDEX skill_name_idx IF NOT EXISTS FOR (s:Skill) ON (s.name)`,
}

// Bootstrap creates constraints and indexes best-effort; restricted users may
// lack schema privileges and the service still runs without them.
func Bootstrap(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	sess := client.WriteSession(ctx)
	defer sess.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := sess.Run(ctx, stmt, nil)
		if err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
			continue
		}
		_, _ = res.Consume(ctx)
	}
}
