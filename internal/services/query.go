package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/platform/neo4jdb"
)

// QueryService forwards parametrized read queries to the graph store. Its
// only cross-account defense is the textual $account check: the query must
// scope itself by the injected account parameter.
type QueryService interface {
	Run(ctx context.Context, accountID uuid.UUID, query string, params map[string]interface{}) ([]map[string]interface{}, error)
}

type queryService struct {
	log       *logger.Logger
	neo       *neo4jdb.Client
	admission AdmissionService
}

func NewQueryService(log *logger.Logger, neo *neo4jdb.Client, admission AdmissionService) QueryService {
	return &queryService{
		log:       log.With("service", "QueryService"),
		neo:       neo,
		admission: admission,
	}
}

func (s *queryService) Run(ctx context.Context, accountID uuid.UUID, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	if err := s.admission.Check(ctx, "query", accountID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.NewValidation("query is required")
	}
	if !strings.Contains(query, "$account") {
		return nil, pkgerrors.NewValidation("query must reference $account")
	}

	if params == nil {
		params = map[string]interface{}{}
	}
	params["account"] = accountID.String()

	sess := s.neo.ReadSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var records []map[string]interface{}
		for res.Next(ctx) {
			records = append(records, res.Record().AsMap())
		}
		return records, res.Err()
	})
	if err != nil {
		return nil, pkgerrors.NewStoreQuery("ad-hoc query", query, params, err)
	}
	records, _ := result.([]map[string]interface{})
	return records, nil
}
