package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "templegraph/backend/pkg/errors"
)

// ============================================================================
// Schema Operations
// ============================================================================

const clearAllQuery = `
	MATCH (n)
	DETACH DELETE n
`

// constraintNames maps each label to the name of its uniqueness constraint
var constraintNames = map[Label]string{
	LabelTemple:             "temple_name",
	LabelRegion:             "region_name",
	LabelDeity:              "deity_name",
	LabelScripture:          "scripture_name",
	LabelArchitecturalStyle: "architectural_style",
	LabelFestival:           "festival_name",
}

// ConstraintQueries returns one CREATE CONSTRAINT statement per label, in Labels order
func ConstraintQueries() []string {
	queries := make([]string, 0, len(Labels))
	for _, label := range Labels {
		queries = append(queries, fmt.Sprintf(
			"CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.name IS UNIQUE",
			constraintNames[label], label,
		))
	}
	return queries
}

// ClearAll deletes every node and relationship in the database
func (r *Repository) ClearAll(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, clearAllQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to delete all data: %w", err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete all data: %w", err)
	}

	r.logger.Info("All nodes and relationships deleted",
		zap.Int("nodes", summary.Counters().NodesDeleted()),
		zap.Int("relationships", summary.Counters().RelationshipsDeleted()),
	)
	return nil
}

// EnsureConstraints declares the name uniqueness constraint for every label.
// Schema conflicts are logged and skipped; connectivity failures are returned.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	for _, constraint := range ConstraintQueries() {
		result, err := session.Run(ctx, constraint, nil)
		if err == nil {
			_, err = result.Consume(ctx)
		}
		if err == nil {
			r.logger.Debug("Constraint ensured", zap.String("constraint", constraint))
			continue
		}

		if isConnectivityError(err) {
			return apperrors.NewGraphQueryFailed(constraint, err)
		}
		if isAlreadyExists(err) {
			r.logger.Warn("Constraint already exists", zap.String("constraint", constraint))
			continue
		}
		r.logger.Warn("Failed to create constraint (may already exist)", zap.String("constraint", constraint), zap.Error(err))
	}

	return nil
}

func isAlreadyExists(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return strings.Contains(neoErr.Code, "AlreadyExists")
	}
	return false
}

func isConnectivityError(err error) bool {
	var connErr *neo4j.ConnectivityError
	return errors.As(err, &connErr)
}
