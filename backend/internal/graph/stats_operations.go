package graph

import (
	"context"
	"fmt"

	apperrors "templegraph/backend/pkg/errors"
)

const relationshipCountQuery = "MATCH ()-[r]->() RETURN count(r) AS count"

// NodeCountQuery returns the count statement for one label
func NodeCountQuery(label Label) string {
	return fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", label)
}

// Stats counts the nodes of every label and all relationships
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	count := func(query string) (int64, error) {
		result, err := session.Run(ctx, query, nil)
		if err != nil {
			return 0, apperrors.NewGraphQueryFailed(query, err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return 0, apperrors.NewGraphQueryFailed(query, err)
		}
		return getInt64FromRecord(record, "count"), nil
	}

	stats := &Stats{}
	for _, label := range Labels {
		n, err := count(NodeCountQuery(label))
		if err != nil {
			return nil, err
		}
		stats.Set(label, n)
	}

	rels, err := count(relationshipCountQuery)
	if err != nil {
		return nil, err
	}
	stats.Relationships = rels

	return stats, nil
}
