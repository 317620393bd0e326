package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "templegraph/backend/pkg/errors"
)

// ============================================================================
// Temple Operations
// ============================================================================

const createTempleQuery = `
	CREATE (t:Temple {
		name: $name,
		state: $state,
		info: $info,
		story: $story,
		visiting_guide: $visiting_guide,
		architecture: $architecture,
		scripture_mentions: $scripture_mentions,
		run_id: $run_id
	})
`

const getTempleQuery = `
	MATCH (t:Temple {name: $name})
	RETURN
		t.name AS name,
		t.state AS state,
		t.info AS info,
		t.story AS story,
		t.visiting_guide AS visiting_guide,
		t.architecture AS architecture,
		t.scripture_mentions AS scripture_mentions,
		t.run_id AS run_id,
		[(t)-[:LOCATED_IN]->(x:Region) | x.name] AS regions,
		[(t)-[:DEDICATED_TO]->(x:Deity) | x.name] AS deities,
		[(t)-[:MENTIONED_IN]->(x:Scripture) | x.name] AS scriptures,
		[(t)-[:HAS_STYLE]->(x:ArchitecturalStyle) | x.name] AS styles,
		[(t)-[:CELEBRATES]->(x:Festival) | x.name] AS festivals
`

// MergeEntityQuery returns the statement that merges an entity node of the
// given kind and the edge to it from an existing Temple.
func MergeEntityQuery(kind EntityKind) string {
	return fmt.Sprintf(`
		MERGE (e:%s {name: $name})
		WITH e
		MATCH (t:Temple {name: $temple})
		MERGE (t)-[:%s]->(e)
	`, kind.Label, kind.Rel)
}

// WriteSummary counts what a write created
type WriteSummary struct {
	NodesCreated         int `json:"nodes_created" yaml:"nodes_created"`
	RelationshipsCreated int `json:"relationships_created" yaml:"relationships_created"`
}

// Add accumulates another summary into s
func (s *WriteSummary) Add(other WriteSummary) {
	s.NodesCreated += other.NodesCreated
	s.RelationshipsCreated += other.RelationshipsCreated
}

// UpsertTemple creates the Temple node and merges every linked entity and
// edge inside one transaction. On any failure the transaction is rolled
// back and nothing from the record remains.
func (r *Repository) UpsertTemple(ctx context.Context, g TempleGraph) (WriteSummary, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	name := g.Temple.Name
	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return WriteSummary{}, apperrors.NewGraphRecordFailed(name, err)
	}

	var summary WriteSummary
	run := func(query string, params map[string]interface{}) error {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return err
		}
		s, err := result.Consume(ctx)
		if err != nil {
			return err
		}
		summary.NodesCreated += s.Counters().NodesCreated()
		summary.RelationshipsCreated += s.Counters().RelationshipsCreated()
		return nil
	}

	if err := run(createTempleQuery, templeParams(g.Temple)); err != nil {
		r.rollback(ctx, tx, name)
		return WriteSummary{}, apperrors.NewGraphRecordFailed(name, err)
	}

	for _, link := range g.Links {
		err := run(MergeEntityQuery(link.Kind), map[string]interface{}{
			"name":   link.Name,
			"temple": name,
		})
		if err != nil {
			r.rollback(ctx, tx, name)
			return WriteSummary{}, apperrors.NewGraphRecordFailed(name,
				fmt.Errorf("failed to link %s %q: %w", link.Kind.Label, link.Name, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return WriteSummary{}, apperrors.NewGraphRecordFailed(name, err)
	}

	r.logger.Debug("Temple written",
		zap.String("temple", name),
		zap.Int("links", len(g.Links)),
		zap.Int("nodes_created", summary.NodesCreated),
		zap.Int("relationships_created", summary.RelationshipsCreated),
	)
	return summary, nil
}

func (r *Repository) rollback(ctx context.Context, tx neo4j.ExplicitTransaction, temple string) {
	if err := tx.Rollback(ctx); err != nil {
		r.logger.Warn("Failed to roll back temple transaction", zap.String("temple", temple), zap.Error(err))
	}
}

// GetTemple returns a temple and the names of its linked entities
func (r *Repository) GetTemple(ctx context.Context, name string) (*TempleDetail, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, getTempleQuery, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch temple: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch temple: %w", err)
		}
		return nil, ErrTempleNotFound{Name: name}
	}

	record := result.Record()
	detail := &TempleDetail{
		Temple: Temple{
			Name:              getStringFromRecord(record, "name"),
			State:             getStringFromRecord(record, "state"),
			Info:              getStringFromRecord(record, "info"),
			Story:             getStringFromRecord(record, "story"),
			VisitingGuide:     getStringFromRecord(record, "visiting_guide"),
			Architecture:      getStringFromRecord(record, "architecture"),
			ScriptureMentions: getStringFromRecord(record, "scripture_mentions"),
			RunID:             getStringFromRecord(record, "run_id"),
		},
		Deities:    sortedStrings(getStringSliceFromRecord(record, "deities")),
		Scriptures: sortedStrings(getStringSliceFromRecord(record, "scriptures")),
		Styles:     sortedStrings(getStringSliceFromRecord(record, "styles")),
		Festivals:  sortedStrings(getStringSliceFromRecord(record, "festivals")),
	}
	if regions := getStringSliceFromRecord(record, "regions"); len(regions) > 0 {
		detail.Region = regions[0]
	}

	return detail, nil
}

func templeParams(t Temple) map[string]interface{} {
	return map[string]interface{}{
		"name":               t.Name,
		"state":              t.State,
		"info":               t.Info,
		"story":              t.Story,
		"visiting_guide":     t.VisitingGuide,
		"architecture":       t.Architecture,
		"scripture_mentions": t.ScriptureMentions,
		"run_id":             t.RunID,
	}
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}

// Errors

// ErrTempleNotFound is returned when no Temple node has the requested name
type ErrTempleNotFound struct {
	Name string
}

func (e ErrTempleNotFound) Error() string {
	return fmt.Sprintf("temple not found: %s", e.Name)
}
