// Package loader turns the temple document into graph writes: it resets the
// store, declares constraints and upserts one TempleGraph per record.
package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"templegraph/backend/internal/dataset"
	"templegraph/backend/internal/extract"
	"templegraph/backend/internal/graph"
	apperrors "templegraph/backend/pkg/errors"
	"templegraph/backend/pkg/logger"
)

// Store is the write side of the graph used by the loader
type Store interface {
	ClearAll(ctx context.Context) error
	EnsureConstraints(ctx context.Context) error
	UpsertTemple(ctx context.Context, g graph.TempleGraph) (graph.WriteSummary, error)
}

// Result describes a completed batch run
type Result struct {
	RunID    string             `json:"run_id" yaml:"run_id"`
	Regions  int                `json:"regions" yaml:"regions"`
	Temples  int                `json:"temples" yaml:"temples"`
	Links    int                `json:"links" yaml:"links"`
	Written  graph.WriteSummary `json:"written" yaml:"written"`
	Duration time.Duration      `json:"duration" yaml:"duration"`
}

// Loader drives a full clear-and-rebuild of the temple graph
type Loader struct {
	store     Store
	extractor *extract.Extractor
	logger    *zap.Logger
}

// New creates a loader writing to store
func New(store Store, extractor *extract.Extractor) *Loader {
	return &Loader{
		store:     store,
		extractor: extractor,
		logger:    logger.Get(),
	}
}

// LoadFile parses the document at path and loads it. A document that cannot
// be parsed fails before the store is touched.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	l.logger.Info("Reading temple document", zap.String("path", path))

	doc, err := dataset.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, doc)
}

// Load clears the store, declares constraints and writes every temple in
// document order. The first failing record aborts the run; records written
// before it stay committed.
func (l *Loader) Load(ctx context.Context, doc *dataset.Document) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.New().String()}
	log := l.logger.With(zap.String("run_id", res.RunID))

	log.Info("Starting temple graph load",
		zap.Int("regions", len(doc.Regions)),
		zap.Int("temples", doc.TempleCount()),
	)

	if err := l.store.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear graph: %w", err)
	}
	log.Info("Database cleared")

	if err := l.store.EnsureConstraints(ctx); err != nil {
		return nil, fmt.Errorf("failed to create constraints: %w", err)
	}
	log.Info("Constraints ensured", zap.Int("constraints", len(graph.Labels)))

	for _, region := range doc.Regions {
		log.Info("Processing temples", zap.String("region", region.Name), zap.Int("count", len(region.Temples)))

		for _, rec := range region.Temples {
			if err := ctx.Err(); err != nil {
				return nil, apperrors.NewContextCancelled("load temples", err)
			}

			g := BuildTempleGraph(l.extractor, rec, res.RunID)
			written, err := l.store.UpsertTemple(ctx, g)
			if err != nil {
				if !apperrors.IsErrorType(err, apperrors.ErrorTypeGraph) {
					err = apperrors.NewGraphRecordFailed(rec.Name, err)
				}
				return nil, fmt.Errorf("region %q: %w", region.Name, err)
			}

			res.Temples++
			res.Links += len(g.Links)
			res.Written.Add(written)

			log.Info("Created temple",
				zap.String("temple", rec.Name),
				zap.Strings("deities", g.LinkNames(graph.KindDeity)),
				zap.Strings("scriptures", g.LinkNames(graph.KindScripture)),
				zap.Strings("styles", g.LinkNames(graph.KindStyle)),
				zap.Strings("festivals", g.LinkNames(graph.KindFestival)),
			)
		}
		res.Regions++
	}

	res.Duration = time.Since(start)
	log.Info("Temple graph load complete",
		zap.Int("temples", res.Temples),
		zap.Int("links", res.Links),
		zap.Int("nodes_created", res.Written.NodesCreated),
		zap.Int("relationships_created", res.Written.RelationshipsCreated),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// BuildTempleGraph maps one record to its Temple node and entity links.
// Entities come from info, story, architecture and scripture mentions
// joined together; the visiting guide is stored but not scanned.
func BuildTempleGraph(ex *extract.Extractor, rec dataset.Temple, runID string) graph.TempleGraph {
	g := graph.TempleGraph{
		Temple: graph.Temple{
			Name:              rec.Name,
			State:             rec.State,
			Info:              rec.Info,
			Story:             rec.Story,
			VisitingGuide:     rec.VisitingGuide,
			Architecture:      rec.Architecture,
			ScriptureMentions: rec.MentionInScripture,
			RunID:             runID,
		},
	}

	if rec.State != "" {
		g.Links = append(g.Links, graph.EntityLink{Kind: graph.KindRegion, Name: rec.State})
	}

	found := ex.ExtractProse(strings.Join([]string{
		rec.Info,
		rec.Story,
		rec.Architecture,
		rec.MentionInScripture,
	}, " "))

	add := func(kind graph.EntityKind, names []string) {
		for _, name := range names {
			g.Links = append(g.Links, graph.EntityLink{Kind: kind, Name: name})
		}
	}
	add(graph.KindDeity, found.Deities)
	add(graph.KindScripture, found.Scriptures)
	add(graph.KindStyle, found.Styles)
	add(graph.KindFestival, found.Festivals)

	return g
}
