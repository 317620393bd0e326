package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"templegraph/backend/internal/extract"
	"templegraph/backend/internal/loader"
	"templegraph/backend/internal/report"
	"templegraph/backend/pkg/logger"
)

// Store is everything the commands need from the graph
type Store interface {
	loader.Store
	report.Source
}

type pipelineOptions struct {
	DataFile string
	Format   string
	Load     bool
	Queries  bool
}

// runPipeline optionally loads the document, then prints statistics and,
// when asked, the sample queries.
func runPipeline(ctx context.Context, store Store, out io.Writer, opts pipelineOptions) error {
	log := logger.Get()

	reporter, err := report.New(store, out, opts.Format)
	if err != nil {
		return err
	}

	if opts.Load {
		res, err := loader.New(store, extract.New()).LoadFile(ctx, opts.DataFile)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", opts.DataFile, err)
		}
		log.Info("Knowledge graph created successfully",
			zap.String("run_id", res.RunID),
			zap.Int("temples", res.Temples),
			zap.Duration("duration", res.Duration),
		)
	}

	if _, err := reporter.PrintStatistics(ctx); err != nil {
		return err
	}

	if opts.Queries {
		if _, err := reporter.RunSampleQueries(ctx); err != nil {
			return fmt.Errorf("failed to run sample queries: %w", err)
		}
	}
	return nil
}

// resetGraph deletes all data and declares the constraints again
func resetGraph(ctx context.Context, store loader.Store) error {
	log := logger.Get()

	log.Info("Deleting all data from Neo4j")
	if err := store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to delete all data: %w", err)
	}

	log.Info("Declaring constraints")
	if err := store.EnsureConstraints(ctx); err != nil {
		return fmt.Errorf("failed to create constraints: %w", err)
	}

	log.Info("Reset complete")
	return nil
}

// confirm asks before destroying data; only "y" or "yes" proceed
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "This will DELETE ALL DATA from Neo4j. Continue? (yes/no): ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
