// Package report prints graph statistics and the sample queries in text,
// JSON or YAML.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"templegraph/backend/internal/constants"
	"templegraph/backend/internal/graph"
	"templegraph/backend/pkg/config"
	apperrors "templegraph/backend/pkg/errors"
	"templegraph/backend/pkg/logger"
)

// Source is the read side of the graph
type Source interface {
	Stats(ctx context.Context) (*graph.Stats, error)
	TemplesByDeity(ctx context.Context, substrings []string) ([]graph.TempleLink, error)
	TemplesByStyle(ctx context.Context, style string) ([]string, error)
	TemplesByScripture(ctx context.Context, fragment string) ([]graph.TempleLink, error)
	TemplesInRegion(ctx context.Context, region string) ([]string, error)
}

// QueryResult is one sample query with its rows. Each row has one value per column.
type QueryResult struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Reporter writes reports to an output stream
type Reporter struct {
	source Source
	out    io.Writer
	format string
	theme  *Theme
	logger *zap.Logger
}

// New creates a reporter. format must be one of the config formats.
func New(source Source, out io.Writer, format string) (*Reporter, error) {
	if format == "" {
		format = config.FormatText
	}
	if !config.ValidFormat(format) {
		return nil, apperrors.NewConfigValidationFailed("format",
			fmt.Sprintf("unsupported output format %q (use text, json or yaml)", format))
	}
	return &Reporter{
		source: source,
		out:    out,
		format: format,
		theme:  NewTheme(lipgloss.NewRenderer(out)),
		logger: logger.Get(),
	}, nil
}

// PrintStatistics writes node counts per label and the relationship count
func (r *Reporter) PrintStatistics(ctx context.Context) (*graph.Stats, error) {
	stats, err := r.source.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	switch r.format {
	case config.FormatJSON:
		err = r.writeJSON(map[string]*graph.Stats{"statistics": stats})
	case config.FormatYAML:
		err = r.writeYAML(map[string]*graph.Stats{"statistics": stats})
	default:
		err = r.writeStatsText(stats)
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RunSampleQueries runs the four canned queries and writes their rows
func (r *Reporter) RunSampleQueries(ctx context.Context) ([]QueryResult, error) {
	results, err := r.sampleQueries(ctx)
	if err != nil {
		return nil, err
	}

	switch r.format {
	case config.FormatJSON:
		err = r.writeJSON(map[string][]QueryResult{"queries": results})
	case config.FormatYAML:
		err = r.writeYAML(map[string][]QueryResult{"queries": results})
	default:
		err = r.writeQueriesText(results)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Reporter) sampleQueries(ctx context.Context) ([]QueryResult, error) {
	deities, err := r.source.TemplesByDeity(ctx, constants.SampleDeitySubstrings)
	if err != nil {
		return nil, err
	}
	styled, err := r.source.TemplesByStyle(ctx, constants.SampleStyle)
	if err != nil {
		return nil, err
	}
	scriptures, err := r.source.TemplesByScripture(ctx, constants.SampleScriptureFragment)
	if err != nil {
		return nil, err
	}
	regional, err := r.source.TemplesInRegion(ctx, constants.SampleRegion)
	if err != nil {
		return nil, err
	}

	results := []QueryResult{
		linkResult(fmt.Sprintf("Temples dedicated to %s", strings.Join(constants.SampleDeitySubstrings, " or ")), "deity", deities),
		nameResult(fmt.Sprintf("Temples with %s architecture", constants.SampleStyle), styled),
		linkResult(fmt.Sprintf("Temples mentioned in %s scriptures", constants.SampleScriptureFragment), "scripture", scriptures),
		nameResult(fmt.Sprintf("Temples in %s", constants.SampleRegion), regional),
	}
	for _, res := range results {
		r.logger.Debug("Sample query complete", zap.String("query", res.Title), zap.Int("rows", len(res.Rows)))
	}
	return results, nil
}

func linkResult(title, entity string, links []graph.TempleLink) QueryResult {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.Temple, l.Entity})
	}
	return QueryResult{Title: title, Columns: []string{"temple", entity}, Rows: rows}
}

func nameResult(title string, names []string) QueryResult {
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}
	return QueryResult{Title: title, Columns: []string{"temple"}, Rows: rows}
}

func (r *Reporter) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	return nil
}

func (r *Reporter) writeYAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}
	return enc.Close()
}
