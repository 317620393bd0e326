// Package graphtest provides an in-memory stand-in for the Neo4j repository.
// It keeps the same merge-on-name semantics so loader, report and server
// code can be exercised without a database.
package graphtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"templegraph/backend/internal/graph"
)

// ErrConstraintViolation is returned when a second Temple with an existing name is created
var ErrConstraintViolation = errors.New("temple name constraint violated")

type nodeKey struct {
	label graph.Label
	name  string
}

type edgeKey struct {
	temple string
	rel    graph.RelType
	to     nodeKey
}

// MemoryStore is a goroutine-safe in-memory temple graph.
type MemoryStore struct {
	mu sync.Mutex

	temples map[string]graph.Temple
	nodes   map[nodeKey]struct{}
	edges   map[edgeKey]struct{}

	constraints bool
	calls       []string

	clearErr      error
	constraintErr error
	statsErr      error
	templeErrs    map[string]error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		temples:    make(map[string]graph.Temple),
		nodes:      make(map[nodeKey]struct{}),
		edges:      make(map[edgeKey]struct{}),
		templeErrs: make(map[string]error),
	}
}

// FailClear makes ClearAll return err.
func (m *MemoryStore) FailClear(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearErr = err
}

// FailConstraints makes EnsureConstraints return err.
func (m *MemoryStore) FailConstraints(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraintErr = err
}

// FailStats makes Stats return err.
func (m *MemoryStore) FailStats(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsErr = err
}

// FailTemple makes UpsertTemple return err for the named temple; nothing
// from that record is kept.
func (m *MemoryStore) FailTemple(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templeErrs[name] = err
}

// Calls returns the names of the methods invoked so far, in order.
func (m *MemoryStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ConstraintsDeclared reports whether EnsureConstraints has succeeded.
func (m *MemoryStore) ConstraintsDeclared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constraints
}

// HasNode reports whether a node with label and name exists.
func (m *MemoryStore) HasNode(label graph.Label, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if label == graph.LabelTemple {
		_, ok := m.temples[name]
		return ok
	}
	_, ok := m.nodes[nodeKey{label, name}]
	return ok
}

// IncomingEdges counts rel edges that end at the named node.
func (m *MemoryStore) IncomingEdges(rel graph.RelType, label graph.Label, name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for e := range m.edges {
		if e.rel == rel && e.to == (nodeKey{label, name}) {
			n++
		}
	}
	return n
}

// Temple returns the stored properties of a temple.
func (m *MemoryStore) Temple(name string) (graph.Temple, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.temples[name]
	return t, ok
}

// ClearAll removes every node and edge.
func (m *MemoryStore) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "ClearAll")

	if m.clearErr != nil {
		return m.clearErr
	}
	m.temples = make(map[string]graph.Temple)
	m.nodes = make(map[nodeKey]struct{})
	m.edges = make(map[edgeKey]struct{})
	return nil
}

// EnsureConstraints records that uniqueness constraints exist.
func (m *MemoryStore) EnsureConstraints(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "EnsureConstraints")

	if m.constraintErr != nil {
		return m.constraintErr
	}
	m.constraints = true
	return nil
}

// UpsertTemple applies one record atomically.
func (m *MemoryStore) UpsertTemple(ctx context.Context, g graph.TempleGraph) (graph.WriteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "UpsertTemple")

	if err := ctx.Err(); err != nil {
		return graph.WriteSummary{}, err
	}

	name := g.Temple.Name
	if _, exists := m.temples[name]; exists {
		return graph.WriteSummary{}, fmt.Errorf("temple %q: %w", name, ErrConstraintViolation)
	}
	if err := m.templeErrs[name]; err != nil {
		return graph.WriteSummary{}, err
	}

	summary := graph.WriteSummary{NodesCreated: 1}
	m.temples[name] = g.Temple
	for _, link := range g.Links {
		node := nodeKey{link.Kind.Label, link.Name}
		if _, ok := m.nodes[node]; !ok {
			m.nodes[node] = struct{}{}
			summary.NodesCreated++
		}
		edge := edgeKey{temple: name, rel: link.Kind.Rel, to: node}
		if _, ok := m.edges[edge]; !ok {
			m.edges[edge] = struct{}{}
			summary.RelationshipsCreated++
		}
	}
	return summary, nil
}

// Stats counts nodes per label and all edges.
func (m *MemoryStore) Stats(ctx context.Context) (*graph.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Stats")

	if m.statsErr != nil {
		return nil, m.statsErr
	}

	counts := make(map[graph.Label]int64)
	for n := range m.nodes {
		counts[n.label]++
	}

	stats := &graph.Stats{}
	stats.Set(graph.LabelTemple, int64(len(m.temples)))
	for _, label := range graph.Labels[1:] {
		stats.Set(label, counts[label])
	}
	stats.Relationships = int64(len(m.edges))
	return stats, nil
}

// TemplesByDeity mirrors the repository query.
func (m *MemoryStore) TemplesByDeity(ctx context.Context, substrings []string) ([]graph.TempleLink, error) {
	return m.links(graph.KindDeity, func(name string) bool {
		for _, s := range substrings {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}), nil
}

// TemplesByStyle mirrors the repository query.
func (m *MemoryStore) TemplesByStyle(ctx context.Context, style string) ([]string, error) {
	return m.names(graph.KindStyle, style), nil
}

// TemplesByScripture mirrors the repository query.
func (m *MemoryStore) TemplesByScripture(ctx context.Context, fragment string) ([]graph.TempleLink, error) {
	return m.links(graph.KindScripture, func(name string) bool {
		return strings.Contains(name, fragment)
	}), nil
}

// TemplesInRegion mirrors the repository query.
func (m *MemoryStore) TemplesInRegion(ctx context.Context, region string) ([]string, error) {
	return m.names(graph.KindRegion, region), nil
}

// GetTemple mirrors the repository lookup.
func (m *MemoryStore) GetTemple(ctx context.Context, name string) (*graph.TempleDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.temples[name]
	if !ok {
		return nil, graph.ErrTempleNotFound{Name: name}
	}

	detail := &graph.TempleDetail{
		Temple:     t,
		Deities:    []string{},
		Scriptures: []string{},
		Styles:     []string{},
		Festivals:  []string{},
	}
	for e := range m.edges {
		if e.temple != name {
			continue
		}
		switch e.rel {
		case graph.RelLocatedIn:
			detail.Region = e.to.name
		case graph.RelDedicatedTo:
			detail.Deities = append(detail.Deities, e.to.name)
		case graph.RelMentionedIn:
			detail.Scriptures = append(detail.Scriptures, e.to.name)
		case graph.RelHasStyle:
			detail.Styles = append(detail.Styles, e.to.name)
		case graph.RelCelebrates:
			detail.Festivals = append(detail.Festivals, e.to.name)
		}
	}
	sort.Strings(detail.Deities)
	sort.Strings(detail.Scriptures)
	sort.Strings(detail.Styles)
	sort.Strings(detail.Festivals)
	return detail, nil
}

func (m *MemoryStore) links(kind graph.EntityKind, match func(string) bool) []graph.TempleLink {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []graph.TempleLink{}
	for e := range m.edges {
		if e.rel == kind.Rel && e.to.label == kind.Label && match(e.to.name) {
			out = append(out, graph.TempleLink{Temple: e.temple, Entity: e.to.name})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Temple != out[j].Temple {
			return out[i].Temple < out[j].Temple
		}
		return out[i].Entity < out[j].Entity
	})
	return out
}

func (m *MemoryStore) names(kind graph.EntityKind, entity string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []string{}
	for e := range m.edges {
		if e.rel == kind.Rel && e.to == (nodeKey{kind.Label, entity}) {
			out = append(out, e.temple)
		}
	}
	sort.Strings(out)
	return out
}
