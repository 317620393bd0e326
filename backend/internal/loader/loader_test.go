package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templegraph/backend/internal/dataset"
	"templegraph/backend/internal/extract"
	"templegraph/backend/internal/graph"
	"templegraph/backend/internal/graph/graphtest"
	apperrors "templegraph/backend/pkg/errors"
)

const odishaDoc = `{
  "Odisha": [
    {
      "name": "Jagannath Temple",
      "state": "Odisha",
      "info": "Dedicated to Jagannath, famous for Rath Yatra.",
      "story": "",
      "architecture": "Kalinga",
      "mention_in_scripture": "Skanda Purana"
    }
  ]
}`

const sharedDeityDoc = `{
  "Tamil Nadu": [
    {"name": "Srirangam", "state": "Tamil Nadu", "info": "A shrine of Vishnu."}
  ],
  "Kerala": [
    {"name": "Guruvayur", "state": "Kerala", "story": "Vishnu appears here."}
  ]
}`

func parseDoc(t *testing.T, raw string) *dataset.Document {
	t.Helper()
	doc, err := dataset.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestBuildTempleGraph_Odisha(t *testing.T) {
	doc := parseDoc(t, odishaDoc)
	g := BuildTempleGraph(extract.New(), doc.Regions[0].Temples[0], "run-1")

	assert.Equal(t, "Jagannath Temple", g.Temple.Name)
	assert.Equal(t, "run-1", g.Temple.RunID)
	assert.Equal(t, []string{"Odisha"}, g.LinkNames(graph.KindRegion))
	assert.Equal(t, []string{"Jagannath"}, g.LinkNames(graph.KindDeity))
	assert.Equal(t, []string{"Skanda", "Skanda Purana"}, g.LinkNames(graph.KindScripture))
	assert.Equal(t, []string{"Kalinga"}, g.LinkNames(graph.KindStyle))
	assert.Equal(t, []string{"Rath Yatra"}, g.LinkNames(graph.KindFestival))
}

func TestBuildTempleGraph_VisitingGuideNotScanned(t *testing.T) {
	rec := dataset.Temple{
		Name:          "Quiet Shrine",
		VisitingGuide: "Pray to Lord Shiva at dawn.",
	}
	g := BuildTempleGraph(extract.New(), rec, "run-1")

	assert.Empty(t, g.Links)
	assert.Equal(t, "Pray to Lord Shiva at dawn.", g.Temple.VisitingGuide)
}

func TestBuildTempleGraph_StripsMarkup(t *testing.T) {
	rec := dataset.Temple{
		Name:         "Marked Up",
		Architecture: "<p>Built in the <b>Chola</b> style.</p>",
	}
	g := BuildTempleGraph(extract.New(), rec, "run-1")

	assert.Equal(t, []string{"Chola"}, g.LinkNames(graph.KindStyle))
	assert.Equal(t, rec.Architecture, g.Temple.Architecture)
}

func TestBuildTempleGraph_AngleBracketedName(t *testing.T) {
	rec := dataset.Temple{
		Name: "Hill Shrine",
		Info: "The presiding deity <Venkateswara> is worshipped here.",
	}
	g := BuildTempleGraph(extract.New(), rec, "run-1")

	assert.Equal(t, []string{"Venkateswara"}, g.LinkNames(graph.KindDeity))
}

func TestBuildTempleGraph_ParagraphsStaySeparate(t *testing.T) {
	rec := dataset.Temple{
		Name:         "Paragraphs",
		Info:         "<p>Dedicated to <b>Lord Shiva</b></p>",
		Architecture: "<p>Chola style</p>",
	}
	g := BuildTempleGraph(extract.New(), rec, "run-1")

	assert.Equal(t, []string{"Lord Shiva", "Shiva"}, g.LinkNames(graph.KindDeity))
	assert.Equal(t, []string{"Chola"}, g.LinkNames(graph.KindStyle))
}

func TestLoad_Odisha(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewMemoryStore()

	res, err := New(store, extract.New()).Load(ctx, parseDoc(t, odishaDoc))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Regions)
	assert.Equal(t, 1, res.Temples)
	assert.Equal(t, 6, res.Links)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &graph.Stats{
		Temples:             1,
		Regions:             1,
		Deities:             1,
		Scriptures:          2,
		ArchitecturalStyles: 1,
		Festivals:           1,
		Relationships:       6,
	}, stats)

	temple, ok := store.Temple("Jagannath Temple")
	require.True(t, ok)
	assert.Equal(t, res.RunID, temple.RunID)
	assert.True(t, store.HasNode(graph.LabelRegion, "Odisha"))
	assert.True(t, store.HasNode(graph.LabelFestival, "Rath Yatra"))
}

func TestLoad_SharedDeity(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewMemoryStore()

	res, err := New(store, extract.New()).Load(ctx, parseDoc(t, sharedDeityDoc))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Regions)
	assert.Equal(t, 2, res.Temples)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Deities)
	assert.Equal(t, int64(2), stats.Regions)
	assert.Equal(t, 2, store.IncomingEdges(graph.RelDedicatedTo, graph.LabelDeity, "Vishnu"))
}

func TestLoad_MissingState(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewMemoryStore()

	doc := parseDoc(t, `{"Somewhere": [{"name": "Nameless Shrine", "info": "Quiet place."}]}`)
	_, err := New(store, extract.New()).Load(ctx, doc)
	require.NoError(t, err)

	temple, ok := store.Temple("Nameless Shrine")
	require.True(t, ok)
	assert.Equal(t, "", temple.State)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Regions)
	assert.False(t, store.HasNode(graph.LabelRegion, "Somewhere"))
}

func TestLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewMemoryStore()
	l := New(store, extract.New())
	doc := parseDoc(t, sharedDeityDoc)

	first, err := l.Load(ctx, doc)
	require.NoError(t, err)
	before, err := store.Stats(ctx)
	require.NoError(t, err)

	second, err := l.Load(ctx, doc)
	require.NoError(t, err)
	after, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestLoad_CallOrder(t *testing.T) {
	store := graphtest.NewMemoryStore()

	_, err := New(store, extract.New()).Load(context.Background(), parseDoc(t, sharedDeityDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"ClearAll", "EnsureConstraints", "UpsertTemple", "UpsertTemple"}, store.Calls())
	assert.True(t, store.ConstraintsDeclared())
}

func TestLoad_RecordFailureAborts(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewMemoryStore()
	boom := errors.New("write refused")
	store.FailTemple("Srirangam", boom)

	doc := parseDoc(t, `{
	  "Kerala": [{"name": "Guruvayur", "state": "Kerala"}],
	  "Tamil Nadu": [
	    {"name": "Srirangam", "state": "Tamil Nadu", "info": "Lord Ranganatha"},
	    {"name": "Madurai", "state": "Tamil Nadu"}
	  ]
	}`)

	res, err := New(store, extract.New()).Load(ctx, doc)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))

	var recErr *apperrors.ErrGraphRecordFailed
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "Srirangam", recErr.Temple)

	assert.True(t, store.HasNode(graph.LabelTemple, "Guruvayur"))
	assert.False(t, store.HasNode(graph.LabelTemple, "Srirangam"))
	assert.False(t, store.HasNode(graph.LabelDeity, "Ranganatha"))
	assert.False(t, store.HasNode(graph.LabelTemple, "Madurai"))
}

func TestLoad_DuplicateTempleAborts(t *testing.T) {
	store := graphtest.NewMemoryStore()
	doc := parseDoc(t, `{
	  "A": [{"name": "Twin"}],
	  "B": [{"name": "Twin"}]
	}`)

	_, err := New(store, extract.New()).Load(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, graphtest.ErrConstraintViolation)
}

func TestLoad_ClearFailureStopsRun(t *testing.T) {
	store := graphtest.NewMemoryStore()
	store.FailClear(errors.New("connection refused"))

	_, err := New(store, extract.New()).Load(context.Background(), parseDoc(t, odishaDoc))
	require.Error(t, err)
	assert.Equal(t, []string{"ClearAll"}, store.Calls())
}

func TestLoad_ConstraintFailureStopsRun(t *testing.T) {
	store := graphtest.NewMemoryStore()
	store.FailConstraints(errors.New("connection refused"))

	_, err := New(store, extract.New()).Load(context.Background(), parseDoc(t, odishaDoc))
	require.Error(t, err)
	assert.Equal(t, []string{"ClearAll", "EnsureConstraints"}, store.Calls())
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := graphtest.NewMemoryStore()

	_, err := New(store, extract.New()).Load(ctx, parseDoc(t, odishaDoc))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
	assert.NotContains(t, store.Calls(), "UpsertTemple")
}

func TestLoadFile_MalformedLeavesStoreUntouched(t *testing.T) {
	store := graphtest.NewMemoryStore()
	_, err := store.UpsertTemple(context.Background(), graph.TempleGraph{Temple: graph.Temple{Name: "Existing"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "temples.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o644))

	_, err = New(store, extract.New()).LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDataset))
	assert.True(t, store.HasNode(graph.LabelTemple, "Existing"))
	assert.Equal(t, []string{"UpsertTemple"}, store.Calls())
}

func TestLoadFile_MissingFile(t *testing.T) {
	store := graphtest.NewMemoryStore()

	_, err := New(store, extract.New()).LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDataset))
	assert.Empty(t, store.Calls())
}
