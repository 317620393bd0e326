package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "templegraph/backend/pkg/errors"
)

func TestParse_PreservesRegionOrder(t *testing.T) {
	input := `{
		"Tamil Nadu": [{"name": "Meenakshi Amman Temple", "state": "Tamil Nadu"}],
		"Andhra Pradesh": [
			{"name": "Tirumala Venkateswara Temple", "state": "Andhra Pradesh", "info": "Lord Venkateswara"},
			{"name": "Srikalahasti Temple", "state": "Andhra Pradesh"}
		],
		"Odisha": [{"name": "Jagannath Temple", "state": "Odisha", "info": "dedicated to Jagannath"}]
	}`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, doc.Regions, 3)
	assert.Equal(t, "Tamil Nadu", doc.Regions[0].Name)
	assert.Equal(t, "Andhra Pradesh", doc.Regions[1].Name)
	assert.Equal(t, "Odisha", doc.Regions[2].Name)
	assert.Equal(t, 4, doc.TempleCount())

	assert.Equal(t, "Srikalahasti Temple", doc.Regions[1].Temples[1].Name)
	assert.Equal(t, "dedicated to Jagannath", doc.Regions[2].Temples[0].Info)
}

func TestParse_RepeatedRegionKeepsLastValue(t *testing.T) {
	input := `{
		"Kerala": [{"name": "Guruvayur"}, {"name": "Sabarimala"}],
		"Odisha": [{"name": "Jagannath Temple"}],
		"Kerala": [{"name": "Guruvayur"}],
		"Goa": "not temples",
		"Goa": []
	}`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, doc.Regions, 3)
	assert.Equal(t, "Kerala", doc.Regions[0].Name)
	assert.Equal(t, []Temple{{Name: "Guruvayur"}}, doc.Regions[0].Temples)
	assert.Equal(t, "Odisha", doc.Regions[1].Name)
	assert.Equal(t, "Goa", doc.Regions[2].Name)
	assert.Empty(t, doc.Regions[2].Temples)
	assert.Equal(t, 2, doc.TempleCount())
}

func TestParse_NullsAndMissingFieldsBecomeEmpty(t *testing.T) {
	input := `{"Karnataka": [{"name": "Virupaksha Temple", "state": null, "story": null, "architecture": 1509, "info": ["a", null]}], "Goa": null}`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	temple := doc.Regions[0].Temples[0]
	assert.Equal(t, "Virupaksha Temple", temple.Name)
	assert.Equal(t, "", temple.State)
	assert.Equal(t, "", temple.Story)
	assert.Equal(t, "", temple.VisitingGuide)
	assert.Equal(t, "", temple.MentionInScripture)
	assert.Equal(t, "1509", temple.Architecture)
	assert.Equal(t, `["a",""]`, temple.Info)

	assert.Equal(t, "Goa", doc.Regions[1].Name)
	assert.Empty(t, doc.Regions[1].Temples)
}

func TestNormalizeNulls(t *testing.T) {
	in := map[string]any{
		"a": nil,
		"b": []any{nil, "x", map[string]any{"c": nil}},
		"d": "kept",
	}

	out := NormalizeNulls(in)
	assert.Equal(t, map[string]any{
		"a": "",
		"b": []any{"", "x", map[string]any{"c": ""}},
		"d": "kept",
	}, out)
	assert.Equal(t, "", NormalizeNulls(nil))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"top level array", `[{"name": "x"}]`},
		{"region not an array", `{"Odisha": {"name": "Jagannath Temple"}}`},
		{"temple not an object", `{"Odisha": ["Jagannath Temple"]}`},
		{"truncated", `{"Odisha": [{"name": "Jagannath Temple"}`},
		{"trailing data", `{"Odisha": []} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDataset), "got %v", err)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temples.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Kerala": [{"name": "Padmanabhaswamy Temple", "state": "Kerala"}]}`), 0o644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.TempleCount())

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	var malformed *apperrors.ErrDatasetMalformed
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, filepath.Join(dir, "missing.json"), malformed.Path)
}
