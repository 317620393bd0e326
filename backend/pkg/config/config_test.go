package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "templegraph/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "PORT", "NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE", "TEMPLE_DATA_FILE", "REPORT_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, "password", cfg.Neo4jPassword)
	assert.Equal(t, "data/hindu_temples.json", cfg.DataFile)
	assert.Equal(t, FormatText, cfg.ReportFormat)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("NEO4J_URI", "neo4j://graph:7687")
	t.Setenv("NEO4J_DATABASE", "temples")
	t.Setenv("TEMPLE_DATA_FILE", "/srv/temples.json")
	t.Setenv("REPORT_FORMAT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "neo4j://graph:7687", cfg.Neo4jURI)
	assert.Equal(t, "temples", cfg.Neo4jDatabase)
	assert.Equal(t, "/srv/temples.json", cfg.DataFile)
	assert.Equal(t, FormatYAML, cfg.ReportFormat)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Neo4jURI:      "bolt://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		DataFile:      "data/hindu_temples.json",
		ReportFormat:  FormatJSON,
	}
	require.NoError(t, valid.Validate())

	missingURI := valid
	missingURI.Neo4jURI = ""
	err := missingURI.Validate()
	var missing *apperrors.ErrConfigMissingRequired
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "NEO4J_URI", missing.Field)

	badFormat := valid
	badFormat.ReportFormat = "xml"
	err = badFormat.Validate()
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}
