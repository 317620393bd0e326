package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"templegraph/backend/pkg/config"
	apperrors "templegraph/backend/pkg/errors"
	"templegraph/backend/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewRepository creates a new graph repository on the server's default database
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// WithDatabase returns a copy of the repository bound to a named database
func (r *Repository) WithDatabase(name string) *Repository {
	cp := *r
	cp.database = name
	return &cp
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Connect creates a driver for the configured server and verifies it is reachable.
// The driver is closed again when verification fails.
func Connect(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		if closeErr := driver.Close(ctx); closeErr != nil {
			logger.Get().Warn("Failed to close driver after connectivity check", zap.Error(closeErr))
		}
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	return driver, nil
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
}
