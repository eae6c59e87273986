// Package store archives report runs so successive executions can be compared
// as the source files are refreshed. The pipeline itself never depends on it.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ruralstat/overdose-report/internal/config"
	"github.com/ruralstat/overdose-report/internal/model"
)

// Store defines the persistence interface for the run archive.
type Store interface {
	CreateRun(ctx context.Context) (*model.ReportRun, error)
	CompleteRun(ctx context.Context, runID string, summary []byte) error
	FailRun(ctx context.Context, runID string, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.ReportRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.ReportRun, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}
