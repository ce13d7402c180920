// Package iostore implements mapping.Store for the MEGAN SQLite mapping
// database and for PostgreSQL.
package iostore

import (
	"context"

	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/mapping"
)

// New opens the store selected by cfg.Mapping.Backend.
func New(ctx context.Context, cfg *config.Config) (mapping.Store, error) {
	switch cfg.Mapping.Backend {
	case "sqlite":
		return OpenSQLite(ctx, cfg.Mapping.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, &cfg.Database)
	default:
		return nil, UnknownBackendError(cfg.Mapping.Backend)
	}
}

// Describe returns a short human readable location of the store.
func Describe(cfg *config.Config) string {
	if cfg.Mapping.Backend == "postgres" {
		d := cfg.Database
		return "postgres://" + d.User + "@" + d.Host + "/" + d.Database
	}
	return cfg.Mapping.SQLitePath
}
