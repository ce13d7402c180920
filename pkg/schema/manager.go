package schema

import "context"

// Manager creates the mapping store schema in PostgreSQL.
type Manager interface {
	// Create creates missing tables and columns. Existing data is kept.
	Create(ctx context.Context) error
}
