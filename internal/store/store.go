// Package store provides curriculum (ementa) lookup behind a driver-agnostic
// interface with PostgreSQL and SQLite implementations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the curriculum lookup used to parametrize evaluation prompts.
type Store interface {
	ListEmentas(ctx context.Context) ([]model.Ementa, error)
	GetEmenta(ctx context.Context, id int) (*model.Ementa, error)

	Migrate(ctx context.Context) error
	Close() error
}
