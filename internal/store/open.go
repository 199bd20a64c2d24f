package store

import (
	"context"

	"github.com/rotisserie/eris"
)

// Open creates a Store for the given driver and runs migrations.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "postgres", "":
		s, err = NewPostgres(ctx, dsn, nil)
	case "sqlite":
		s, err = NewSQLite(dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
