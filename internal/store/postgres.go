package store

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/model"
)

// pgPool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    pgPool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ementa (
	id                    SERIAL PRIMARY KEY,
	nome_disciplina       TEXT NOT NULL,
	carga_horaria         INTEGER NOT NULL DEFAULT 0,
	objetivos             TEXT NOT NULL DEFAULT '',
	conteudo_programatico TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_ementa_nome ON ementa(nome_disciplina);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListEmentas(ctx context.Context) ([]model.Ementa, error) {
	query, args, err := psql.
		Select("id", "nome_disciplina", "carga_horaria", "objetivos", "conteudo_programatico").
		From("ementa").
		OrderBy("nome_disciplina ASC").
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build list ementas")
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ementas")
	}
	defer rows.Close()

	var out []model.Ementa
	for rows.Next() {
		var e model.Ementa
		if err := rows.Scan(&e.ID, &e.DisciplineName, &e.WeeklyHours, &e.Objectives, &e.Syllabus); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ementa")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list ementas iterate")
}

func (s *PostgresStore) GetEmenta(ctx context.Context, id int) (*model.Ementa, error) {
	query, args, err := psql.
		Select("id", "nome_disciplina", "carga_horaria", "objetivos", "conteudo_programatico").
		From("ementa").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build get ementa")
	}

	var e model.Ementa
	err = s.pool.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.DisciplineName, &e.WeeklyHours, &e.Objectives, &e.Syllabus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "ementa %d", id)
		}
		return nil, eris.Wrapf(err, "postgres: get ementa %d", id)
	}
	return &e, nil
}
