package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pontoedu/apostila-review/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ementa (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	nome_disciplina       TEXT NOT NULL,
	carga_horaria         INTEGER NOT NULL DEFAULT 0,
	objetivos             TEXT NOT NULL DEFAULT '',
	conteudo_programatico TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_ementa_nome ON ementa(nome_disciplina);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListEmentas(ctx context.Context) ([]model.Ementa, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nome_disciplina, carga_horaria, objetivos, conteudo_programatico
		 FROM ementa ORDER BY nome_disciplina ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ementas")
	}
	defer rows.Close()

	var out []model.Ementa
	for rows.Next() {
		var e model.Ementa
		if err := rows.Scan(&e.ID, &e.DisciplineName, &e.WeeklyHours, &e.Objectives, &e.Syllabus); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ementa")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list ementas iterate")
}

func (s *SQLiteStore) GetEmenta(ctx context.Context, id int) (*model.Ementa, error) {
	var e model.Ementa
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome_disciplina, carga_horaria, objetivos, conteudo_programatico
		 FROM ementa WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.DisciplineName, &e.WeeklyHours, &e.Objectives, &e.Syllabus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "ementa %d", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get ementa %d", id)
	}
	return &e, nil
}
