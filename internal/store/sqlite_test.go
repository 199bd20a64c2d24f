package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoedu/apostila-review/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "apostila.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedEmenta(t *testing.T, s *SQLiteStore, e model.Ementa) int {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO ementa (nome_disciplina, carga_horaria, objetivos, conteudo_programatico) VALUES (?, ?, ?, ?)`,
		e.DisciplineName, e.WeeklyHours, e.Objectives, e.Syllabus,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func TestSQLiteStore_Ementas(t *testing.T) {
	s := newTestSQLite(t)

	seedEmenta(t, s, model.Ementa{DisciplineName: "Lógica de Programação", WeeklyHours: 100})
	id := seedEmenta(t, s, model.Ementa{
		DisciplineName: "Gestão de Projetos",
		WeeklyHours:    67,
		Objectives:     "Planejar projetos.",
		Syllabus:       "Escopo; cronograma.",
	})

	ementas, err := s.ListEmentas(context.Background())
	require.NoError(t, err)
	require.Len(t, ementas, 2)
	assert.Equal(t, "Gestão de Projetos", ementas[0].DisciplineName, "ordered by name")

	e, err := s.GetEmenta(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 67, e.WeeklyHours)
	assert.Equal(t, "Planejar projetos.", e.Objectives)
}

func TestSQLiteStore_GetEmenta_NotFound(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetEmenta(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))

	seedEmenta(t, s, model.Ementa{DisciplineName: "Motion Design", WeeklyHours: 33})
	require.NoError(t, s.Migrate(context.Background()))

	ementas, err := s.ListEmentas(context.Background())
	require.NoError(t, err)
	assert.Len(t, ementas, 1, "re-migration keeps existing rows")
}
