package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/model"
)

func suggestionCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Name:        "estudante",
		Suggestions: []int{2},
		Criteria: []model.Criterion{
			{ID: 2, DisplayText: "Sumário coerente.", Type: model.CriterionAuto},
			{ID: 3, DisplayText: "Terminologia correta.", Type: model.CriterionAuto},
		},
	}
}

func TestSuggest_ParsesCorrections(t *testing.T) {
	var capturedPrompt string
	s := NewSuggester(genaiCapture(&capturedPrompt, `{"correcoes": [
		{"original": "Capítulo 2 — Gestão", "sugestao": ["Capítulo 2 — Gestão de Projetos"], "contexto": "Sumário"}
	]}`))

	result := model.CriterionResult{
		CriterionID:   2,
		Status:        model.StatusReprovado,
		Justification: "Entrada do sumário divergente.",
	}
	set, err := s.Suggest(context.Background(), suggestionCatalog(), result, "texto do documento")
	require.NoError(t, err)

	assert.Equal(t, 2, set.CriterionID)
	require.Len(t, set.Correcoes, 1)
	assert.Equal(t, "Capítulo 2 — Gestão", set.Correcoes[0].Original)
	assert.Equal(t, "Sumário", set.Correcoes[0].Contexto)

	assert.Contains(t, capturedPrompt, "Sumário coerente.")
	assert.Contains(t, capturedPrompt, "Entrada do sumário divergente.")
	assert.Contains(t, capturedPrompt, "texto do documento")
}

func TestSuggest_RejectsIneligibleCriterion(t *testing.T) {
	s := NewSuggester(staticGenerator(`{"correcoes": []}`))
	result := model.CriterionResult{CriterionID: 3, Status: model.StatusReprovado}

	_, err := s.Suggest(context.Background(), suggestionCatalog(), result, "texto")
	assert.Error(t, err)
}

func TestSuggest_RejectsNonRejectedCriterion(t *testing.T) {
	s := NewSuggester(staticGenerator(`{"correcoes": []}`))
	result := model.CriterionResult{CriterionID: 2, Status: model.StatusAprovado}

	_, err := s.Suggest(context.Background(), suggestionCatalog(), result, "texto")
	assert.Error(t, err)
}

func TestSuggest_UnparseableResponseErrors(t *testing.T) {
	s := NewSuggester(staticGenerator("não vou responder em json"))
	result := model.CriterionResult{CriterionID: 2, Status: model.StatusReprovado}

	_, err := s.Suggest(context.Background(), suggestionCatalog(), result, "texto")
	assert.Error(t, err)
}
