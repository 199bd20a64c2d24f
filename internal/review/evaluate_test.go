package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/genai"
	"github.com/pontoedu/apostila-review/internal/model"
)

func staticGenerator(response string) genai.Generator {
	return genai.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		return response, nil
	})
}

func TestEvaluate_MergesVerdictsWithCatalogue(t *testing.T) {
	e := NewEvaluator(staticGenerator("```json\n" + `{
		"analise": [
			{"criterio": 2, "status": "Aprovado", "justificativa": ""},
			{"criterio": 3, "status": "Reprovado", "justificativa": "Uso de 'aluno' no capítulo 1."},
			{"criterio": 4, "status": "Aprovado", "justificativa": ""},
			{"criterio": 5, "status": "Aprovado", "justificativa": ""},
			{"criterio": 6, "status": "Aprovado", "justificativa": ""},
			{"criterio": 7, "status": "Aprovado", "justificativa": ""}
		]
	}` + "\n```"))

	report, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      testCatalog(),
		DocumentText: "texto da apostila",
	})
	require.NoError(t, err)
	require.Len(t, report.Results, len(testCatalog().Criteria))
	assert.NotEmpty(t, report.RunID)

	// Catalogue order is preserved.
	for i, c := range testCatalog().Criteria {
		assert.Equal(t, c.ID, report.Results[i].CriterionID)
		assert.Equal(t, c.DisplayText, report.Results[i].Description)
	}

	assert.Equal(t, model.StatusManual, report.Result(1).Status)
	assert.Equal(t, model.StatusManual, report.Result(8).Status)
	assert.Equal(t, model.StatusReprovado, report.Result(3).Status)
	assert.Equal(t, "Uso de 'aluno' no capítulo 1.", report.Result(3).Justification)

	// 5 of 6 auto approved.
	assert.Equal(t, 83, report.FinalScore)
}

func TestEvaluate_MissingAutoCriterionBecomesErro(t *testing.T) {
	e := NewEvaluator(staticGenerator(`{"analise": [{"criterio": 2, "status": "Aprovado"}]}`))

	report, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      testCatalog(),
		DocumentText: "texto",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusAprovado, report.Result(2).Status)
	for _, id := range []int{3, 4, 5, 6, 7} {
		assert.Equal(t, model.StatusErro, report.Result(id).Status, "criterion %d", id)
		assert.NotEmpty(t, report.Result(id).Justification)
	}
	// 1 of 6 auto approved: round(100/6) = 17.
	assert.Equal(t, 17, report.FinalScore)
}

func TestEvaluate_UnknownStatusBecomesErro(t *testing.T) {
	e := NewEvaluator(staticGenerator(`{"analise": [{"criterio": 2, "status": "Talvez"}]}`))

	report, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      testCatalog(),
		DocumentText: "texto",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusErro, report.Result(2).Status)
}

func TestEvaluate_UnparseableResponseDegrades(t *testing.T) {
	e := NewEvaluator(staticGenerator("desculpe, não consigo responder em JSON"))

	report, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      testCatalog(),
		DocumentText: "texto",
	})
	require.NoError(t, err, "parse failure must degrade, not abort")

	for _, c := range testCatalog().Criteria {
		if c.Type == model.CriterionManual {
			assert.Equal(t, model.StatusManual, report.Result(c.ID).Status)
		} else {
			assert.Equal(t, model.StatusErro, report.Result(c.ID).Status)
		}
	}
	assert.Equal(t, 0, report.FinalScore)
}

func TestEvaluate_GeneratorErrorPropagates(t *testing.T) {
	e := NewEvaluator(genai.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("model unavailable")
	}))

	_, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      testCatalog(),
		DocumentText: "texto",
	})
	assert.Error(t, err)
}

func TestEvaluate_EmptyCatalogue(t *testing.T) {
	e := NewEvaluator(staticGenerator(`{"analise": []}`))
	_, err := e.Evaluate(context.Background(), PromptInput{
		Catalog:      &catalog.Catalog{Name: "vazio"},
		DocumentText: "texto",
	})
	assert.Error(t, err)
}
