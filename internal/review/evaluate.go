package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/genai"
	"github.com/pontoedu/apostila-review/internal/model"
)

// modelAnalysis is the JSON contract the evaluation prompt demands.
type modelAnalysis struct {
	Analise []modelVerdict `json:"analise"`
}

type modelVerdict struct {
	Criterio      int          `json:"criterio"`
	Status        model.Status `json:"status"`
	Justificativa string       `json:"justificativa"`
}

// Evaluator runs the criterion-evaluation stage against a generative model.
type Evaluator struct {
	generator genai.Generator
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(generator genai.Generator) *Evaluator {
	return &Evaluator{generator: generator}
}

// Evaluate sends the combined prompt to the model and merges the verdicts
// with the full catalogue. Manual criteria never reach the model; auto
// criteria the model skipped come back as "Erro". A malformed model
// response degrades every auto criterion instead of failing the run.
func (e *Evaluator) Evaluate(ctx context.Context, in PromptInput) (*model.AnalysisReport, error) {
	if len(in.Catalog.Criteria) == 0 {
		return nil, eris.Errorf("review: catalogue %s is empty", in.Catalog.Name)
	}

	prompt := BuildEvaluationPrompt(in)
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "review: model invocation")
	}

	verdicts := map[int]modelVerdict{}
	parsed, err := ParseModelJSON[modelAnalysis](text)
	if err != nil {
		zap.L().Warn("review: model response unparseable, degrading all auto criteria",
			zap.String("catalog", in.Catalog.Name),
			zap.Error(err),
		)
	} else {
		for _, v := range parsed.Analise {
			verdicts[v.Criterio] = v
		}
	}

	report := &model.AnalysisReport{RunID: uuid.NewString()}
	for _, c := range in.Catalog.Criteria {
		report.Results = append(report.Results, mergeResult(c, verdicts))
	}
	report.FinalScore = Score(in.Catalog, report.Results)

	zap.L().Info("review: evaluation complete",
		zap.String("run_id", report.RunID),
		zap.String("catalog", in.Catalog.Name),
		zap.Int("score", report.FinalScore),
	)
	return report, nil
}

func mergeResult(c model.Criterion, verdicts map[int]modelVerdict) model.CriterionResult {
	result := model.CriterionResult{
		CriterionID: c.ID,
		Description: c.DisplayText,
	}

	if c.Type == model.CriterionManual {
		result.Status = model.StatusManual
		return result
	}

	v, ok := verdicts[c.ID]
	if !ok {
		result.Status = model.StatusErro
		result.Justification = "A resposta do modelo não continha um resultado para este critério."
		return result
	}

	switch v.Status {
	case model.StatusAprovado, model.StatusReprovado:
		result.Status = v.Status
	default:
		result.Status = model.StatusErro
	}
	result.Justification = v.Justificativa
	return result
}
