package review

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/model"
)

// Score computes the final score over auto criteria only: the percentage of
// approved auto criteria, rounded half away from zero. Manual criteria and
// criteria in error never move the score. Zero auto criteria yields zero.
func Score(cat *catalog.Catalog, results []model.CriterionResult) int {
	totalAuto := 0
	approved := 0
	for _, r := range results {
		c, ok := cat.ByID(r.CriterionID)
		if !ok || c.Type != model.CriterionAuto {
			continue
		}
		totalAuto++
		if r.Status == model.StatusAprovado {
			approved++
		}
	}
	if totalAuto == 0 {
		return 0
	}
	return int(math.Round(100 * float64(approved) / float64(totalAuto)))
}

// Override replaces the status of one criterion result with a reviewer's
// verdict, marks it as manually edited, and recomputes the final score.
// Any status value is accepted, including moving a manual criterion to
// "Aprovado" or resetting an auto verdict back to "Pendente".
func Override(cat *catalog.Catalog, report *model.AnalysisReport, criterionID int, status model.Status) error {
	if _, ok := cat.ByID(criterionID); !ok {
		return eris.Errorf("review: criterion %d not in catalogue %s", criterionID, cat.Name)
	}
	for i := range report.Results {
		if report.Results[i].CriterionID != criterionID {
			continue
		}
		report.Results[i].Status = status
		report.Results[i].ManuallyEdited = true
		report.FinalScore = Score(cat, report.Results)
		return nil
	}
	return eris.Errorf("review: report %s has no result for criterion %d", report.RunID, criterionID)
}
