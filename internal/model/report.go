package model

// AnalysisReport is the outcome of one full document evaluation.
type AnalysisReport struct {
	RunID      string            `json:"run_id"`
	FinalScore int               `json:"pontuacaoFinal"`
	Results    []CriterionResult `json:"analise"`
}

// Result returns the result for a criterion id, or nil when absent.
func (r *AnalysisReport) Result(criterionID int) *CriterionResult {
	for i := range r.Results {
		if r.Results[i].CriterionID == criterionID {
			return &r.Results[i]
		}
	}
	return nil
}
