// Package model holds the shared domain types for the review pipeline.
package model

// CriterionType distinguishes model-evaluated criteria from those a human
// reviewer must check.
type CriterionType string

const (
	CriterionAuto   CriterionType = "auto"
	CriterionManual CriterionType = "manual"
)

// Status is the verdict vocabulary used across links and criteria.
type Status string

const (
	StatusAprovado  Status = "Aprovado"
	StatusReprovado Status = "Reprovado"
	StatusPendente  Status = "Pendente"
	StatusManual    Status = "Análise Manual"
	StatusErro      Status = "Erro"
)

// Criterion is one quality check from a catalogue.
type Criterion struct {
	ID          int           `yaml:"id" json:"id"`
	DisplayText string        `yaml:"display_text" json:"display_text"`
	PromptText  string        `yaml:"prompt_text" json:"-"`
	Type        CriterionType `yaml:"type" json:"type"`
}

// Instruction returns the text sent to the model: the dedicated prompt
// template when one exists, the display text otherwise.
func (c Criterion) Instruction() string {
	if c.PromptText != "" {
		return c.PromptText
	}
	return c.DisplayText
}

// CriterionResult is one criterion's verdict in an analysis report.
type CriterionResult struct {
	CriterionID    int    `json:"criterio"`
	Description    string `json:"descricao"`
	Status         Status `json:"status"`
	Justification  string `json:"justificativa"`
	ManuallyEdited bool   `json:"manual_edit,omitempty"`
}
