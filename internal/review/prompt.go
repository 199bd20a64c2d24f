// Package review orchestrates criterion evaluation: prompt assembly, model
// invocation with response repair, scoring, and manual overrides.
package review

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/model"
)

// Placeholders recognized in criterion prompt templates.
const (
	placeholderLinkReport = "{{LINK_REPORT}}"
	placeholderDiscipline = "{{DISCIPLINA}}"
	placeholderHours      = "{{CARGA_HORARIA}}"
	placeholderObjectives = "{{OBJETIVOS}}"
	placeholderSyllabus   = "{{CONTEUDO_PROGRAMATICO}}"
)

const evaluationPromptHeader = `Você é um especialista em análise de conteúdo pedagógico para materiais de %s. Sua tarefa é analisar a APOSTILA e avaliá-la com base nos seguintes critérios.
Sua resposta deve ser APENAS UM OBJETO JSON VÁLIDO.
Para cada critério, determine o status como "Aprovado" ou "Reprovado".

INSTRUÇÃO IMPORTANTE PARA JUSTIFICATIVA:
- Para critérios APROVADOS, a 'justificativa' deve ser uma string vazia "".
- Para critérios REPROVADOS, a 'justificativa' deve ser curta e cirúrgica, apontando apenas um ou dois exemplos claros do problema e sua localização (Capítulo e Seção, se possível). Não liste todas as ocorrências.`

const evaluationPromptFooter = `FORMATO JSON DE SAÍDA OBRIGATÓRIO (sem pontuacaoFinal):
{"analise": [{"criterio": <number>, "status": "<Aprovado ou Reprovado>", "justificativa": "<string>"}]}`

// PromptInput carries everything the builder needs for one analysis run.
// The builder is a pure function of this input; it mutates nothing.
type PromptInput struct {
	Catalog      *catalog.Catalog
	Ementa       *model.Ementa
	DocumentText string
	LinkReport   model.LinkReport
}

// BuildEvaluationPrompt materializes the combined prompt covering every auto
// criterion in the catalogue.
func BuildEvaluationPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, evaluationPromptHeader, in.Catalog.Name)
	b.WriteString("\n\n")

	if in.Ementa != nil {
		b.WriteString("PARÂMETROS DA DISCIPLINA:\n")
		fmt.Fprintf(&b, "Disciplina: %s\n", in.Ementa.DisciplineName)
		fmt.Fprintf(&b, "Carga horária: %dh\n", in.Ementa.WeeklyHours)
		fmt.Fprintf(&b, "Objetivos: %s\n", in.Ementa.Objectives)
		fmt.Fprintf(&b, "Conteúdo programático: %s\n", in.Ementa.Syllabus)
		b.WriteString("\n")
	}

	b.WriteString("LISTA DE CRITÉRIOS PARA ANÁLISE:\n")
	for _, c := range in.Catalog.Auto() {
		fmt.Fprintf(&b, "%d. %s\n", c.ID, expandPlaceholders(c.Instruction(), in))
	}

	b.WriteString("\nAPOSTILA COMPLETA PARA ANÁLISE:\n---\n")
	b.WriteString(in.DocumentText)
	b.WriteString("\n---\n\n")
	b.WriteString(evaluationPromptFooter)

	return b.String()
}

// expandPlaceholders substitutes curriculum fields and the serialized link
// report into a criterion template.
func expandPlaceholders(template string, in PromptInput) string {
	out := strings.ReplaceAll(template, placeholderLinkReport, in.LinkReport.Serialize())
	if in.Ementa == nil {
		return out
	}
	r := strings.NewReplacer(
		placeholderDiscipline, in.Ementa.DisciplineName,
		placeholderHours, strconv.Itoa(in.Ementa.WeeklyHours),
		placeholderObjectives, in.Ementa.Objectives,
		placeholderSyllabus, in.Ementa.Syllabus,
	)
	return r.Replace(out)
}
