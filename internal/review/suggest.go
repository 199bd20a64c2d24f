package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/genai"
	"github.com/pontoedu/apostila-review/internal/model"
)

// Correction is one suggested fix extracted from the document.
// Sugestao is a string for most criteria; the table-of-contents persona
// returns a list of corrected entries instead.
type Correction struct {
	Original string          `json:"original"`
	Sugestao json.RawMessage `json:"sugestao"`
	Contexto string          `json:"contexto"`
}

// SuggestionSet is the model's full answer for one rejected criterion.
type SuggestionSet struct {
	CriterionID int          `json:"criterio"`
	Correcoes   []Correction `json:"correcoes"`
}

// Persona prompts per criterion. Criteria without a dedicated persona fall
// back to the generic reviewer prompt.
var suggestionPersonas = map[int]string{
	2: `Você é um especialista em editoração de materiais didáticos. O sumário do documento abaixo está inconsistente com os títulos reais dos capítulos e seções. Para cada entrada do sumário divergente, aponte a entrada original e a lista de entradas corrigidas ('sugestao' deve ser um array de strings com as entradas na ordem correta).`,
	18: `Você é um designer instrucional. Os enunciados dos exercícios do documento abaixo estão descontextualizados. Para cada enunciado problemático, reescreva-o aplicando-o a uma situação real do cotidiano profissional da disciplina, mantendo o objetivo pedagógico original.`,
	22: `Você é um editor sênior de materiais didáticos. O documento abaixo contém trechos em linguagem coloquial, inadequada para um material didático formal. Para cada trecho coloquial, reescreva-o em registro formal, preservando o sentido.`,
}

const genericSuggestionPersona = `Você é um revisor pedagógico experiente. O critério de qualidade abaixo foi reprovado neste documento. Localize as passagens que causaram a reprovação e proponha uma correção objetiva para cada uma.`

const suggestionFooter = `Sua resposta deve ser APENAS UM OBJETO JSON VÁLIDO no formato:
{"correcoes": [{"original": "<trecho original>", "sugestao": <correção>, "contexto": "<capítulo/seção onde ocorre>"}]}
Se nenhuma correção for necessária, retorne {"correcoes": []}.`

// Suggester generates correction suggestions for rejected criteria that the
// catalogue marks as suggestion-eligible.
type Suggester struct {
	generator genai.Generator
}

// NewSuggester creates a Suggester.
func NewSuggester(generator genai.Generator) *Suggester {
	return &Suggester{generator: generator}
}

// Suggest asks the model for corrections for one rejected criterion. It is
// an error to call it for a criterion the catalogue does not mark as
// suggestion-eligible, or for one that was not rejected.
func (s *Suggester) Suggest(ctx context.Context, cat *catalog.Catalog, result model.CriterionResult, docText string) (*SuggestionSet, error) {
	c, ok := cat.ByID(result.CriterionID)
	if !ok {
		return nil, eris.Errorf("review: criterion %d not in catalogue %s", result.CriterionID, cat.Name)
	}
	if !cat.HasSuggestions(c.ID) {
		return nil, eris.Errorf("review: criterion %d has no suggestion persona", c.ID)
	}
	if result.Status != model.StatusReprovado {
		return nil, eris.Errorf("review: criterion %d was not rejected", c.ID)
	}

	text, err := s.generator.Generate(ctx, buildSuggestionPrompt(c, result, docText))
	if err != nil {
		return nil, eris.Wrapf(err, "review: suggestion for criterion %d", c.ID)
	}

	set, err := ParseModelJSON[SuggestionSet](text)
	if err != nil {
		return nil, eris.Wrapf(err, "review: parse suggestions for criterion %d", c.ID)
	}
	set.CriterionID = c.ID

	zap.L().Info("review: suggestions generated",
		zap.Int("criterion", c.ID),
		zap.Int("corrections", len(set.Correcoes)),
	)
	return &set, nil
}

func buildSuggestionPrompt(c model.Criterion, result model.CriterionResult, docText string) string {
	persona, ok := suggestionPersonas[c.ID]
	if !ok {
		persona = genericSuggestionPersona
	}
	return fmt.Sprintf(`%s

CRITÉRIO REPROVADO: %s
JUSTIFICATIVA DA REPROVAÇÃO: %s

DOCUMENTO:
---
%s
---

%s`, persona, c.DisplayText, result.Justification, docText, suggestionFooter)
}
