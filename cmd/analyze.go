package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/docx"
	"github.com/pontoedu/apostila-review/internal/linkcheck"
	"github.com/pontoedu/apostila-review/internal/model"
	"github.com/pontoedu/apostila-review/internal/review"
)

var (
	analyzeCatalog     string
	analyzeEmentaID    int
	analyzeSuggestions bool
	analyzeOutput      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <document.docx>",
	Short: "Run the full review pipeline on a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAnalysis()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}
		text, err := docx.ExtractText(data)
		if err != nil {
			return err
		}

		cat, err := catalog.Load(analyzeCatalog)
		if err != nil {
			return err
		}

		var ementa *model.Ementa
		if analyzeEmentaID > 0 {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			ementa, err = st.GetEmenta(ctx, analyzeEmentaID)
			if err != nil {
				return err
			}
		}

		urls := linkcheck.ExtractURLs(text)
		zap.L().Info("analyzing document",
			zap.String("file", args[0]),
			zap.String("catalog", cat.Name),
			zap.Int("links", len(urls)),
		)
		linkReport := env.analyzer.Analyze(ctx, urls)

		report, err := env.evaluator.Evaluate(ctx, review.PromptInput{
			Catalog:      cat,
			Ementa:       ementa,
			DocumentText: text,
			LinkReport:   linkReport,
		})
		if err != nil {
			return err
		}

		out := struct {
			*model.AnalysisReport
			Links       model.LinkReport       `json:"links"`
			Suggestions []review.SuggestionSet `json:"sugestoes,omitempty"`
		}{AnalysisReport: report, Links: linkReport}

		if analyzeSuggestions {
			for _, res := range report.Results {
				if res.Status != model.StatusReprovado || !cat.HasSuggestions(res.CriterionID) {
					continue
				}
				set, err := env.suggester.Suggest(ctx, cat, res, text)
				if err != nil {
					zap.L().Warn("suggestion generation failed",
						zap.Int("criterion", res.CriterionID),
						zap.Error(err),
					)
					continue
				}
				out.Suggestions = append(out.Suggestions, *set)
			}
		}

		return writeResult(out, analyzeOutput)
	},
}

func writeResult(v any, path string) error {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal result")
	}
	enc = append(enc, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(enc)
		return err
	}
	return eris.Wrapf(os.WriteFile(path, enc, 0o644), "write %s", path)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCatalog, "catalog", "estudante", "criterion catalogue (estudante or professor)")
	analyzeCmd.Flags().IntVar(&analyzeEmentaID, "ementa", 0, "ementa id to parametrize the evaluation")
	analyzeCmd.Flags().BoolVar(&analyzeSuggestions, "suggestions", false, "generate correction suggestions for rejected criteria")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}
