package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/docx"
	"github.com/pontoedu/apostila-review/internal/linkcheck"
)

var (
	linksFile   string
	linksOutput string
)

var linksCmd = &cobra.Command{
	Use:   "links [url ...]",
	Short: "Verify external links and summarize their content",
	Long:  "Runs only the link-verification stage: each URL is classified, fetched through the source chain, and summarized. URLs come from the arguments or are extracted from a document given with --file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initAnalysis()
		if err != nil {
			return err
		}

		urls := args
		if linksFile != "" {
			data, err := os.ReadFile(linksFile)
			if err != nil {
				return eris.Wrapf(err, "read %s", linksFile)
			}
			text := string(data)
			if strings.HasSuffix(strings.ToLower(linksFile), ".docx") {
				text, err = docx.ExtractText(data)
				if err != nil {
					return err
				}
			}
			urls = append(urls, linkcheck.ExtractURLs(text)...)
		}
		if len(urls) == 0 {
			return eris.New("no links to analyze; pass URLs or --file")
		}

		zap.L().Info("analyzing links", zap.Int("count", len(urls)))
		report := env.analyzer.Analyze(cmd.Context(), urls)
		return writeResult(report, linksOutput)
	},
}

func init() {
	linksCmd.Flags().StringVar(&linksFile, "file", "", "document (.docx) or text file to extract links from")
	linksCmd.Flags().StringVarP(&linksOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(linksCmd)
}
