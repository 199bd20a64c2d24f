// Package linkcheck implements the multi-source link verification pipeline:
// URL extraction, per-category fetch strategies with retry, and aggregation
// into the link report injected into the evaluation prompts.
package linkcheck

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pontoedu/apostila-review/internal/genai"
	"github.com/pontoedu/apostila-review/internal/model"
	"github.com/pontoedu/apostila-review/internal/resilience"
	"github.com/pontoedu/apostila-review/internal/review"
)

// summarizePrompt condenses fetched content into a short description. The
// model assigns "Pendente" here; semantic judgment happens later in the
// criterion-evaluation stage.
const summarizePrompt = `Com base no seguinte resumo de uma página web/vídeo, crie uma "descricao" clara e objetiva (máximo 2 frases) sobre o conteúdo real. NÃO avalie relevância ou adequação; apenas resuma o conteúdo.

RESUMO DO CONTEÚDO:
---
%s
---

Responda OBRIGATORIAMENTE em JSON com "descricao" e "status". O status deve ser "Pendente" para indicar que a relevância será avaliada posteriormente.
Exemplo: {"descricao": "Vídeo sobre excelência e comportamento profissional no trabalho.", "status": "Pendente"}`

// maxSummarizeInputLen bounds the content passed to the summarization call.
const maxSummarizeInputLen = 4000

type linkSummary struct {
	Descricao string       `json:"descricao"`
	Status    model.Status `json:"status"`
}

// Analyzer runs the fan-out link pipeline for one analysis run.
type Analyzer struct {
	generator     genai.Generator
	fetchers      []Fetcher
	retry         resilience.RetryConfig
	maxConcurrent int
	limiter       *rate.Limiter
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithMaxConcurrent caps the number of links fetched at once.
func WithMaxConcurrent(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxConcurrent = n
		}
	}
}

// WithRateLimit throttles outbound fetch calls across the whole run.
func WithRateLimit(perSec float64) AnalyzerOption {
	return func(a *Analyzer) {
		if perSec > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithRetryConfig overrides the fetch retry configuration.
func WithRetryConfig(cfg resilience.RetryConfig) AnalyzerOption {
	return func(a *Analyzer) {
		a.retry = cfg
	}
}

// NewAnalyzer creates an Analyzer. Fetchers are tried in order for each
// link's category; the first success wins.
func NewAnalyzer(generator genai.Generator, fetchers []Fetcher, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		generator:     generator,
		fetchers:      fetchers,
		retry:         resilience.DefaultRetryConfig(),
		maxConcurrent: 8,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze fetches and summarizes every link concurrently. One link's
// failure never aborts the batch; the report keeps extraction order.
func (a *Analyzer) Analyze(ctx context.Context, urls []string) model.LinkReport {
	results := make([]model.Link, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)

	for i, rawURL := range urls {
		g.Go(func() error {
			results[i] = a.analyzeOne(gCtx, CleanURL(rawURL))
			// Failures are recorded per link, never propagated: a returned
			// error would cancel sibling fetches through the group context.
			return nil
		})
	}
	_ = g.Wait()

	return model.LinkReport{Links: results}
}

func (a *Analyzer) analyzeOne(ctx context.Context, rawURL string) model.Link {
	link := model.Link{
		URL:         rawURL,
		Category:    model.LinkGeneric,
		FetchStatus: model.FetchPending,
	}

	classified, err := Classify(rawURL)
	link.Category = classified.Category
	if err == nil {
		var content string
		content, err = a.fetch(ctx, classified)
		if err == nil {
			link = a.summarize(ctx, link, content)
			link.DisplayText = displayText(link)
			return link
		}
	}

	link.FetchStatus = model.FetchUnreachable
	link.Status = model.StatusReprovado
	if eris.Is(err, ErrSocialMedia) {
		link.Description = fmt.Sprintf("Conteúdo de rede social requer verificação manual: %s", rawURL)
	} else {
		link.Description = fmt.Sprintf("Conteúdo inacessível após tentativas. Verifique manualmente o link: %s", rawURL)
	}
	link.DisplayText = displayText(link)

	zap.L().Warn("linkcheck: link failed",
		zap.String("url", rawURL),
		zap.String("category", string(link.Category)),
		zap.Error(err),
	)
	return link
}

// fetch tries each fetcher supporting the link's category, wrapping network
// calls in the retry executor. Terminal errors skip both retry and fallback.
func (a *Analyzer) fetch(ctx context.Context, link Classified) (string, error) {
	var lastErr error
	tried := false

	for _, f := range a.fetchers {
		if !f.Supports(link.Category) {
			continue
		}
		tried = true

		// Social links never reach the network, so the limiter does not apply.
		if a.limiter != nil && link.Category != model.LinkSocial {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", eris.Wrap(err, "linkcheck: rate limiter")
			}
		}

		cfg := a.retry
		cfg.OnRetry = resilience.RetryLogger(f.Name(), "fetch")
		content, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
			return f.Fetch(ctx, link)
		})
		if err == nil {
			zap.L().Debug("linkcheck: fetched",
				zap.String("url", link.URL),
				zap.String("fetcher", f.Name()),
			)
			return content, nil
		}
		lastErr = err
		if resilience.IsTerminal(err) {
			// Policy outcome; a fallback source cannot change it.
			return "", err
		}
		zap.L().Debug("linkcheck: fetcher failed, trying next",
			zap.String("url", link.URL),
			zap.String("fetcher", f.Name()),
			zap.Error(err),
		)
	}

	if !tried {
		return "", eris.Errorf("linkcheck: no fetcher for category %s", link.Category)
	}
	return "", lastErr
}

// summarize condenses fetched content into a two-sentence description via a
// secondary model call. Parse failures degrade to the raw content with
// status "Reprovado"; they never abort the link.
func (a *Analyzer) summarize(ctx context.Context, link model.Link, content string) model.Link {
	link.FetchStatus = model.FetchResolved

	input := content
	if len(input) > maxSummarizeInputLen {
		input = input[:maxSummarizeInputLen]
	}

	text, err := a.generator.Generate(ctx, fmt.Sprintf(summarizePrompt, input))
	if err != nil {
		zap.L().Warn("linkcheck: summarize call failed", zap.String("url", link.URL), zap.Error(err))
		link.Status = model.StatusReprovado
		link.Description = fmt.Sprintf("Conteúdo inacessível após tentativas. Verifique manualmente o link: %s", link.URL)
		return link
	}

	summary, err := review.ParseModelJSON[linkSummary](text)
	if err != nil || summary.Descricao == "" {
		zap.L().Warn("linkcheck: summarize response unparseable", zap.String("url", link.URL), zap.Error(err))
		link.Status = model.StatusReprovado
		link.Description = content
		return link
	}

	link.Description = summary.Descricao
	link.Status = summary.Status
	if link.Status == "" {
		link.Status = model.StatusReprovado
	}
	return link
}

func displayText(l model.Link) string {
	return fmt.Sprintf("%s\nDescrição: %s", l.URL, l.Description)
}
