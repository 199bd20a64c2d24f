package linkcheck

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/model"
	"github.com/pontoedu/apostila-review/internal/resilience"
)

const (
	localBodyLimit  = 512 * 1024
	localExcerptLen = 1500
)

// LocalFetcher fetches page HTML directly and distills title plus main
// content. No API key needed; used as fallback when the summarization
// service cannot serve a generic link.
type LocalFetcher struct {
	client *http.Client
}

// NewLocalFetcher creates a LocalFetcher with sensible defaults.
func NewLocalFetcher() *LocalFetcher {
	return &LocalFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (f *LocalFetcher) Name() string { return "local_http" }

func (f *LocalFetcher) Supports(category model.LinkCategory) bool {
	return category == model.LinkGeneric
}

func (f *LocalFetcher) Fetch(ctx context.Context, link Classified) (string, error) {
	target := link.URL
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ApostilaReviewBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "local_http: fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, localBodyLimit))
	if err != nil {
		return "", eris.Wrap(err, "local_http: read body")
	}

	if resp.StatusCode >= 400 {
		err := eris.Errorf("local_http: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	pageURL, err := url.Parse(target)
	if err != nil {
		return "", eris.Wrap(err, "local_http: parse url")
	}

	// Readability first: distilled main article content.
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		text := collapseWhitespace(article.TextContent)
		if len(text) > localExcerptLen {
			text = text[:localExcerptLen]
		}
		return fmt.Sprintf("Título: %s\nConteúdo: %s", article.Title, text), nil
	}

	// Fallback: title and meta description via goquery.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "local_http: parse html")
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	if title == "" && desc == "" {
		return "", eris.New("local_http: page has no extractable content")
	}
	return fmt.Sprintf("Título: %s\nDescrição: %s", title, strings.TrimSpace(desc)), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
