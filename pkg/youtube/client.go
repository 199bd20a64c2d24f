// Package youtube provides a client for the YouTube Data API v3 video
// metadata lookup.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/resilience"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrVideoNotFound is returned when the API has no item for the given id.
var ErrVideoNotFound = eris.New("youtube: video not found")

// Client performs YouTube Data API operations.
type Client interface {
	// VideoSnippet fetches the snippet (title, description) for a video id.
	VideoSnippet(ctx context.Context, videoID string) (*Snippet, error)
}

// Snippet holds the metadata fields used by the link pipeline.
type Snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type videoListResponse struct {
	Items []struct {
		Snippet Snippet `json:"snippet"`
	} `json:"items"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a YouTube Data API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) VideoSnippet(ctx context.Context, videoID string) (*Snippet, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("youtube: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result videoListResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "youtube: unmarshal response")
	}

	if len(result.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	return &result.Items[0].Snippet, nil
}
