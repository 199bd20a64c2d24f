package linkcheck

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/model"
	"github.com/pontoedu/apostila-review/internal/resilience"
	"github.com/pontoedu/apostila-review/pkg/perplexity"
	"github.com/pontoedu/apostila-review/pkg/youtube"
)

// maxVideoDescriptionLen truncates video descriptions before they reach
// the summarization prompt.
const maxVideoDescriptionLen = 500

// Fetcher obtains descriptive content for a classified link. Terminal
// failures are wrapped in resilience.TerminalError; everything else may be
// retried by the caller.
type Fetcher interface {
	Name() string
	Supports(category model.LinkCategory) bool
	Fetch(ctx context.Context, link Classified) (string, error)
}

// VideoFetcher resolves video links through the video-metadata API.
type VideoFetcher struct {
	client youtube.Client
}

// NewVideoFetcher creates a VideoFetcher.
func NewVideoFetcher(client youtube.Client) *VideoFetcher {
	return &VideoFetcher{client: client}
}

func (f *VideoFetcher) Name() string { return "youtube_api" }

func (f *VideoFetcher) Supports(category model.LinkCategory) bool {
	return category == model.LinkVideo
}

func (f *VideoFetcher) Fetch(ctx context.Context, link Classified) (string, error) {
	if link.VideoID == "" {
		// Retrying cannot produce an id that isn't in the URL.
		return "", resilience.NewTerminalError(ErrNoVideoID)
	}

	snippet, err := f.client.VideoSnippet(ctx, link.VideoID)
	if err != nil {
		if eris.Is(err, youtube.ErrVideoNotFound) {
			return "", resilience.NewTerminalError(err)
		}
		return "", err
	}

	desc := snippet.Description
	if len(desc) > maxVideoDescriptionLen {
		desc = desc[:maxVideoDescriptionLen]
	}
	return fmt.Sprintf("Título: %s\nDescrição: %s...", snippet.Title, desc), nil
}

// ErrSocialMedia is the policy outcome for social-media links: never fetched,
// always routed to manual review.
var ErrSocialMedia = eris.New("conteúdo de rede social requer verificação manual")

// SocialFetcher short-circuits social-media links without any network call.
type SocialFetcher struct{}

// NewSocialFetcher creates a SocialFetcher.
func NewSocialFetcher() *SocialFetcher { return &SocialFetcher{} }

func (f *SocialFetcher) Name() string { return "social_policy" }

func (f *SocialFetcher) Supports(category model.LinkCategory) bool {
	return category == model.LinkSocial
}

func (f *SocialFetcher) Fetch(_ context.Context, _ Classified) (string, error) {
	return "", resilience.NewTerminalError(ErrSocialMedia)
}

// GenericFetcher resolves generic web links through the summarization API.
type GenericFetcher struct {
	client perplexity.Client
}

// NewGenericFetcher creates a GenericFetcher.
func NewGenericFetcher(client perplexity.Client) *GenericFetcher {
	return &GenericFetcher{client: client}
}

func (f *GenericFetcher) Name() string { return "perplexity" }

func (f *GenericFetcher) Supports(category model.LinkCategory) bool {
	return category == model.LinkGeneric
}

func (f *GenericFetcher) Fetch(ctx context.Context, link Classified) (string, error) {
	return f.client.Summarize(ctx, link.URL)
}
