package linkcheck

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/model"
)

// videoIDPattern extracts the canonical 11-character media id from
// youtube.com (watch, embed, short) and youtu.be forms.
var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// socialDomains is the fixed set of hosts short-circuited to manual review.
var socialDomains = map[string]bool{
	"tiktok.com":    true,
	"instagram.com": true,
	"facebook.com":  true,
	"twitter.com":   true,
	"x.com":         true,
}

// ErrNoVideoID is returned when a video-platform URL carries no extractable
// media id. This is a classification error, not a silent fallback to generic.
var ErrNoVideoID = eris.New("linkcheck: video id missing or malformed")

// Classified is a URL routed to a fetch strategy.
type Classified struct {
	URL      string
	Category model.LinkCategory
	VideoID  string
}

// Classify routes a URL to its fetch category. Video-platform URLs that
// yield no media id return ErrNoVideoID alongside the video category.
// Malformed URLs are never social; they fall through to generic.
func Classify(rawURL string) (Classified, error) {
	if strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be") {
		c := Classified{URL: rawURL, Category: model.LinkVideo}
		m := videoIDPattern.FindStringSubmatch(rawURL)
		if m == nil {
			return c, ErrNoVideoID
		}
		c.VideoID = m[1]
		return c, nil
	}

	if isSocialMedia(rawURL) {
		return Classified{URL: rawURL, Category: model.LinkSocial}, nil
	}

	return Classified{URL: rawURL, Category: model.LinkGeneric}, nil
}

// isSocialMedia matches the host (ignoring a leading www.) against the
// social-media domain set. Unparseable URLs are never social.
func isSocialMedia(rawURL string) bool {
	target := rawURL
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return socialDomains[host]
}
