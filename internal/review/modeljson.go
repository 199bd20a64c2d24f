package review

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// CleanModelJSON extracts a candidate JSON object from model output that may
// be wrapped in markdown fences or surrounding prose. It strips code-fence
// markers, then takes the substring from the first '{' to the last '}'.
func CleanModelJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// ParseModelJSON repairs and parses model output into T. Model output is
// untrusted; callers must treat an error here as a degraded result, never
// as a pipeline failure.
func ParseModelJSON[T any](text string) (T, error) {
	var out T
	cleaned := CleanModelJSON(text)
	if cleaned == "" || !strings.HasPrefix(cleaned, "{") {
		return out, eris.New("review: no JSON object found in model response")
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, eris.Wrap(err, "review: parse model JSON")
	}
	return out, nil
}
