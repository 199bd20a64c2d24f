package model

import (
	"fmt"
	"strings"
)

// LinkCategory routes a URL to its fetch strategy.
type LinkCategory string

const (
	LinkVideo   LinkCategory = "video"
	LinkSocial  LinkCategory = "social"
	LinkGeneric LinkCategory = "generic"
)

// FetchStatus tracks how far a link got through the pipeline.
type FetchStatus string

const (
	FetchPending     FetchStatus = "pending"
	FetchResolved    FetchStatus = "resolved"
	FetchUnreachable FetchStatus = "unreachable"
)

// Link is one verified external link.
type Link struct {
	URL         string       `json:"link"`
	Category    LinkCategory `json:"category"`
	FetchStatus FetchStatus  `json:"fetch_status"`
	Status      Status       `json:"status"`
	Description string       `json:"descricao"`
	DisplayText string       `json:"displayText"`
}

// LinkReport aggregates the verified links of one document, in extraction
// order.
type LinkReport struct {
	Links []Link `json:"analysis"`
}

// Serialize renders the report as the plain-text block injected into
// evaluation prompts.
func (r LinkReport) Serialize() string {
	if len(r.Links) == 0 {
		return "Nenhum link externo foi encontrado no documento."
	}
	blocks := make([]string, 0, len(r.Links))
	for _, l := range r.Links {
		blocks = append(blocks, fmt.Sprintf("Link: %s\nStatus: %s\nDescrição: %s", l.URL, l.Status, l.Description))
	}
	return strings.Join(blocks, "\n\n")
}
