package entity

import "strings"

// InfoSeparator joins the metadata fields of a catalog item.
const InfoSeparator = " | "

// CatalogItem is a normalized search result. It is never persisted.
type CatalogItem struct {
	ExternalID   string `json:"external_id"`
	Title        string `json:"title"`
	SubtitleInfo string `json:"subtitle_info"`
	ImageURL     string `json:"image_url,omitempty"`
	Author       string `json:"author,omitempty"`
	Year         int    `json:"year,omitempty"`
}

// JoinInfo joins metadata fields with InfoSeparator, skipping blank ones so the
// result never carries two separators in a row.
func JoinInfo(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, InfoSeparator)
}

// Selection is the user's in-progress choice, complete only when both parts are set.
type Selection struct {
	Domain     Domain      `json:"domain"`
	Item       CatalogItem `json:"item"`
	ConsumedOn Date        `json:"consumed_on"`
}
