package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Draft holds the user-supplied fields of a link that does not exist yet.
type Draft struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Color       string   `json:"color,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// Enrichment is what the AI step suggests for a link.
// An empty Enrichment means "nothing to add".
type Enrichment struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// IsEmpty reports whether the enrichment carries no content.
func (e Enrichment) IsEmpty() bool {
	return e.Description == "" && len(e.Tags) == 0
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL makes sure a URL carries a network scheme.
// Anything that does not start with http:// or https:// gets https:// prepended.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !schemeRe.MatchString(raw) {
		return "https://" + raw
	}
	return raw
}

// DefaultTitle derives a display title from the URL host.
// Example: "https://www.github.com/x" -> "Github.com"
func DefaultTitle(rawURL string) string {
	u, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(host)
	return string(unicode.ToUpper(r)) + host[size:]
}

// NewLink builds a fresh record from a draft. The title is kept as given;
// resolving a default title is the caller's decision.
func NewLink(d Draft, enriched bool, id string, now time.Time) LinkRecord {
	icon := strings.TrimSpace(d.Icon)
	if icon == "" {
		icon = DefaultIcon
	}
	color := strings.TrimSpace(d.Color)
	if !ValidColor(color) {
		color = DefaultColor
	}

	return LinkRecord{
		ID:          id,
		CreatedAt:   now.UnixMilli(),
		URL:         NormalizeURL(d.URL),
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Tags:        CleanTags(d.Tags),
		Notes:       d.Notes,
		Thumbnail:   strings.TrimSpace(d.Thumbnail),
		Icon:        icon,
		Color:       color,
		IsFavorite:  false,
		IsRead:      false,
		AIEnriched:  enriched,
	}
}

// ToggleFavorite returns a copy of r with IsFavorite flipped.
func ToggleFavorite(r LinkRecord) LinkRecord {
	c := r.Clone()
	c.IsFavorite = !r.IsFavorite
	return c
}

// ToggleRead returns a copy of r with IsRead flipped.
func ToggleRead(r LinkRecord) LinkRecord {
	c := r.Clone()
	c.IsRead = !r.IsRead
	return c
}

// ApplyEnrichment merges an enrichment result into a copy of r.
// The description is only replaced by a non-empty suggestion, tags are the
// union of existing and suggested ones, and the record is marked enriched.
func ApplyEnrichment(r LinkRecord, e Enrichment) LinkRecord {
	c := r.Clone()
	if e.Description != "" {
		c.Description = e.Description
	}
	c.Tags = MergeTags(r.Tags, e.Tags)
	c.AIEnriched = true
	return c
}

// MergeTags returns existing followed by the suggested tags it does not
// already contain. Comparison is case-sensitive.
func MergeTags(existing, suggested []string) []string {
	out := make([]string, 0, len(existing)+len(suggested))
	seen := make(map[string]bool, len(existing)+len(suggested))
	for _, list := range [][]string{existing, suggested} {
		for _, t := range list {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// CleanTags trims tags, drops empty ones and removes duplicates, keeping
// the first occurrence.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseTags splits comma-separated user input into clean tags.
// Example: "dev, go,, dev" -> ["dev", "go"]
func ParseTags(s string) []string {
	return CleanTags(strings.Split(s, ","))
}
