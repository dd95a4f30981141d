package domain

import "strings"

const (
	// DefaultIcon is the symbolic icon given to records that never picked one.
	DefaultIcon = "globe"
	// DefaultColor is the first entry of the palette.
	DefaultColor = "#3b82f6"
)

// Icons lists the symbolic icon identifiers a client knows how to render.
var Icons = []string{
	"globe", "code", "book", "image", "video", "music", "layout", "briefcase",
	"coffee", "heart", "star", "zap", "award", "smile", "cart",
}

// Palette lists the suggested record colors, DefaultColor first.
var Palette = []string{
	"#3b82f6", "#a855f7", "#ef4444", "#f97316", "#eab308",
	"#22c55e", "#14b8a6", "#6366f1", "#64748b", "#ec4899",
	"#06b6d4", "#84cc16", "#0ea5e9", "#8b5cf6", "#f43f5e",
}

// LinkRecord is the only persisted entity: one saved URL and its metadata.
//
// JSON field names are part of the storage format and must not change.
type LinkRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque unique string assigned at creation.
	ID string `json:"id"`

	// CreatedAt is the creation time in milliseconds since the epoch.
	// It is the sole sort key for "recent" ordering.
	CreatedAt int64 `json:"createdAt"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL always carries a scheme (see NormalizeURL).
	URL   string `json:"url"`
	Title string `json:"title"`

	// Description is either typed by the user or generated by enrichment.
	Description string `json:"description,omitempty"`

	// Tags keep insertion order for display.
	Tags []string `json:"tags"`

	Notes     string `json:"notes,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	// Icon is a symbolic identifier from Icons or an image URL.
	Icon string `json:"icon"`

	// Color is a #rrggbb hex code.
	Color string `json:"color"`

	// ─────────────────────────────
	// State
	// ─────────────────────────────

	IsFavorite bool `json:"isFavorite"`
	IsRead     bool `json:"isRead"`

	// AIEnriched is set once any enrichment has been applied.
	AIEnriched bool `json:"aiEnriched"`
}

// RawRecord is a record exactly as found in storage. Records written by
// older versions may lack icon, color, isRead or tags.
type RawRecord struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Icon        *string  `json:"icon,omitempty"`
	Color       *string  `json:"color,omitempty"`
	IsFavorite  *bool    `json:"isFavorite,omitempty"`
	IsRead      *bool    `json:"isRead,omitempty"`
	AIEnriched  bool     `json:"aiEnriched"`
	CreatedAt   int64    `json:"createdAt"`
	Notes       string   `json:"notes,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// Normalize back-fills the fields older records may be missing.
// It never fails and has no side effects: the stored value is left alone
// until the next explicit write.
func Normalize(raw RawRecord) LinkRecord {
	rec := LinkRecord{
		ID:          raw.ID,
		CreatedAt:   raw.CreatedAt,
		URL:         raw.URL,
		Title:       raw.Title,
		Description: raw.Description,
		Tags:        raw.Tags,
		Notes:       raw.Notes,
		Thumbnail:   raw.Thumbnail,
		Icon:        DefaultIcon,
		Color:       DefaultColor,
		AIEnriched:  raw.AIEnriched,
	}

	if raw.Icon != nil && *raw.Icon != "" {
		rec.Icon = *raw.Icon
	}
	if raw.Color != nil && *raw.Color != "" {
		rec.Color = *raw.Color
	}
	if raw.IsFavorite != nil {
		rec.IsFavorite = *raw.IsFavorite
	}
	if raw.IsRead != nil {
		rec.IsRead = *raw.IsRead
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	return rec
}

// Clone returns a copy that shares no slice memory with r.
func (r LinkRecord) Clone() LinkRecord {
	c := r
	c.Tags = append([]string{}, r.Tags...)
	return c
}

// IsImageIcon reports whether the icon is an image URL rather than a symbol.
func IsImageIcon(icon string) bool {
	return strings.HasPrefix(icon, "http")
}

// IsKnownIcon reports whether icon is one of the symbolic identifiers.
func IsKnownIcon(icon string) bool {
	for _, id := range Icons {
		if id == icon {
			return true
		}
	}
	return false
}

// ValidColor reports whether c is a #rrggbb hex code.
func ValidColor(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, ch := range c[1:] {
		switch {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
