package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultRecentsLimit is the number of records shown on the home view.
const DefaultRecentsLimit = 5

// Folder is a smart folder: a named, always up-to-date filter.
type Folder string

const (
	FolderAll       Folder = "all"
	FolderFavorites Folder = "favorites"
	FolderUnread    Folder = "unread"
)

// SortOrder selects how a view is ordered. The zero value keeps storage order.
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortAZ     SortOrder = "az"
)

// ParseFolder maps user input to a Folder. Empty input means FolderAll.
func ParseFolder(s string) (Folder, error) {
	switch f := Folder(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FolderAll:
		return FolderAll, nil
	case FolderFavorites, FolderUnread:
		return f, nil
	default:
		return "", fmt.Errorf("unknown folder %q", s)
	}
}

// ParseSort maps user input to a SortOrder. Empty input means SortNone.
func ParseSort(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortNewest, SortOldest, SortAZ:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Recents returns the limit most recently created records, newest first.
// A non-positive limit falls back to DefaultRecentsLimit.
func Recents(c []LinkRecord, limit int) []LinkRecord {
	if limit <= 0 {
		limit = DefaultRecentsLimit
	}
	out := Sort(c, SortNewest)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterFavorites keeps favorite records.
func FilterFavorites(c []LinkRecord) []LinkRecord {
	return filter(c, func(r LinkRecord) bool { return r.IsFavorite })
}

// FilterUnread keeps records not marked as read.
func FilterUnread(c []LinkRecord) []LinkRecord {
	return filter(c, func(r LinkRecord) bool { return !r.IsRead })
}

// Search keeps records whose title or any tag contains query, ignoring case.
// The query is used as typed, spaces included. An empty query matches
// everything.
func Search(c []LinkRecord, query string) []LinkRecord {
	if query == "" {
		return filter(c, func(LinkRecord) bool { return true })
	}

	fold := cases.Fold()
	q := fold.String(query)
	return filter(c, func(r LinkRecord) bool {
		if strings.Contains(fold.String(r.Title), q) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(fold.String(tag), q) {
				return true
			}
		}
		return false
	})
}

// ApplyFolder narrows c to the records of a smart folder.
func ApplyFolder(c []LinkRecord, f Folder) []LinkRecord {
	switch f {
	case FolderFavorites:
		return FilterFavorites(c)
	case FolderUnread:
		return FilterUnread(c)
	default:
		return filter(c, func(LinkRecord) bool { return true })
	}
}

// Sort returns a sorted copy of c. Ties keep their relative order.
func Sort(c []LinkRecord, order SortOrder) []LinkRecord {
	out := append([]LinkRecord(nil), c...)
	switch order {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	case SortAZ:
		fold := cases.Fold()
		keys := make(map[string]string, len(out))
		for _, r := range out {
			keys[r.ID] = fold.String(r.Title)
		}
		sort.SliceStable(out, func(i, j int) bool {
			ki, kj := keys[out[i].ID], keys[out[j].ID]
			if ki != kj {
				return ki < kj
			}
			return out[i].CreatedAt > out[j].CreatedAt
		})
	}
	return out
}

// Params describe a view requested by a client.
type Params struct {
	Folder Folder
	Query  string
	Sort   SortOrder
	Limit  int // <= 0 means no limit
}

// Select computes a view: folder and search narrow the collection together,
// then the result is sorted and truncated.
func Select(c []LinkRecord, p Params) []LinkRecord {
	out := Search(ApplyFolder(c, p.Folder), p.Query)
	if p.Sort != SortNone {
		out = Sort(out, p.Sort)
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// Counts feed the dashboard tiles.
type Counts struct {
	All       int `json:"all"`
	Favorites int `json:"favorites"`
	Unread    int `json:"unread"`
	Enriched  int `json:"enriched"`
}

// Summarize counts the records of each smart folder.
func Summarize(c []LinkRecord) Counts {
	counts := Counts{All: len(c)}
	for _, r := range c {
		if r.IsFavorite {
			counts.Favorites++
		}
		if !r.IsRead {
			counts.Unread++
		}
		if r.AIEnriched {
			counts.Enriched++
		}
	}
	return counts
}

// FindByID returns the record with the given id.
func FindByID(c []LinkRecord, id string) (LinkRecord, bool) {
	for _, r := range c {
		if r.ID == id {
			return r, true
		}
	}
	return LinkRecord{}, false
}

func filter(c []LinkRecord, keep func(LinkRecord) bool) []LinkRecord {
	out := make([]LinkRecord, 0, len(c))
	for _, r := range c {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
