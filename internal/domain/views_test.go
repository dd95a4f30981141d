package domain

import (
	"reflect"
	"testing"
)

func ids(c []LinkRecord) []string {
	out := make([]string, 0, len(c))
	for _, r := range c {
		out = append(out, r.ID)
	}
	return out
}

func sampleCollection() []LinkRecord {
	return []LinkRecord{
		{ID: "1", Title: "Go Blog", Tags: []string{"dev"}, CreatedAt: 100, IsFavorite: true},
		{ID: "2", Title: "Recipes", Tags: []string{"Food", "xmas"}, CreatedAt: 300},
		{ID: "3", Title: "Äpfel", Tags: []string{}, CreatedAt: 200, IsRead: true, IsFavorite: true},
		{ID: "4", Title: "news", Tags: []string{"daily"}, CreatedAt: 50, IsRead: true},
	}
}

func TestRecents(t *testing.T) {
	c := []LinkRecord{
		{ID: "1", CreatedAt: 100},
		{ID: "2", CreatedAt: 300},
		{ID: "3", CreatedAt: 200},
	}

	got := ids(Recents(c, 2))
	if !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Errorf("Recents(_, 2) = %v, want [2 3]", got)
	}

	if got := Recents(sampleCollection(), 0); len(got) != 4 {
		t.Errorf("Recents(_, 0) should use the default limit, got %d records", len(got))
	}

	if c[0].ID != "1" {
		t.Error("Recents() must not reorder its input")
	}
}

func TestFilters(t *testing.T) {
	c := sampleCollection()

	if got := ids(FilterFavorites(c)); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("FilterFavorites() = %v, want [1 3]", got)
	}
	if got := ids(FilterUnread(c)); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("FilterUnread() = %v, want [1 2]", got)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "title substring", query: "blog", expected: []string{"1"}},
		{name: "tag substring ignores case", query: "foo", expected: []string{"2"}},
		{name: "unicode folding", query: "äPF", expected: []string{"3"}},
		{name: "empty matches all", query: "", expected: []string{"1", "2", "3", "4"}},
		{name: "leading space is significant", query: " blog", expected: []string{"1"}},
		{name: "trailing space is significant", query: "blog ", expected: []string{}},
		{name: "spaces only match titles with spaces", query: " ", expected: []string{"1"}},
		{name: "no match", query: "zzz", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(sampleCollection(), tt.query))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestSearchCommutesWithFolder(t *testing.T) {
	c := sampleCollection()
	for _, q := range []string{"", "e", "go", "dev", "x"} {
		a := ids(Search(FilterFavorites(c), q))
		b := ids(FilterFavorites(Search(c, q)))
		if !reflect.DeepEqual(a, b) {
			t.Errorf("query %q: search∘favorites = %v, favorites∘search = %v", q, a, b)
		}
	}
}

func TestToggleFavoriteThenFilter(t *testing.T) {
	c := []LinkRecord{{ID: "a"}, {ID: "b"}}

	c[0] = ToggleFavorite(c[0])
	if got := ids(FilterFavorites(c)); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("after toggle, favorites = %v, want [a]", got)
	}

	c[0] = ToggleFavorite(c[0])
	if got := FilterFavorites(c); len(got) != 0 {
		t.Errorf("after second toggle, favorites = %v, want none", ids(got))
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{name: "all keeps storage order", params: Params{}, expected: []string{"1", "2", "3", "4"}},
		{name: "favorites and query", params: Params{Folder: FolderFavorites, Query: "äpf"}, expected: []string{"3"}},
		{name: "unread newest", params: Params{Folder: FolderUnread, Sort: SortNewest}, expected: []string{"2", "1"}},
		{name: "oldest with limit", params: Params{Sort: SortOldest, Limit: 2}, expected: []string{"4", "1"}},
		{name: "az", params: Params{Sort: SortAZ}, expected: []string{"1", "4", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Select(sampleCollection(), tt.params))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Select(%+v) = %v, want %v", tt.params, got, tt.expected)
			}
		})
	}
}

func TestParseFolderAndSort(t *testing.T) {
	if f, err := ParseFolder(""); err != nil || f != FolderAll {
		t.Errorf("ParseFolder(\"\") = %q, %v", f, err)
	}
	if f, err := ParseFolder("Favorites"); err != nil || f != FolderFavorites {
		t.Errorf("ParseFolder(Favorites) = %q, %v", f, err)
	}
	if _, err := ParseFolder("trash"); err == nil {
		t.Error("ParseFolder(trash) should fail")
	}
	if s, err := ParseSort("AZ"); err != nil || s != SortAZ {
		t.Errorf("ParseSort(AZ) = %q, %v", s, err)
	}
	if _, err := ParseSort("random"); err == nil {
		t.Error("ParseSort(random) should fail")
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleCollection())
	want := Counts{All: 4, Favorites: 2, Unread: 2, Enriched: 0}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
