package links

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/enrich"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
	"github.com/MrSnakeDoc/linkvault/internal/vault"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(t *testing.T, e enrich.Enricher, opts ...Option) (*Service, *vault.Store) {
	t.Helper()
	store := vault.New(storage.NewMemory(), logger.NewNop())
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}, opts...)
	return New(store, e, logger.NewNop(), opts...), store
}

func staticEnricher(desc string, tags ...string) enrich.Enricher {
	return enrich.Func(func(context.Context, string, string) enrich.Result {
		return enrich.Result{Description: desc, Tags: tags}
	})
}

func TestCreateManual(t *testing.T) {
	ctx := context.Background()
	called := false
	svc, store := newService(t, enrich.Func(func(context.Context, string, string) enrich.Result {
		called = true
		return enrich.Result{}
	}))

	rec, err := svc.Create(ctx, domain.Draft{URL: "example.com", Tags: []string{"a", " a ", ""}}, false)
	require.NoError(t, err)

	assert.False(t, called, "manual save never calls the enricher")
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, "Example.com", rec.Title)
	assert.Equal(t, []string{"a"}, rec.Tags)
	assert.Equal(t, fixedNow.UnixMilli(), rec.CreatedAt)
	assert.False(t, rec.AIEnriched)
	assert.False(t, rec.IsFavorite)
	assert.False(t, rec.IsRead)

	all := store.LoadAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, rec, all[0])
}

func TestCreateRequiresURL(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.Create(context.Background(), domain.Draft{Title: "x"}, false)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateColor(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, nil)

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example", Color: "  "}, false)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColor, rec.Color)

	rec, err = svc.Create(ctx, domain.Draft{URL: "b.example", Color: "#22c55e"}, false)
	require.NoError(t, err)
	assert.Equal(t, "#22c55e", rec.Color)

	_, err = svc.Create(ctx, domain.Draft{URL: "c.example", Color: "red"}, false)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Len(t, store.LoadAll(ctx), 2)
}

func TestCreateSmart(t *testing.T) {
	tests := []struct {
		name         string
		draft        domain.Draft
		enricher     enrich.Enricher
		expectedDesc string
		expectedTags []string
	}{
		{
			name:         "enrichment fills gaps",
			draft:        domain.Draft{URL: "go.dev", Title: "Go"},
			enricher:     staticEnricher("The Go site", "Dev", "Go"),
			expectedDesc: "The Go site",
			expectedTags: []string{"Dev", "Go"},
		},
		{
			name:         "user input wins",
			draft:        domain.Draft{URL: "go.dev", Description: "mine", Tags: []string{"x"}},
			enricher:     staticEnricher("theirs", "y"),
			expectedDesc: "mine",
			expectedTags: []string{"x"},
		},
		{
			name:         "enrichment unavailable still saves",
			draft:        domain.Draft{URL: "go.dev"},
			enricher:     enrich.Noop{},
			expectedDesc: "",
			expectedTags: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t, tt.enricher)

			rec, err := svc.Create(context.Background(), tt.draft, true)
			require.NoError(t, err)

			assert.True(t, rec.AIEnriched)
			assert.Equal(t, tt.expectedDesc, rec.Description)
			assert.Equal(t, tt.expectedTags, rec.Tags)
			assert.Len(t, store.LoadAll(context.Background()), 1)
		})
	}
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	svc, _ := newService(t, nil, WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.Draft{URL: "b.example"}, false)
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := vault.New(storage.NewMemory(), logger.NewNop())
	svc := New(store, nil, logger.NewNop())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec, err := svc.Create(ctx, domain.Draft{URL: fmt.Sprintf("site%d.example", i)}, false)
		require.NoError(t, err)
		require.False(t, seen[rec.ID])
		seen[rec.ID] = true
	}
}

func TestToggles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)

	fav, err := svc.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)
	assert.Equal(t, []string{rec.ID}, ids(svc.List(ctx, domain.Params{Folder: domain.FolderFavorites})))

	fav, err = svc.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fav.IsFavorite)
	assert.Empty(t, svc.List(ctx, domain.Params{Folder: domain.FolderFavorites}))

	read, err := svc.ToggleRead(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.ToggleFavorite(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrichMergesIntoCurrentVersion(t *testing.T) {
	ctx := context.Background()

	var svc *Service
	var target string
	svc, _ = newService(t, enrich.Func(func(context.Context, string, string) enrich.Result {
		// the user favorites the link while the enricher is working
		_, err := svc.ToggleFavorite(ctx, target)
		require.NoError(t, err)
		return enrich.Result{Description: "new", Tags: []string{"a", "b"}}
	}))

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example", Tags: []string{"b", "c"}}, false)
	require.NoError(t, err)
	target = rec.ID

	got, err := svc.Enrich(ctx, rec.ID)
	require.NoError(t, err)

	assert.True(t, got.AIEnriched)
	assert.True(t, got.IsFavorite, "concurrent change must survive the merge")
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, []string{"b", "c", "a"}, got.Tags)
}

func TestEnrichDiscardedWhenDeleted(t *testing.T) {
	ctx := context.Background()

	var svc *Service
	var target string
	svc, store := newService(t, enrich.Func(func(context.Context, string, string) enrich.Result {
		require.NoError(t, svc.Delete(ctx, target))
		return enrich.Result{Description: "late"}
	}))

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)
	target = rec.ID

	_, err = svc.Enrich(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.LoadAll(ctx))
}

func TestEnrichAsync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := newService(t, staticEnricher("async", "t"))

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)

	svc.EnrichAsync(ctx, rec.ID)
	cancel()
	svc.Wait()

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, got.AIEnriched)
	assert.Equal(t, "async", got.Description)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)

	in := rec
	in.ID = "other"
	in.CreatedAt = 1
	in.Title = "Renamed"
	in.URL = "b.example"
	in.Color = "#ef4444"

	got, err := svc.Update(ctx, rec.ID, in)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "https://b.example", got.URL)

	in.Color = "red"
	_, err = svc.Update(ctx, rec.ID, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in.Color = ""
	got, err = svc.Update(ctx, rec.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColor, got.Color)

	in.Color = "#ef4444"
	_, err = svc.Update(ctx, "ghost", in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	rec, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	require.NoError(t, svc.Delete(ctx, rec.ID))
	assert.Empty(t, svc.All(ctx))
}

func TestViews(t *testing.T) {
	ctx := context.Background()
	clock := fixedNow
	svc, _ := newService(t, nil, WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	for _, u := range []string{"a.example", "b.example", "c.example"} {
		_, err := svc.Create(ctx, domain.Draft{URL: u}, false)
		require.NoError(t, err)
	}

	recents := svc.Recents(ctx, 2)
	require.Len(t, recents, 2)
	assert.Equal(t, "https://c.example", recents[0].URL)
	assert.Equal(t, "https://b.example", recents[1].URL)

	assert.Equal(t, domain.Counts{All: 3, Unread: 3}, svc.Stats(ctx))
	assert.Len(t, svc.List(ctx, domain.Params{Query: "B.EX"}), 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := vault.New(mem, logger.NewNop())
	svc := New(store, nil, logger.NewNop(), WithClearKeys("biometric_enabled"))

	_, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "biometric_enabled", "true"))

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, svc.All(ctx))
	_, err = mem.Get(ctx, "biometric_enabled")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImportDrafts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	existing, err := svc.Create(ctx, domain.Draft{URL: "https://a.example", Title: "Mine"}, false)
	require.NoError(t, err)

	added, err := svc.ImportDrafts(ctx, []domain.Draft{
		{URL: "a.example", Title: "Theirs"},
		{URL: "b.example", Title: "B"},
		{URL: "c.example"},
		{URL: "b.example", Title: "B again"},
		{URL: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	all := svc.All(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "https://b.example", all[0].URL)
	assert.Equal(t, "https://c.example", all[1].URL)
	assert.Equal(t, "C.example", all[1].Title)
	assert.Equal(t, existing, all[2], "existing records are untouched")

	added, err = svc.ImportDrafts(ctx, []domain.Draft{{URL: "b.example"}})
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestImportRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	_, err := svc.Create(ctx, domain.Draft{URL: "a.example"}, false)
	require.NoError(t, err)

	recs := []domain.LinkRecord{
		{ID: "x", URL: "https://x.example", Title: "X", CreatedAt: 10, IsFavorite: true, Color: "bad"},
		{URL: "y.example"},
		{ID: "id-1", URL: "https://dup-id.example"},
		{URL: "https://a.example"},
	}

	added, err := svc.ImportRecords(ctx, recs, false)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	x, err := svc.Get(ctx, "x")
	require.NoError(t, err)
	assert.True(t, x.IsFavorite)
	assert.Equal(t, int64(10), x.CreatedAt)
	assert.Equal(t, domain.DefaultColor, x.Color)

	added, err = svc.ImportRecords(ctx, recs[:1], true)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"x"}, ids(svc.All(ctx)))
}

func ids(c []domain.LinkRecord) []string {
	out := make([]string, 0, len(c))
	for _, r := range c {
		out = append(out, r.ID)
	}
	return out
}
