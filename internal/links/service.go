// Package links orchestrates the link lifecycle on top of the vault:
// creation with optional AI enrichment, toggles, enrichment merges, imports.
package links

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/enrich"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/vault"
)

var (
	// ErrNotFound is returned when an operation targets an unknown id.
	ErrNotFound = errors.New("link not found")
	// ErrInvalid wraps user input that cannot become a record.
	ErrInvalid = errors.New("invalid link")
)

const maxIDAttempts = 3

// Service is safe for concurrent use.
type Service struct {
	store     *vault.Store
	enricher  enrich.Enricher
	log       logger.Logger
	now       func() time.Time
	newID     func() string
	clearKeys []string

	wg sync.WaitGroup
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClearKeys adds storage keys removed by Clear besides the collection.
func WithClearKeys(keys ...string) Option {
	return func(s *Service) { s.clearKeys = append(s.clearKeys, keys...) }
}

// New creates the service. A nil enricher disables enrichment.
func New(store *vault.Store, enricher enrich.Enricher, log logger.Logger, opts ...Option) *Service {
	if enricher == nil {
		enricher = enrich.Noop{}
	}
	s := &Service{
		store:    store,
		enricher: enricher,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enricher returns the configured enricher.
func (s *Service) Enricher() enrich.Enricher { return s.enricher }

// Create saves a new link. With smart set, the enricher is asked first:
// whatever the user typed wins and the suggestion fills the gaps.
func (s *Service) Create(ctx context.Context, d domain.Draft, smart bool) (domain.LinkRecord, error) {
	d.URL = domain.NormalizeURL(d.URL)
	if d.URL == "" {
		return domain.LinkRecord{}, fmt.Errorf("%w: url is required", ErrInvalid)
	}
	d.Title = resolveTitle(d.Title, d.URL)
	d.Tags = domain.CleanTags(d.Tags)
	color, err := resolveColor(d.Color)
	if err != nil {
		return domain.LinkRecord{}, err
	}
	d.Color = color

	if smart {
		e := s.enricher.Enrich(ctx, d.Title, d.URL)
		if strings.TrimSpace(d.Description) == "" {
			d.Description = e.Description
		}
		if len(d.Tags) == 0 {
			d.Tags = e.Tags
		}
	}

	for attempt := 1; ; attempt++ {
		rec := domain.NewLink(d, smart, s.newID(), s.now())
		_, err := s.store.Insert(ctx, rec)
		if err == nil {
			s.log.Info("link saved",
				logger.String("id", rec.ID),
				logger.String("url", rec.URL),
				logger.Bool("enriched", rec.AIEnriched))
			return rec, nil
		}
		if !errors.Is(err, vault.ErrDuplicateID) || attempt == maxIDAttempts {
			return domain.LinkRecord{}, fmt.Errorf("save link: %w", err)
		}
		s.log.Warn("id collision, regenerating", logger.String("id", rec.ID))
	}
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id string) (domain.LinkRecord, error) {
	rec, ok := s.store.Get(ctx, id)
	if !ok {
		return domain.LinkRecord{}, ErrNotFound
	}
	return rec, nil
}

// Update replaces the editable fields of a record. Identity and creation
// time always come from the stored version.
func (s *Service) Update(ctx context.Context, id string, in domain.LinkRecord) (domain.LinkRecord, error) {
	in.URL = domain.NormalizeURL(in.URL)
	if in.URL == "" {
		return domain.LinkRecord{}, fmt.Errorf("%w: url is required", ErrInvalid)
	}
	in.Title = resolveTitle(in.Title, in.URL)
	in.Tags = domain.CleanTags(in.Tags)
	if strings.TrimSpace(in.Icon) == "" {
		in.Icon = domain.DefaultIcon
	}
	color, err := resolveColor(in.Color)
	if err != nil {
		return domain.LinkRecord{}, err
	}
	in.Color = color

	return s.modify(ctx, id, func(domain.LinkRecord) domain.LinkRecord { return in })
}

// ToggleFavorite flips the favorite flag.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (domain.LinkRecord, error) {
	return s.modify(ctx, id, domain.ToggleFavorite)
}

// ToggleRead flips the read flag.
func (s *Service) ToggleRead(ctx context.Context, id string) (domain.LinkRecord, error) {
	return s.modify(ctx, id, domain.ToggleRead)
}

// Enrich asks the enricher about an existing record and merges the answer
// into the record's current version. If the record disappeared while the
// enricher was working, the answer is dropped.
func (s *Service) Enrich(ctx context.Context, id string) (domain.LinkRecord, error) {
	rec, ok := s.store.Get(ctx, id)
	if !ok {
		return domain.LinkRecord{}, ErrNotFound
	}

	e := s.enricher.Enrich(ctx, rec.Title, rec.URL)

	updated, err := s.modify(ctx, id, func(current domain.LinkRecord) domain.LinkRecord {
		return domain.ApplyEnrichment(current, e)
	})
	if errors.Is(err, ErrNotFound) {
		s.log.Debug("link deleted during enrichment, result discarded", logger.String("id", id))
	}
	return updated, err
}

// EnrichAsync runs Enrich in the background. The work outlives ctx's
// cancellation but keeps its values. Wait blocks until it is done.
func (s *Service) EnrichAsync(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Enrich(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			s.log.Error("background enrichment failed", logger.String("id", id), logger.Error(err))
		}
	}()
}

// Wait blocks until background enrichments have finished.
func (s *Service) Wait() { s.wg.Wait() }

// Delete removes a record. Unknown ids are not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// List computes a view of the collection.
func (s *Service) List(ctx context.Context, p domain.Params) []domain.LinkRecord {
	return domain.Select(s.store.LoadAll(ctx), p)
}

// All returns the collection in storage order.
func (s *Service) All(ctx context.Context) []domain.LinkRecord {
	return s.store.LoadAll(ctx)
}

// Recents returns the n newest records.
func (s *Service) Recents(ctx context.Context, n int) []domain.LinkRecord {
	return domain.Recents(s.store.LoadAll(ctx), n)
}

// Stats counts the records of each smart folder.
func (s *Service) Stats(ctx context.Context) domain.Counts {
	return domain.Summarize(s.store.LoadAll(ctx))
}

// Clear deletes every record and the lock settings.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.clearKeys...); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.log.Warn("all data cleared")
	return nil
}

// ImportDrafts adds the drafts whose normalized URL is not saved yet and
// returns how many were added. Existing records are never touched.
// The first draft ends up first in storage order.
func (s *Service) ImportDrafts(ctx context.Context, drafts []domain.Draft) (int, error) {
	added := 0
	_, err := s.store.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		known := make(map[string]bool, len(c))
		ids := make(map[string]bool, len(c))
		for _, r := range c {
			known[r.URL] = true
			ids[r.ID] = true
		}

		now := s.now()
		fresh := make([]domain.LinkRecord, 0, len(drafts))
		for _, d := range drafts {
			d.URL = domain.NormalizeURL(d.URL)
			if d.URL == "" || known[d.URL] {
				continue
			}
			known[d.URL] = true
			d.Title = resolveTitle(d.Title, d.URL)

			id := s.uniqueID(ids)
			fresh = append(fresh, domain.NewLink(d, false, id, now))
		}

		added = len(fresh)
		return append(fresh, c...), nil
	})
	if err != nil {
		return 0, fmt.Errorf("import drafts: %w", err)
	}
	return added, nil
}

// ImportRecords loads previously exported records. With replace the
// collection is overwritten, otherwise records whose id or URL is already
// present are skipped. Missing ids and timestamps are filled in.
func (s *Service) ImportRecords(ctx context.Context, recs []domain.LinkRecord, replace bool) (int, error) {
	added := 0
	_, err := s.store.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		if replace {
			c = nil
		}
		urls := make(map[string]bool, len(c))
		ids := make(map[string]bool, len(c))
		for _, r := range c {
			urls[r.URL] = true
			ids[r.ID] = true
		}

		fresh := make([]domain.LinkRecord, 0, len(recs))
		for _, r := range recs {
			r = r.Clone()
			r.URL = domain.NormalizeURL(r.URL)
			if r.URL == "" || urls[r.URL] || (r.ID != "" && ids[r.ID]) {
				continue
			}
			if r.ID == "" {
				r.ID = s.uniqueID(ids)
			}
			if r.CreatedAt == 0 {
				r.CreatedAt = s.now().UnixMilli()
			}
			r.Title = resolveTitle(r.Title, r.URL)
			r.Tags = domain.CleanTags(r.Tags)
			if r.Icon == "" {
				r.Icon = domain.DefaultIcon
			}
			if !domain.ValidColor(r.Color) {
				r.Color = domain.DefaultColor
			}
			urls[r.URL] = true
			ids[r.ID] = true
			fresh = append(fresh, r)
		}

		added = len(fresh)
		return append(fresh, c...), nil
	})
	if err != nil {
		return 0, fmt.Errorf("import records: %w", err)
	}
	return added, nil
}

func (s *Service) modify(ctx context.Context, id string, fn func(domain.LinkRecord) domain.LinkRecord) (domain.LinkRecord, error) {
	rec, found, err := s.store.Modify(ctx, id, fn)
	if err != nil {
		return domain.LinkRecord{}, fmt.Errorf("update link: %w", err)
	}
	if !found {
		return domain.LinkRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Service) uniqueID(taken map[string]bool) string {
	for attempt := 1; ; attempt++ {
		id := s.newID()
		if attempt > maxIDAttempts {
			id = uuid.NewString()
		}
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

// resolveTitle falls back to the host-derived title, then to the URL.
// resolveColor maps a blank color to the default and rejects anything
// that is not #rrggbb.
func resolveColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return domain.DefaultColor, nil
	}
	if !domain.ValidColor(c) {
		return "", fmt.Errorf("%w: color %q is not #rrggbb", ErrInvalid, c)
	}
	return c, nil
}

func resolveTitle(title, normalizedURL string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if t := domain.DefaultTitle(normalizedURL); t != "" {
		return t
	}
	return normalizedURL
}
