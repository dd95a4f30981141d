package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/sources/homepage"
)

// DraftSource yields drafts to import.
type DraftSource interface {
	Drafts() ([]domain.Draft, error)
}

// DraftImporter stores drafts that are not saved yet.
type DraftImporter interface {
	ImportDrafts(ctx context.Context, drafts []domain.Draft) (int, error)
}

// Importer periodically imports links from Homepage files. Links already
// in the vault (same URL) are left alone, and nothing is ever deleted.
type Importer struct {
	sources       []DraftSource
	target        DraftImporter
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewImporter creates an importer. manualTrigger may be nil.
func NewImporter(
	sources []DraftSource,
	target DraftImporter,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Importer {
	return &Importer{
		sources:       sources,
		target:        target,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// HomepageSources builds sources for the configured files; empty paths are
// skipped.
func HomepageSources(bookmarkFile, servicesFile string) []DraftSource {
	var out []DraftSource
	if bookmarkFile != "" {
		out = append(out, homepage.Source{Kind: homepage.KindBookmarks, Path: bookmarkFile})
	}
	if servicesFile != "" {
		out = append(out, homepage.Source{Kind: homepage.KindServices, Path: servicesFile})
	}
	return out
}

// Start runs one import, then keeps importing on every tick and manual
// trigger until Stop or ctx is done. A failed first import is logged, not
// fatal: the file may show up later.
func (im *Importer) Start(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("initial import failed", logger.Error(err))
	}

	ticker := time.NewTicker(im.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				im.run(ctx)
			case <-im.manualTrigger:
				im.logger.Info("manual import triggered")
				im.run(ctx)
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the importer
func (im *Importer) Stop() {
	close(im.stopCh)
}

func (im *Importer) run(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("failed to import links", logger.Error(err))
	}
}

// Import reads every source and stores the new drafts. A broken source does
// not prevent the others from being imported.
func (im *Importer) Import(ctx context.Context) (int, error) {
	var (
		drafts []domain.Draft
		errs   []error
	)
	for _, src := range im.sources {
		d, err := src.Drafts()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		drafts = append(drafts, d...)
	}

	added := 0
	if len(drafts) > 0 {
		n, err := im.target.ImportDrafts(ctx, drafts)
		if err != nil {
			errs = append(errs, fmt.Errorf("store drafts: %w", err))
		}
		added = n
	}

	im.logger.Info("homepage import done",
		logger.Int("found", len(drafts)),
		logger.Int("added", added))
	return added, errors.Join(errs...)
}
