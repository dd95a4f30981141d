// Package vault persists the link collection as one JSON array under a single
// storage key.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

// ItemsKey is the storage key holding the serialized collection.
const ItemsKey = "linkvault_items"

// CorruptKey receives the last stored value that could not be fully
// decoded, right before a write replaces it.
const CorruptKey = ItemsKey + ".corrupt"

// ErrDuplicateID is returned by Insert when the id is already taken.
var ErrDuplicateID = errors.New("vault: duplicate id")

// Store is the single owner of the persisted collection.
//
// Every mutation reads the whole collection, changes it in memory and writes
// it back with one Set. The mutex keeps those cycles from interleaving.
type Store struct {
	storage storage.Storage
	log     logger.Logger
	mu      sync.Mutex
}

// New creates a store on top of st.
func New(st storage.Storage, log logger.Logger) *Store {
	return &Store{storage: st, log: log}
}

// Storage exposes the underlying backend (settings keys, readiness probe).
func (s *Store) Storage() storage.Storage { return s.storage }

// LoadAll returns the collection in storage order, newest insert first.
// A missing key yields an empty collection, and so does any read or decode
// failure, which is logged. Records that fail to decode on their own are
// skipped; the others are returned.
func (s *Store) LoadAll(ctx context.Context) []domain.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read(ctx)
	if err != nil {
		s.log.Error("failed to load links", logger.Error(err))
		return []domain.LinkRecord{}
	}
	return snap.recs
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id string) (domain.LinkRecord, bool) {
	return domain.FindByID(s.LoadAll(ctx), id)
}

// Insert prepends rec and persists the collection.
func (s *Store) Insert(ctx context.Context, rec domain.LinkRecord) ([]domain.LinkRecord, error) {
	return s.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		if _, ok := domain.FindByID(c, rec.ID); ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
		out := make([]domain.LinkRecord, 0, len(c)+1)
		out = append(out, rec.Clone())
		return append(out, c...), nil
	})
}

// UpdateByID replaces the record with the same id, keeping its position.
// An unknown id leaves the collection unchanged and is not an error.
func (s *Store) UpdateByID(ctx context.Context, rec domain.LinkRecord) ([]domain.LinkRecord, error) {
	return s.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		for i := range c {
			if c[i].ID == rec.ID {
				c[i] = rec.Clone()
				return c, nil
			}
		}
		return nil, errSkip
	})
}

// DeleteByID removes the record with the given id, if any.
func (s *Store) DeleteByID(ctx context.Context, id string) ([]domain.LinkRecord, error) {
	return s.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		out := c[:0]
		for _, r := range c {
			if r.ID != id {
				out = append(out, r)
			}
		}
		if len(out) == len(c) {
			return nil, errSkip
		}
		return out, nil
	})
}

// Modify applies fn to the current version of one record and persists the
// result. It reports false, without writing, when the id is unknown.
func (s *Store) Modify(ctx context.Context, id string, fn func(domain.LinkRecord) domain.LinkRecord) (domain.LinkRecord, bool, error) {
	var (
		updated domain.LinkRecord
		found   bool
	)
	_, err := s.Update(ctx, func(c []domain.LinkRecord) ([]domain.LinkRecord, error) {
		for i := range c {
			if c[i].ID == id {
				updated = fn(c[i].Clone())
				updated.ID = c[i].ID
				updated.CreatedAt = c[i].CreatedAt
				c[i] = updated
				found = true
				return c, nil
			}
		}
		return nil, errSkip
	})
	if err != nil {
		return domain.LinkRecord{}, false, err
	}
	return updated, found, nil
}

// ReplaceAll overwrites the whole collection.
func (s *Store) ReplaceAll(ctx context.Context, recs []domain.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, recs)
}

// Clear removes the collection, its corrupt backup and any extra keys
// (lock settings).
func (s *Store) Clear(ctx context.Context, extra ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range append([]string{ItemsKey, CorruptKey}, extra...) {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// errSkip tells Update to return the collection as is without writing.
var errSkip = errors.New("vault: skip write")

// Update runs one read-modify-write cycle. fn receives a private copy of the
// collection; returning errSkip aborts without writing.
//
// Damaged data (a value that is not a JSON array, or records that do not
// decode) counts as empty or is skipped, like in LoadAll. Before the first
// write over it, the raw value is copied to CorruptKey. A backend that
// cannot be read at all is an error: there is nothing to back up.
func (s *Store) Update(ctx context.Context, fn func([]domain.LinkRecord) ([]domain.LinkRecord, error)) ([]domain.LinkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	current := snap.recs

	next, err := fn(cloneAll(current))
	if errors.Is(err, errSkip) {
		return current, nil
	}
	if err != nil {
		return nil, err
	}

	if snap.damaged {
		if err := s.storage.Set(ctx, CorruptKey, snap.raw); err != nil {
			return nil, fmt.Errorf("back up damaged %s: %w", ItemsKey, err)
		}
		s.log.Warn("damaged links backed up before overwrite", logger.String("key", CorruptKey))
	}

	if err := s.write(ctx, next); err != nil {
		return nil, err
	}
	return cloneAll(next), nil
}

// snapshot is one decoded read of ItemsKey.
type snapshot struct {
	recs    []domain.LinkRecord
	raw     string
	damaged bool // raw holds data that recs does not
}

// read decodes the collection record by record so one bad record does not
// hide the others. Only a failing backend is returned as an error.
func (s *Store) read(ctx context.Context) (snapshot, error) {
	raw, err := s.storage.Get(ctx, ItemsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return snapshot{recs: []domain.LinkRecord{}}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("read %s: %w", ItemsKey, err)
	}

	snap := snapshot{raw: raw}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Error("stored links are not a JSON array, treating as empty",
			logger.String("key", ItemsKey), logger.Error(err))
		snap.recs = []domain.LinkRecord{}
		snap.damaged = true
		return snap, nil
	}

	snap.recs = make([]domain.LinkRecord, 0, len(items))
	for i, item := range items {
		var r domain.RawRecord
		if err := json.Unmarshal(item, &r); err != nil {
			s.log.Warn("skipping undecodable link",
				logger.Int("index", i), logger.Error(err))
			snap.damaged = true
			continue
		}
		snap.recs = append(snap.recs, domain.Normalize(r))
	}
	return snap, nil
}

func (s *Store) write(ctx context.Context, recs []domain.LinkRecord) error {
	if recs == nil {
		recs = []domain.LinkRecord{}
	}
	for i := range recs {
		if recs[i].Tags == nil {
			recs[i].Tags = []string{}
		}
	}

	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ItemsKey, err)
	}
	if err := s.storage.Set(ctx, ItemsKey, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", ItemsKey, err)
	}
	return nil
}

func cloneAll(c []domain.LinkRecord) []domain.LinkRecord {
	out := make([]domain.LinkRecord, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}
