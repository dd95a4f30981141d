package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

// Passphrase authenticates with a secret whose bcrypt hash is kept in the
// settings storage.
type Passphrase struct {
	store storage.Storage
	cost  int
}

var _ Authenticator = (*Passphrase)(nil)

// NewPassphrase stores hashes in store. cost <= 0 means bcrypt.DefaultCost.
func NewPassphrase(store storage.Storage, cost int) *Passphrase {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Passphrase{store: store, cost: cost}
}

func (p *Passphrase) Enroll(ctx context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return ErrRestricted
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), p.cost)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	if err := p.store.Set(ctx, CredentialKey, string(hash)); err != nil {
		return fmt.Errorf("store passphrase: %w", err)
	}
	return nil
}

func (p *Passphrase) Verify(ctx context.Context, credential string) bool {
	hash, err := p.store.Get(ctx, CredentialKey)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}

func (p *Passphrase) Forget(ctx context.Context) error {
	if err := p.store.Delete(ctx, CredentialKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}
