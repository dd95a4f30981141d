// Package gate implements the app lock: a two-state machine that decides
// whether the collection may be accessed.
//
// The lock is opt-in. Once enabled, every process start begins Locked and a
// successful Unlock keeps the process Unlocked until it exits.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

// Settings keys.
const (
	EnabledKey    = "biometric_enabled"
	CredentialKey = "biometric_credential"
)

var (
	// ErrDenied means the credential was not accepted. Retrying is allowed.
	ErrDenied = errors.New("authentication failed")
	// ErrLocked is returned for operations that require the Unlocked state.
	ErrLocked = errors.New("vault is locked")
	// ErrRestricted means the authenticator refused to enroll in this setting.
	ErrRestricted = errors.New("lock setup is restricted: a non-empty passphrase is required")
	// ErrEnrollFailed is any other enrollment failure.
	ErrEnrollFailed = errors.New("failed to set up the lock, please try again")
)

// State of the gate.
type State int

const (
	Unlocked State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

// Authenticator verifies the user. Implementations decide what a credential
// is; Verify must answer false for anything it cannot check.
type Authenticator interface {
	Enroll(ctx context.Context, credential string) error
	Verify(ctx context.Context, credential string) bool
	Forget(ctx context.Context) error
}

// UnlockObserver receives the result of every unlock attempt.
type UnlockObserver interface {
	ObserveUnlock(granted bool)
}

// Status is what clients need to render the lock screen and settings.
type Status struct {
	Enabled bool `json:"enabled"`
	Locked  bool `json:"locked"`
}

// Gate is safe for concurrent use.
type Gate struct {
	mu       sync.RWMutex
	state    State
	settings storage.Storage
	auth     Authenticator
	log      logger.Logger
	obs      UnlockObserver
}

// New reads the persisted setting and starts Locked when the lock is
// enabled. If the setting cannot be read the gate starts Locked.
func New(ctx context.Context, settings storage.Storage, auth Authenticator, log logger.Logger) *Gate {
	g := &Gate{settings: settings, auth: auth, log: log, state: Unlocked}

	enabled, err := g.enabled(ctx)
	switch {
	case err != nil:
		log.Error("failed to read lock setting, starting locked", logger.Error(err))
		g.state = Locked
	case enabled:
		g.state = Locked
	}
	return g
}

// WithObserver attaches an unlock observer and returns g.
func (g *Gate) WithObserver(obs UnlockObserver) *Gate {
	g.obs = obs
	return g
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsLocked reports whether the gate is Locked.
func (g *Gate) IsLocked() bool { return g.State() == Locked }

// Status combines the persisted setting with the in-memory state.
func (g *Gate) Status(ctx context.Context) Status {
	enabled, err := g.enabled(ctx)
	if err != nil {
		g.log.Warn("failed to read lock setting", logger.Error(err))
	}
	return Status{Enabled: enabled, Locked: g.IsLocked()}
}

// Unlock verifies credential. On failure the state is unchanged and
// ErrDenied is returned.
func (g *Gate) Unlock(ctx context.Context, credential string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Unlocked {
		return nil
	}

	ok := g.auth.Verify(ctx, credential)
	if g.obs != nil {
		g.obs.ObserveUnlock(ok)
	}
	if !ok {
		g.log.Warn("unlock denied")
		return ErrDenied
	}

	g.state = Unlocked
	g.log.Info("vault unlocked")
	return nil
}

// Enable enrolls credential and persists the setting. It does not lock the
// running process; the next start will.
func (g *Gate) Enable(ctx context.Context, credential string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Locked {
		return ErrLocked
	}

	if err := g.auth.Enroll(ctx, credential); err != nil {
		g.log.Error("lock enrollment failed", logger.Error(err))
		if errors.Is(err, ErrRestricted) {
			return ErrRestricted
		}
		return ErrEnrollFailed
	}

	if err := g.settings.Set(ctx, EnabledKey, "true"); err != nil {
		g.log.Error("failed to persist lock setting", logger.Error(err))
		if ferr := g.auth.Forget(ctx); ferr != nil {
			g.log.Warn("failed to roll back enrollment", logger.Error(ferr))
		}
		return ErrEnrollFailed
	}

	g.log.Info("app lock enabled")
	return nil
}

// Disable removes the setting and the enrolled credential. Only allowed
// while Unlocked.
func (g *Gate) Disable(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Locked {
		return ErrLocked
	}

	if err := g.settings.Delete(ctx, EnabledKey); err != nil {
		return fmt.Errorf("disable lock: %w", err)
	}
	if err := g.auth.Forget(ctx); err != nil {
		return fmt.Errorf("forget credential: %w", err)
	}

	g.log.Info("app lock disabled")
	return nil
}

// Keys lists the settings owned by the gate ("clear all data").
func Keys() []string {
	return []string{EnabledKey, CredentialKey}
}

func (g *Gate) enabled(ctx context.Context) (bool, error) {
	v, err := g.settings.Get(ctx, EnabledKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}
