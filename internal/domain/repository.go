package domain

import (
	"context"
	"time"
)

// UiNode is one node of the foreground app's accessibility tree.
// The tree is owned by the platform: it is borrowed for the duration of a
// single matching pass and every visited node must be released before the
// pass returns. Implementations may return nil children for nodes that
// disappeared between snapshot and visit.
type UiNode interface {
	// Text returns the node's visible text, or "".
	Text() string

	// ContentDescription returns the accessibility description, or "".
	ContentDescription() string

	// ViewID returns the fully-qualified resource identifier
	// (e.g. "com.instagram.android:id/clips_video_container"), or "".
	ViewID() string

	// Selected reports whether the node is selected or checked.
	Selected() bool

	// ChildCount returns the number of children.
	ChildCount() int

	// Child returns a fresh handle to the i-th child, or nil if it is
	// gone. The caller owns the returned handle and must release it.
	Child(i int) UiNode

	// Release returns the node handle to the platform. Live handles are
	// limited by the OS, so failing to release is a leak, not a style issue.
	Release()
}

// RuleStore provides access to blocking rules.
// Implementation: SQLCipher-encrypted SQLite with an indexed package lookup.
type RuleStore interface {
	// GetEnabledRulesForPackage returns enabled rules for the package,
	// ordered by rule ID ascending. Safe to call on every accepted event.
	GetEnabledRulesForPackage(ctx context.Context, pkg string) ([]BlockRule, error)

	// GetAll returns every rule, enabled or not.
	GetAll(ctx context.Context) ([]BlockRule, error)

	// Upsert creates or replaces a rule.
	Upsert(ctx context.Context, rule BlockRule) error

	// SetEnabled toggles a rule.
	SetEnabled(ctx context.Context, id RuleID, enabled bool) error

	// Delete removes a rule.
	Delete(ctx context.Context, id RuleID) error

	// Close releases the backing database.
	Close() error
}

// Navigator performs the synthetic global back action against the
// foreground app. Best effort: no return contract beyond the error.
type Navigator interface {
	NavigateBack(ctx context.Context) error
}

// OverlayPresenter shows the blocking overlay. Fire-and-forget: the caller
// never waits on the overlay's lifecycle.
type OverlayPresenter interface {
	ShowBlockOverlay(appName, featureName string) error
}

// SessionTracker identifies the application currently in the foreground.
type SessionTracker interface {
	// Observe records the package (and PID, if known) from an event.
	Observe(pkg string, pid int)

	// ForegroundPackage returns the last observed foreground package.
	ForegroundPackage() string

	// IsAlive reports whether the foreground process still exists.
	IsAlive() bool
}

// EventSource delivers platform accessibility notifications.
// Implementations: the platform bridge in production, replay in tests/CLI.
type EventSource interface {
	// Events returns the channel of incoming notifications. The channel is
	// closed when the source is exhausted or the context is canceled.
	Events(ctx context.Context) (<-chan UiEvent, error)
}

// Clock abstracts time for throttle/cooldown logic so tests can drive it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return ClockFunc(time.Now) }

// KeyProvider abstracts the source of the rule store's encryption key.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}
