// Package usecase contains application business logic: the event gate, the
// rule evaluator, and the block reactor.
package usecase

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
)

// Default timing tunables. Empirically tuned against the target apps;
// overridable via config.
const (
	DefaultThrottleInterval = 300 * time.Millisecond
	DefaultCooldown         = 1500 * time.Millisecond
	DefaultEventTimeout     = 1 * time.Second
)

// CooldownState holds the two pipeline timestamps: the last event accepted
// past the throttle and the last reactor firing. One instance per service.
// The pipeline runs on a single worker, so no locking is needed; a
// parallel implementation would have to make these atomic.
type CooldownState struct {
	lastProcessed time.Time
	lastBlock     time.Time
}

// NewCooldownState returns zeroed state, which admits the first event and
// the first reaction unconditionally.
func NewCooldownState() *CooldownState {
	return &CooldownState{}
}

// LastBlock returns the time of the last reactor firing.
func (s *CooldownState) LastBlock() time.Time { return s.lastBlock }

// LastProcessed returns the time of the last event accepted past the throttle.
func (s *CooldownState) LastProcessed() time.Time { return s.lastProcessed }

// Gate decides, per incoming notification, whether it is worth spending
// matching effort on. It filters by event category, drops the host's own
// events, and applies a global throttle. The throttle interval is atomic:
// config hot-reload writes it from the watcher goroutine while the worker
// reads it.
type Gate struct {
	ownPackage string
	throttle   atomic.Int64 // nanoseconds
	state      *CooldownState
	clock      domain.Clock
	logger     *zap.Logger
}

// NewGate creates an event gate sharing state with the reactor.
func NewGate(ownPackage string, throttle time.Duration, state *CooldownState, clock domain.Clock, logger *zap.Logger) *Gate {
	if throttle <= 0 {
		throttle = DefaultThrottleInterval
	}
	g := &Gate{
		ownPackage: ownPackage,
		state:      state,
		clock:      clock,
		logger:     logger,
	}
	g.throttle.Store(int64(throttle))
	return g
}

// SetThrottle updates the throttle interval (config hot-reload).
func (g *Gate) SetThrottle(d time.Duration) {
	if d > 0 {
		g.throttle.Store(int64(d))
	}
}

// Admit reports whether the event passes the gate. The throttle timestamp
// is advanced only when an event is accepted.
func (g *Gate) Admit(ev domain.UiEvent) bool {
	switch ev.Type {
	case domain.EventWindowStateChanged,
		domain.EventWindowContentChanged,
		domain.EventViewScrolled,
		domain.EventViewClicked:
	default:
		// Text-change spam and the rest never correlate with navigating
		// into a blocked feature.
		return false
	}

	if ev.SourcePackage == "" || ev.SourcePackage == g.ownPackage {
		return false
	}

	now := g.clock.Now()
	if !g.state.lastProcessed.IsZero() && now.Sub(g.state.lastProcessed) < time.Duration(g.throttle.Load()) {
		g.logger.Debug("event throttled",
			zap.String("package", ev.SourcePackage),
			zap.Stringer("type", ev.Type))
		return false
	}

	g.state.lastProcessed = now
	return true
}
