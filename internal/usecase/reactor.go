package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
)

// Reactor interrupts the user's navigation when a rule matches: synthetic
// back action, then a blocking overlay. A cooldown suppresses re-firing,
// which also defends against the back action itself generating a fresh
// UI-change event that re-triggers the same rule. The cooldown interval is
// atomic for the same reason as the gate's throttle: hot-reload writes it
// from the watcher goroutine.
type Reactor struct {
	state    *CooldownState
	cooldown atomic.Int64 // nanoseconds
	nav      domain.Navigator
	overlay  domain.OverlayPresenter
	clock    domain.Clock
	logger   *zap.Logger
}

// NewReactor creates a block reactor sharing state with the gate.
func NewReactor(cooldown time.Duration, state *CooldownState, nav domain.Navigator, overlay domain.OverlayPresenter, clock domain.Clock, logger *zap.Logger) *Reactor {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	r := &Reactor{
		state:   state,
		nav:     nav,
		overlay: overlay,
		clock:   clock,
		logger:  logger,
	}
	r.cooldown.Store(int64(cooldown))
	return r
}

// SetCooldown updates the cooldown interval (config hot-reload).
func (r *Reactor) SetCooldown(d time.Duration) {
	if d > 0 {
		r.cooldown.Store(int64(d))
	}
}

// React fires the block response for rule unless the cooldown window is
// still open. Within the window React is a no-op and leaves the last-block
// timestamp untouched. Overlay failure after a successful back action is
// accepted partial success, never undone.
func (r *Reactor) React(ctx context.Context, rule domain.BlockRule) (*domain.BlockAction, bool) {
	now := r.clock.Now()
	if !r.state.lastBlock.IsZero() && now.Sub(r.state.lastBlock) < time.Duration(r.cooldown.Load()) {
		r.logger.Debug("block suppressed by cooldown",
			zap.String("rule", string(rule.RuleID)))
		return nil, false
	}
	r.state.lastBlock = now

	action := &domain.BlockAction{Rule: rule, FiredAt: now}

	if err := r.nav.NavigateBack(ctx); err != nil {
		r.logger.Warn("back navigation failed",
			zap.String("rule", string(rule.RuleID)),
			zap.Error(err))
	} else {
		action.Navigated = true
	}

	if err := r.overlay.ShowBlockOverlay(rule.AppName, rule.FeatureName); err != nil {
		r.logger.Warn("overlay presentation failed",
			zap.String("rule", string(rule.RuleID)),
			zap.Error(err))
	} else {
		action.Overlay = true
	}

	r.logger.Info("blocked feature",
		zap.String("rule", string(rule.RuleID)),
		zap.String("app", rule.AppName),
		zap.String("feature", rule.FeatureName),
		zap.Bool("navigated", action.Navigated),
		zap.Bool("overlay", action.Overlay))

	return action, true
}
