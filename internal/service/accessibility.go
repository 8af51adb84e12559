// Package service implements the accessibility service core: a single
// background worker consuming the platform's UI-change notifications and
// driving gate, matcher, and reactor.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
	"github.com/momentummm/screenguard/internal/usecase"
)

// Config holds service tunables. Durations default to the empirically
// tuned values when zero.
type Config struct {
	OwnPackage    string
	Throttle      time.Duration // min gap between accepted events
	Cooldown      time.Duration // min gap between reactor firings
	EventTimeout  time.Duration // per-event end-to-end budget
	QueueCapacity int           // bounded event queue
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		OwnPackage:    "com.momentummm.app",
		Throttle:      usecase.DefaultThrottleInterval,
		Cooldown:      usecase.DefaultCooldown,
		EventTimeout:  usecase.DefaultEventTimeout,
		QueueCapacity: 32,
	}
}

// Service is the long-lived core. Platform callbacks hand events to
// OnUiEvent; a single worker goroutine processes them in arrival order, so
// throttle and cooldown state need no locking. Lifecycle mirrors the
// platform hooks: OnConnected starts the worker, OnInterrupt cancels the
// in-flight event, OnDestroy cancels everything and releases queued trees.
type Service struct {
	config    Config
	gate      *usecase.Gate
	reactor   *usecase.Reactor
	evaluator *usecase.Evaluator
	tracker   domain.SessionTracker
	logger    *zap.Logger

	events  chan domain.UiEvent
	pending atomic.Int64
	cancel context.CancelFunc
	done   chan struct{}

	// mu guards stopped together with the enqueue in OnUiEvent, so no
	// event can slip into the queue after OnDestroy has drained it.
	mu            sync.Mutex
	stopped       bool
	cancelCurrent context.CancelFunc
}

// New wires the pipeline. Gate and reactor share one CooldownState.
func New(
	config Config,
	store domain.RuleStore,
	nav domain.Navigator,
	overlay domain.OverlayPresenter,
	tracker domain.SessionTracker,
	clock domain.Clock,
	logger *zap.Logger,
) *Service {
	def := DefaultConfig()
	if config.EventTimeout <= 0 {
		config.EventTimeout = def.EventTimeout
	}
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = def.QueueCapacity
	}

	state := usecase.NewCooldownState()
	gate := usecase.NewGate(config.OwnPackage, config.Throttle, state, clock, logger)
	reactor := usecase.NewReactor(config.Cooldown, state, nav, overlay, clock, logger)

	return &Service{
		config:    config,
		gate:      gate,
		reactor:   reactor,
		evaluator: usecase.NewEvaluator(store, reactor, logger),
		tracker:   tracker,
		logger:    logger,
		events:    make(chan domain.UiEvent, config.QueueCapacity),
		done:      make(chan struct{}),
	}
}

// Gate exposes the event gate for config hot-reload.
func (s *Service) Gate() *usecase.Gate { return s.gate }

// Reactor exposes the block reactor for config hot-reload.
func (s *Service) Reactor() *usecase.Reactor { return s.reactor }

// OnConnected starts the background worker. Call once.
func (s *Service) OnConnected() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker(ctx)
	s.logger.Info("accessibility service connected",
		zap.Duration("throttle", s.config.Throttle),
		zap.Duration("cooldown", s.config.Cooldown),
		zap.Duration("event_timeout", s.config.EventTimeout))
}

// OnUiEvent is the platform callback. It never blocks the callback thread:
// when the queue is full the event is dropped and its tree released.
func (s *Service) OnUiEvent(ev domain.UiEvent) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		releaseRoot(ev)
		return
	}
	select {
	case s.events <- ev:
		s.pending.Add(1)
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		releaseRoot(ev)
		s.logger.Debug("event queue full, dropping",
			zap.String("package", ev.SourcePackage))
	}
}

// OnInterrupt cancels the in-flight event, if any. The worker keeps
// running; the platform calls this when it wants feedback to stop now.
func (s *Service) OnInterrupt() {
	s.mu.Lock()
	cancel := s.cancelCurrent
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.logger.Info("accessibility service interrupted")
}

// OnDestroy cancels all in-flight work, stops the worker, and releases
// every queued tree. The service cannot be restarted afterwards.
func (s *Service) OnDestroy() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	for {
		select {
		case ev := <-s.events:
			releaseRoot(ev)
			s.pending.Add(-1)
		default:
			s.logger.Info("accessibility service destroyed")
			return
		}
	}
}

// Run drives the service from an EventSource until the source is
// exhausted or ctx is canceled. Used by the CLI replay path; on a device
// the platform invokes the lifecycle hooks directly.
func (s *Service) Run(ctx context.Context, source domain.EventSource) error {
	ch, err := source.Events(ctx)
	if err != nil {
		return err
	}

	s.OnConnected()
	defer s.OnDestroy()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				s.drain(ctx)
				return nil
			}
			s.OnUiEvent(ev)
		}
	}
}

// drain waits until every enqueued event has finished processing so a
// replay run reports every block before shutdown.
func (s *Service) drain(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for s.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// worker consumes events in arrival order.
func (s *Service) worker(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.process(ctx, ev)
			s.pending.Add(-1)
		}
	}
}

// process runs one event through gate and evaluation under the per-event
// timeout. Every failure degrades to "no block": nothing from here may
// crash the service.
func (s *Service) process(parent context.Context, ev domain.UiEvent) {
	if !s.gate.Admit(ev) {
		releaseRoot(ev)
		return
	}

	if s.tracker != nil {
		s.tracker.Observe(ev.SourcePackage, ev.SourcePID)
		// The tree is a snapshot of a process that may have died while
		// the event sat queued; matching against it would be stale work.
		if ev.SourcePID > 0 && !s.tracker.IsAlive() {
			s.logger.Debug("foreground process gone, skipping event",
				zap.String("package", ev.SourcePackage),
				zap.Int("pid", ev.SourcePID))
			releaseRoot(ev)
			return
		}
	}

	ctx, cancel := context.WithTimeout(parent, s.config.EventTimeout)
	s.mu.Lock()
	s.cancelCurrent = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancelCurrent = nil
		s.mu.Unlock()
		cancel()
	}()

	_, err := s.evaluator.Evaluate(ctx, domain.MatchContext{
		ForegroundPackage: ev.SourcePackage,
		EventTimestamp:    ev.Timestamp,
		Root:              ev.Root,
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// Retrying against a now-stale tree is unsafe; abandon.
		s.logger.Warn("event abandoned after timeout",
			zap.String("package", ev.SourcePackage),
			zap.Duration("budget", s.config.EventTimeout))
	case errors.Is(err, context.Canceled):
		s.logger.Debug("event canceled",
			zap.String("package", ev.SourcePackage))
	case err != nil:
		s.logger.Warn("event dropped",
			zap.String("package", ev.SourcePackage),
			zap.Error(err))
	}
}

func releaseRoot(ev domain.UiEvent) {
	if ev.Root != nil {
		ev.Root.Release()
	}
}
