package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
	"github.com/momentummm/screenguard/internal/rules"
)

// Evaluator runs one accepted event through rule lookup, tree matching,
// and the reactor. First matching rule wins; rules arrive from the store
// ordered by rule ID ascending, so the winner is deterministic.
type Evaluator struct {
	store   domain.RuleStore
	reactor *Reactor
	logger  *zap.Logger
}

// NewEvaluator creates an evaluator.
func NewEvaluator(store domain.RuleStore, reactor *Reactor, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		store:   store,
		reactor: reactor,
		logger:  logger,
	}
}

// Evaluate processes one accepted event. It returns the fired block action,
// or nil when nothing matched / the reactor was cooling down. The root
// handle is released before returning, on all paths.
func (e *Evaluator) Evaluate(ctx context.Context, mc domain.MatchContext) (*domain.BlockAction, error) {
	if mc.Root != nil {
		defer mc.Root.Release()
	}

	start := time.Now()

	enabledRules, err := e.store.GetEnabledRulesForPackage(ctx, mc.ForegroundPackage)
	if err != nil {
		return nil, fmt.Errorf("rule lookup for %s: %w", mc.ForegroundPackage, err)
	}

	// The dominant cost optimization: most apps have zero rules, so most
	// events end here without touching the tree.
	if len(enabledRules) == 0 {
		return nil, nil
	}

	if mc.Root == nil {
		return nil, nil
	}

	for _, rule := range enabledRules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !rules.Match(rule.RuleID, mc.Root) {
			continue
		}

		e.logger.Debug("rule matched",
			zap.String("rule", string(rule.RuleID)),
			zap.String("package", mc.ForegroundPackage),
			zap.Duration("elapsed", time.Since(start)))

		action, fired := e.reactor.React(ctx, rule)
		if !fired {
			return nil, nil
		}
		return action, nil
	}

	return nil, nil
}
