package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentummm/screenguard/internal/domain"
)

func newTestEvaluator(store *fakeRuleStore, clock *fakeClock, nav *fakeNavigator, overlay *fakeOverlay) *Evaluator {
	reactor := NewReactor(DefaultCooldown, NewCooldownState(), nav, overlay, clock, testLogger())
	return NewEvaluator(store, reactor, testLogger())
}

func reelsTree() *testNode {
	return &testNode{children: []*testNode{
		{viewID: "com.instagram.android:id/clips_video_container"},
	}}
}

func TestEvaluateMatchFiresReactor(t *testing.T) {
	store := &fakeRuleStore{rules: []domain.BlockRule{reelsRule}}
	nav := &fakeNavigator{}
	overlay := &fakeOverlay{}
	eval := newTestEvaluator(store, newFakeClock(), nav, overlay)

	root := reelsTree()
	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		EventTimestamp:    time.Now(),
		Root:              root,
	})

	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, domain.RuleInstagramReels, action.Rule.RuleID)
	assert.Equal(t, 1, nav.calls)
	assert.Equal(t, []string{"Instagram"}, overlay.apps)
	assert.Equal(t, []string{"Reels"}, overlay.features)
	assert.Equal(t, 1, root.released, "root handle must be released after the pass")
}

func TestEvaluateNoRulesShortCircuits(t *testing.T) {
	store := &fakeRuleStore{}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, &fakeOverlay{})

	// A tree that would match if it were ever traversed.
	root := reelsTree()
	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              root,
	})

	require.NoError(t, err)
	assert.Nil(t, action)
	assert.Equal(t, 1, store.lookups)
	assert.Equal(t, 1, root.released)
}

func TestEvaluateNoMatchNoReaction(t *testing.T) {
	store := &fakeRuleStore{rules: []domain.BlockRule{reelsRule}}
	nav := &fakeNavigator{}
	eval := newTestEvaluator(store, newFakeClock(), nav, &fakeOverlay{})

	root := &testNode{children: []*testNode{{text: "Feed"}}}
	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              root,
	})

	require.NoError(t, err)
	assert.Nil(t, action)
	assert.Zero(t, nav.calls)
	assert.Equal(t, 1, root.released)
}

func TestEvaluateDisabledRuleSkipped(t *testing.T) {
	disabled := reelsRule
	disabled.Enabled = false
	store := &fakeRuleStore{rules: []domain.BlockRule{disabled}}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, &fakeOverlay{})

	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              reelsTree(),
	})

	require.NoError(t, err)
	assert.Nil(t, action)
}

func TestEvaluateStoreErrorReleasesRoot(t *testing.T) {
	store := &fakeRuleStore{err: errors.New("db locked")}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, &fakeOverlay{})

	root := reelsTree()
	_, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              root,
	})

	assert.Error(t, err)
	assert.Equal(t, 1, root.released)
}

func TestEvaluateFirstMatchWinsInRuleIDOrder(t *testing.T) {
	explore := domain.BlockRule{
		RuleID:        domain.RuleInstagramExplore,
		TargetPackage: "com.instagram.android",
		AppName:       "Instagram",
		FeatureName:   "Explore",
		BlockType:     domain.BlockExplore,
		Enabled:       true,
	}
	store := &fakeRuleStore{rules: []domain.BlockRule{reelsRule, explore}}
	overlay := &fakeOverlay{}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, overlay)

	// Tree satisfying both rules at once.
	root := &testNode{children: []*testNode{
		{viewID: "com.instagram.android:id/clips_video_container"},
		{viewID: "com.instagram.android:id/explore_grid"},
	}}

	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              root,
	})

	require.NoError(t, err)
	require.NotNil(t, action)
	// "instagram_explore" < "instagram_reels" in rule ID order.
	assert.Equal(t, domain.RuleInstagramExplore, action.Rule.RuleID)
	assert.Equal(t, 1, overlay.calls)
}

func TestEvaluateCanceledContext(t *testing.T) {
	store := &fakeRuleStore{rules: []domain.BlockRule{reelsRule}}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, &fakeOverlay{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := reelsTree()
	_, err := eval.Evaluate(ctx, domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
		Root:              root,
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, root.released)
}

func TestEvaluateNilRoot(t *testing.T) {
	store := &fakeRuleStore{rules: []domain.BlockRule{reelsRule}}
	eval := newTestEvaluator(store, newFakeClock(), &fakeNavigator{}, &fakeOverlay{})

	action, err := eval.Evaluate(context.Background(), domain.MatchContext{
		ForegroundPackage: "com.instagram.android",
	})

	require.NoError(t, err)
	assert.Nil(t, action)
}
