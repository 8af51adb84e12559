package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeNavigator implements domain.Navigator.
type fakeNavigator struct {
	calls int
	err   error
}

func (n *fakeNavigator) NavigateBack(ctx context.Context) error {
	n.calls++
	return n.err
}

// fakeOverlay implements domain.OverlayPresenter.
type fakeOverlay struct {
	calls    int
	apps     []string
	features []string
	err      error
}

func (o *fakeOverlay) ShowBlockOverlay(appName, featureName string) error {
	o.calls++
	o.apps = append(o.apps, appName)
	o.features = append(o.features, featureName)
	return o.err
}

// fakeRuleStore implements domain.RuleStore over an in-memory slice.
type fakeRuleStore struct {
	rules   []domain.BlockRule
	lookups int
	err     error
}

func (s *fakeRuleStore) GetEnabledRulesForPackage(ctx context.Context, pkg string) ([]domain.BlockRule, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.BlockRule
	for _, r := range s.rules {
		if r.Enabled && r.TargetPackage == pkg {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out, nil
}

func (s *fakeRuleStore) GetAll(ctx context.Context) ([]domain.BlockRule, error) {
	return s.rules, s.err
}

func (s *fakeRuleStore) Upsert(ctx context.Context, rule domain.BlockRule) error { return s.err }

func (s *fakeRuleStore) SetEnabled(ctx context.Context, id domain.RuleID, enabled bool) error {
	return s.err
}

func (s *fakeRuleStore) Delete(ctx context.Context, id domain.RuleID) error { return s.err }
func (s *fakeRuleStore) Close() error                                       { return nil }

// testNode is a minimal domain.UiNode for evaluator tests.
type testNode struct {
	text     string
	desc     string
	viewID   string
	selected bool
	children []*testNode
	released int
}

func (n *testNode) Text() string               { return n.text }
func (n *testNode) ContentDescription() string { return n.desc }
func (n *testNode) ViewID() string             { return n.viewID }
func (n *testNode) Selected() bool             { return n.selected }
func (n *testNode) ChildCount() int            { return len(n.children) }
func (n *testNode) Release()                   { n.released++ }

func (n *testNode) Child(i int) domain.UiNode {
	if i < 0 || i >= len(n.children) || n.children[i] == nil {
		return nil
	}
	return n.children[i]
}

func testLogger() *zap.Logger { return zap.NewNop() }
