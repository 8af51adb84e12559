package rules

import (
	"sort"

	"github.com/momentummm/screenguard/internal/domain"
)

// Detector decides whether a rule's target feature is currently showing in
// the given tree. Detectors are pure with respect to node contents: they
// never mutate the tree and release every child handle they acquire.
//
// Each detector ORs several independent signals (an internal container id,
// the selected tab, selected text in either register) so that a single
// upstream UI change doesn't silently disable the rule.
type Detector func(root domain.UiNode) bool

// Match evaluates the detector registered for id against root.
// Unknown rule IDs never match.
func Match(id domain.RuleID, root domain.UiNode) bool {
	d, ok := detectors[id]
	if !ok {
		return false
	}
	return d(root)
}

// Supported reports whether a detector exists for id. The settings surface
// uses this to refuse rules the engine cannot evaluate.
func Supported(id domain.RuleID) bool {
	_, ok := detectors[id]
	return ok
}

// SupportedRuleIDs returns every rule ID that has a detector, sorted
// ascending.
func SupportedRuleIDs() []domain.RuleID {
	ids := make([]domain.RuleID, 0, len(detectors))
	for id := range detectors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// detectors is the closed dispatch table. One entry per supported rule;
// completeness against the default rule set is enforced by tests.
var detectors = map[domain.RuleID]Detector{
	domain.RuleInstagramReels:    detectInstagramReels,
	domain.RuleInstagramExplore:  detectInstagramExplore,
	domain.RuleInstagramStories:  detectInstagramStories,
	domain.RuleYouTubeShorts:     detectYouTubeShorts,
	domain.RuleTikTokFeed:        detectTikTokFeed,
	domain.RuleSnapchatSpotlight: detectSnapchatSpotlight,
	domain.RuleFacebookReels:     detectFacebookReels,
}
