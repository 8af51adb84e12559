// Package rules implements the Strategy pattern for per-feature blocking
// detectors. Each target app (Instagram, YouTube, TikTok...) has its own
// detector file defining which tree signals mean the user navigated into
// the blocked feature.
package rules

import (
	"strings"

	"github.com/momentummm/screenguard/internal/domain"
)

// containsFold reports case-insensitive substring containment. All tree
// matching uses containment, not equality, because third-party apps append
// counts and badges to labels ("Reels · 12 new").
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// scan walks the tree depth-first with an explicit stack and returns true
// as soon as pred matches a node. Every child handle it acquires is
// released before returning, on all paths. The root handle stays with the
// caller. Nil nodes (gone between snapshot and visit) are skipped, never
// an error.
func scan(root domain.UiNode, pred func(domain.UiNode) bool) bool {
	if root == nil {
		return false
	}

	stack := []domain.UiNode{root}
	acquired := make([]domain.UiNode, 0, 16)
	defer func() {
		for _, n := range acquired {
			n.Release()
		}
	}()

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}

		if pred(n) {
			return true
		}

		// Push in reverse so children are visited left to right.
		for i := n.ChildCount() - 1; i >= 0; i-- {
			c := n.Child(i)
			if c == nil {
				continue
			}
			acquired = append(acquired, c)
			stack = append(stack, c)
		}
	}

	return false
}

// hasText reports whether any node's text contains substr.
func hasText(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return containsFold(n.Text(), substr)
	})
}

// hasContentDescription reports whether any node's accessibility
// description contains substr.
func hasContentDescription(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return containsFold(n.ContentDescription(), substr)
	})
}

// hasViewID reports whether any node's resolved view identifier contains
// substr. Identifiers are fully qualified by the host app's package, so
// containment is intentional, not a sloppy equality.
func hasViewID(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return containsFold(n.ViewID(), substr)
	})
}

// hasSelectedText is hasText restricted to selected/checked nodes. This is
// what separates "the Reels tab is the active one" from "the tab bar merely
// lists Reels", which is the difference between a block and a false positive.
func hasSelectedText(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return n.Selected() && containsFold(n.Text(), substr)
	})
}

// hasSelectedContentDescription is the selected-gated variant of
// hasContentDescription.
func hasSelectedContentDescription(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return n.Selected() && containsFold(n.ContentDescription(), substr)
	})
}

// hasSelectedViewID is the selected-gated variant of hasViewID.
func hasSelectedViewID(root domain.UiNode, substr string) bool {
	return scan(root, func(n domain.UiNode) bool {
		return n.Selected() && containsFold(n.ViewID(), substr)
	})
}
