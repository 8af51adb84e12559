package rules

import "github.com/momentummm/screenguard/internal/domain"

// detectFacebookReels fires on Facebook's Reels viewer.
func detectFacebookReels(root domain.UiNode) bool {
	if hasContentDescription(root, "Reels Viewer") {
		return true
	}
	if hasSelectedContentDescription(root, "Reels") {
		return true
	}
	return hasSelectedText(root, "Reels")
}
