package rules

import "github.com/momentummm/screenguard/internal/domain"

// detectYouTubeShorts fires when the Shorts player is showing or the
// Shorts pivot is the selected bottom-bar item.
func detectYouTubeShorts(root domain.UiNode) bool {
	if hasViewID(root, "reel_recycler") {
		return true
	}
	if hasViewID(root, "reel_player_page_container") {
		return true
	}
	if hasSelectedViewID(root, "pivot_shorts") {
		return true
	}
	return hasSelectedContentDescription(root, "Shorts") || hasSelectedText(root, "Shorts")
}
