package rules

import "github.com/momentummm/screenguard/internal/domain"

// Instagram detectors. Signals are ORed so that any one of them surviving
// an app update keeps the rule alive.

// detectInstagramReels fires when the Reels player is on screen or the
// Reels tab is the selected one.
func detectInstagramReels(root domain.UiNode) bool {
	// Internal container id of the vertical video player.
	if hasViewID(root, "clips_video_container") {
		return true
	}
	if hasSelectedViewID(root, "clips_tab") {
		return true
	}
	if hasSelectedContentDescription(root, "Reels") {
		return true
	}
	return hasSelectedText(root, "Reels") || hasSelectedText(root, "Reel")
}

// detectInstagramExplore fires on the explore/discover grid.
func detectInstagramExplore(root domain.UiNode) bool {
	if hasViewID(root, "explore_grid") {
		return true
	}
	if hasSelectedViewID(root, "search_tab") && hasViewID(root, "recycler_view") {
		return true
	}
	if hasSelectedContentDescription(root, "Search and explore") {
		return true
	}
	return hasSelectedText(root, "Explore")
}

// detectInstagramStories fires inside the full-screen story viewer, not on
// the story ring in the feed header.
func detectInstagramStories(root domain.UiNode) bool {
	if hasViewID(root, "reel_viewer_root") {
		return true
	}
	if hasViewID(root, "reel_viewer_texture_view") {
		return true
	}
	return hasContentDescription(root, "Story by")
}
