package rules

import "github.com/momentummm/screenguard/internal/domain"

// detectSnapchatSpotlight fires on Snapchat's Spotlight short-video tab.
func detectSnapchatSpotlight(root domain.UiNode) bool {
	if hasViewID(root, "spotlight_view_container") {
		return true
	}
	if hasSelectedContentDescription(root, "Spotlight") {
		return true
	}
	return hasSelectedText(root, "Spotlight")
}
