package rules

import "github.com/momentummm/screenguard/internal/domain"

// detectTikTokFeed fires on the For You vertical feed, which is the app's
// home surface. The Home tab being selected is the strongest signal; the
// feed label texts cover builds where tab ids shift.
func detectTikTokFeed(root domain.UiNode) bool {
	if hasSelectedContentDescription(root, "Home") && hasText(root, "For You") {
		return true
	}
	if hasSelectedText(root, "For You") {
		return true
	}
	return hasSelectedText(root, "Following") && hasText(root, "For You")
}
