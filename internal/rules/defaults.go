package rules

import (
	"sort"

	"github.com/momentummm/screenguard/internal/domain"
)

// Target app package identifiers.
const (
	PackageInstagram = "com.instagram.android"
	PackageYouTube   = "com.google.android.youtube"
	PackageTikTok    = "com.zhiliaoapp.musically"
	PackageSnapchat  = "com.snapchat.android"
	PackageFacebook  = "com.facebook.katana"
)

// DefaultRules returns the rule set seeded into an empty store on first
// run, sorted by rule ID ascending. Every entry has a registered detector.
func DefaultRules() []domain.BlockRule {
	defaults := []domain.BlockRule{
		{
			RuleID:        domain.RuleInstagramReels,
			TargetPackage: PackageInstagram,
			AppName:       "Instagram",
			FeatureName:   "Reels",
			BlockType:     domain.BlockShortVideo,
			Enabled:       true,
		},
		{
			RuleID:        domain.RuleInstagramExplore,
			TargetPackage: PackageInstagram,
			AppName:       "Instagram",
			FeatureName:   "Explore",
			BlockType:     domain.BlockExplore,
			Enabled:       false,
		},
		{
			RuleID:        domain.RuleInstagramStories,
			TargetPackage: PackageInstagram,
			AppName:       "Instagram",
			FeatureName:   "Stories",
			BlockType:     domain.BlockStories,
			Enabled:       false,
		},
		{
			RuleID:        domain.RuleYouTubeShorts,
			TargetPackage: PackageYouTube,
			AppName:       "YouTube",
			FeatureName:   "Shorts",
			BlockType:     domain.BlockShortVideo,
			Enabled:       true,
		},
		{
			RuleID:        domain.RuleTikTokFeed,
			TargetPackage: PackageTikTok,
			AppName:       "TikTok",
			FeatureName:   "For You feed",
			BlockType:     domain.BlockFeed,
			Enabled:       true,
		},
		{
			RuleID:        domain.RuleSnapchatSpotlight,
			TargetPackage: PackageSnapchat,
			AppName:       "Snapchat",
			FeatureName:   "Spotlight",
			BlockType:     domain.BlockShortVideo,
			Enabled:       false,
		},
		{
			RuleID:        domain.RuleFacebookReels,
			TargetPackage: PackageFacebook,
			AppName:       "Facebook",
			FeatureName:   "Reels",
			BlockType:     domain.BlockShortVideo,
			Enabled:       false,
		},
	}

	sort.Slice(defaults, func(i, j int) bool {
		return defaults[i].RuleID < defaults[j].RuleID
	})
	return defaults
}
