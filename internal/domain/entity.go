// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// RuleID identifies a supported blocking rule. The set of known IDs is
// closed: each one maps to exactly one detector in the rules package.
type RuleID string

const (
	RuleInstagramReels    RuleID = "instagram_reels"
	RuleInstagramExplore  RuleID = "instagram_explore"
	RuleInstagramStories  RuleID = "instagram_stories"
	RuleYouTubeShorts     RuleID = "youtube_shorts"
	RuleTikTokFeed        RuleID = "tiktok_feed"
	RuleSnapchatSpotlight RuleID = "snapchat_spotlight"
	RuleFacebookReels     RuleID = "facebook_reels"
)

// BlockType categorizes the blocked feature. It drives icon/description
// selection in the settings surface, never matching logic.
type BlockType string

const (
	BlockShortVideo BlockType = "short_video"
	BlockExplore    BlockType = "explore"
	BlockSearch     BlockType = "search"
	BlockStories    BlockType = "stories"
	BlockFeed       BlockType = "feed"
	BlockCustom     BlockType = "custom"
)

// BlockRule associates a target app with a feature to block.
type BlockRule struct {
	RuleID        RuleID
	TargetPackage string // e.g. "com.instagram.android"
	AppName       string // display name, grouping key for UI
	FeatureName   string // shown on the blocking overlay
	BlockType     BlockType
	Enabled       bool
}

// EventType is the category of an accessibility notification.
// Only the four types below are ever evaluated; everything else is noise.
type EventType int

const (
	EventUnknown EventType = iota
	EventWindowStateChanged
	EventWindowContentChanged
	EventViewScrolled
	EventViewClicked
)

// String returns the event type name for logging.
func (t EventType) String() string {
	switch t {
	case EventWindowStateChanged:
		return "window_state_changed"
	case EventWindowContentChanged:
		return "window_content_changed"
	case EventViewScrolled:
		return "view_scrolled"
	case EventViewClicked:
		return "view_clicked"
	default:
		return "unknown"
	}
}

// UiEvent is one foreground UI-change notification from the platform.
type UiEvent struct {
	Type          EventType
	SourcePackage string
	SourcePID     int // 0 when the platform doesn't report it
	Timestamp     time.Time
	Root          UiNode // nil when the platform couldn't supply a tree
}

// MatchContext carries the per-event state handed to rule evaluation.
// Created per accepted event, discarded when the event is done.
type MatchContext struct {
	ForegroundPackage string
	EventTimestamp    time.Time
	Root              UiNode
}

// BlockAction records one reactor firing, for logging and the status surface.
type BlockAction struct {
	Rule      BlockRule
	FiredAt   time.Time
	Navigated bool
	Overlay   bool
}
