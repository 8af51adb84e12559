package infra

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/momentummm/screenguard/internal/domain"
)

// replayRecord is one line of a captured accessibility session (JSONL).
type replayRecord struct {
	Type    string        `json:"type"`
	Package string        `json:"package"`
	PID     int           `json:"pid,omitempty"`
	DelayMs int           `json:"delay_ms,omitempty"`
	Tree    *SnapshotNode `json:"tree,omitempty"`
}

// ReplaySource implements domain.EventSource over a JSONL session file,
// honoring per-record delays so throttle behavior reproduces off-device.
type ReplaySource struct {
	path string
}

// NewReplaySource creates a replay source for the given session file.
func NewReplaySource(path string) *ReplaySource {
	return &ReplaySource{path: path}
}

// Events streams the recorded session. The channel closes at EOF or when
// ctx is canceled; malformed lines are skipped, not fatal.
func (r *ReplaySource) Events(ctx context.Context) (<-chan domain.UiEvent, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}

	ch := make(chan domain.UiEvent)
	go func() {
		defer close(ch)
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var rec replayRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				continue
			}

			if rec.DelayMs > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(rec.DelayMs) * time.Millisecond):
				}
			}

			ev := domain.UiEvent{
				Type:          ParseEventType(rec.Type),
				SourcePackage: rec.Package,
				SourcePID:     rec.PID,
				Timestamp:     time.Now(),
				Root:          rec.Tree,
			}
			// A nil tree must stay a nil interface, not a typed nil.
			if rec.Tree == nil {
				ev.Root = nil
			}

			select {
			case <-ctx.Done():
				return
			case ch <- ev:
			}
		}
	}()
	return ch, nil
}

// ParseEventType maps the capture tooling's type names onto EventType.
func ParseEventType(s string) domain.EventType {
	switch s {
	case "window_state_changed":
		return domain.EventWindowStateChanged
	case "window_content_changed":
		return domain.EventWindowContentChanged
	case "view_scrolled":
		return domain.EventViewScrolled
	case "view_clicked":
		return domain.EventViewClicked
	default:
		return domain.EventUnknown
	}
}

// Ensure ReplaySource implements domain.EventSource.
var _ domain.EventSource = (*ReplaySource)(nil)
