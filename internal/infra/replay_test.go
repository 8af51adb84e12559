package infra

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentummm/screenguard/internal/domain"
)

func TestReplaySourceStreamsEvents(t *testing.T) {
	session := `{"type":"window_state_changed","package":"com.instagram.android","tree":{"t":"Feed"}}
{"type":"view_scrolled","package":"com.instagram.android"}
not json, skipped
{"type":"text_changed","package":"com.instagram.android"}
`
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(session), 0600))

	ch, err := NewReplaySource(path).Events(context.Background())
	require.NoError(t, err)

	var events []domain.UiEvent
	for ev := range ch {
		events = append(events, ev)
	}

	require.Len(t, events, 3)
	assert.Equal(t, domain.EventWindowStateChanged, events[0].Type)
	require.NotNil(t, events[0].Root)
	assert.Equal(t, "Feed", events[0].Root.Text())
	assert.Equal(t, domain.EventViewScrolled, events[1].Type)
	assert.Nil(t, events[1].Root)
	// Unknown type names map to EventUnknown and get dropped by the gate.
	assert.Equal(t, domain.EventUnknown, events[2].Type)
}

func TestReplaySourceMissingFile(t *testing.T) {
	_, err := NewReplaySource(filepath.Join(t.TempDir(), "absent.jsonl")).Events(context.Background())
	assert.Error(t, err)
}

func TestParseEventType(t *testing.T) {
	assert.Equal(t, domain.EventViewClicked, ParseEventType("view_clicked"))
	assert.Equal(t, domain.EventWindowContentChanged, ParseEventType("window_content_changed"))
	assert.Equal(t, domain.EventUnknown, ParseEventType("gibberish"))
}
