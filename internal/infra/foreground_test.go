package infra

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerObserveAndForegroundPackage(t *testing.T) {
	tracker := NewProcessSessionTracker()
	assert.Empty(t, tracker.ForegroundPackage())

	tracker.Observe("com.instagram.android", 0)
	assert.Equal(t, "com.instagram.android", tracker.ForegroundPackage())

	tracker.Observe("com.zhiliaoapp.musically", 0)
	assert.Equal(t, "com.zhiliaoapp.musically", tracker.ForegroundPackage())
}

func TestTrackerResolvesPackageFromPID(t *testing.T) {
	// When the bridge reports only a PID, the process name stands in.
	tracker := NewProcessSessionTracker()
	tracker.Observe("", os.Getpid())
	assert.NotEmpty(t, tracker.ForegroundPackage())
}

func TestTrackerIsAliveForRunningProcess(t *testing.T) {
	tracker := NewProcessSessionTracker()
	tracker.Observe("com.instagram.android", os.Getpid())
	assert.True(t, tracker.IsAlive())
}

func TestTrackerIsAliveForDeadProcess(t *testing.T) {
	// PIDs wrap far below this on every supported platform.
	tracker := NewProcessSessionTracker()
	tracker.Observe("com.instagram.android", 1<<22+999983)
	assert.False(t, tracker.IsAlive())
}

func TestTrackerIsAliveWithoutPID(t *testing.T) {
	// No PID means nothing to check; the session counts as alive.
	tracker := NewProcessSessionTracker()
	tracker.Observe("com.instagram.android", 0)
	assert.True(t, tracker.IsAlive())
}
