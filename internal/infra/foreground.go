package infra

import (
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/momentummm/screenguard/internal/domain"
)

// ProcessSessionTracker implements domain.SessionTracker. It remembers the
// last observed foreground package and, when the bridge reports a source
// PID, verifies liveness against the process table.
type ProcessSessionTracker struct {
	mu  sync.Mutex
	pkg string
	pid int
}

// NewProcessSessionTracker creates an empty tracker.
func NewProcessSessionTracker() *ProcessSessionTracker {
	return &ProcessSessionTracker{}
}

// Observe records the foreground package from an accepted event. When the
// event carries no package but a PID, the process name stands in.
func (t *ProcessSessionTracker) Observe(pkg string, pid int) {
	if pkg == "" && pid > 0 {
		if p, err := process.NewProcess(int32(pid)); err == nil {
			if name, err := p.Name(); err == nil {
				pkg = name
			}
		}
	}
	t.mu.Lock()
	t.pkg = pkg
	t.pid = pid
	t.mu.Unlock()
}

// ForegroundPackage returns the last observed foreground package.
func (t *ProcessSessionTracker) ForegroundPackage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pkg
}

// IsAlive reports whether the tracked foreground process still exists.
// Without a PID there is nothing to check, so the session counts as alive.
func (t *ProcessSessionTracker) IsAlive() bool {
	t.mu.Lock()
	pid := t.pid
	t.mu.Unlock()
	if pid <= 0 {
		return true
	}
	alive, err := process.PidExists(int32(pid))
	return err == nil && alive
}

// Ensure ProcessSessionTracker implements domain.SessionTracker.
var _ domain.SessionTracker = (*ProcessSessionTracker)(nil)
