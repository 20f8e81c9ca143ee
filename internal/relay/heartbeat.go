package relay

import (
	"time"

	"github.com/benbjohnson/clock"
)

// heartbeatMonitor schedules liveness sweeps. It is idle when no timer is
// pending and armed otherwise; a stale timer is recognised by its generation.
type heartbeatMonitor struct {
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration
	fire     func(generation uint64)

	timer      *clock.Timer
	generation uint64
}

func newHeartbeatMonitor(clk clock.Clock, interval, timeout time.Duration, fire func(generation uint64)) *heartbeatMonitor {
	return &heartbeatMonitor{
		clock:    clk,
		interval: interval,
		timeout:  timeout,
		fire:     fire,
	}
}

func (m *heartbeatMonitor) armed() bool {
	return m.timer != nil
}

// arm schedules a sweep one interval from now unless one is already pending.
func (m *heartbeatMonitor) arm() {
	if m.timer != nil {
		return
	}

	m.generation++
	generation := m.generation
	m.timer = m.clock.AfterFunc(m.interval, func() {
		m.fire(generation)
	})
}

// fired moves an armed monitor back to idle. It reports false for stale timers.
func (m *heartbeatMonitor) fired(generation uint64) bool {
	if m.timer == nil || generation != m.generation {
		return false
	}
	m.timer = nil

	return true
}

// stop cancels any pending sweep.
func (m *heartbeatMonitor) stop() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

// expired reports whether a connection last seen at last has timed out.
func (m *heartbeatMonitor) expired(last, now time.Time) bool {
	return now.Sub(last) > m.timeout
}
