package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStats struct {
	cur sql.DBStats
}

func (f *fakeStats) get() sql.DBStats {
	return f.cur
}

func TestPoolWatcher_QuietWithoutWaits(t *testing.T) {
	var buf bytes.Buffer
	stats := &fakeStats{cur: sql.DBStats{OpenConnections: 2}}

	w := newPoolWatcher(newBufferLogger(&buf), stats.get)
	w.check(context.Background())

	assert.Empty(t, buf.String())
}

func TestPoolWatcher_ReportsWaitDeltas(t *testing.T) {
	tests := []struct {
		name      string
		waited    time.Duration
		wantLevel string
	}{
		{name: "short waits", waited: 5 * time.Millisecond, wantLevel: "level=DEBUG"},
		{name: "long waits", waited: 80 * time.Millisecond, wantLevel: "level=WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			stats := &fakeStats{cur: sql.DBStats{WaitCount: 10, WaitDuration: time.Second}}
			w := newPoolWatcher(newBufferLogger(&buf), stats.get)

			stats.cur.WaitCount = 13
			stats.cur.WaitDuration = time.Second + tt.waited
			w.check(context.Background())

			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), "waits=3")
			assert.Contains(t, buf.String(), "component=db_pool")

			buf.Reset()
			w.check(context.Background())
			assert.Empty(t, buf.String())
		})
	}
}
