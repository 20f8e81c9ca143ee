package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"devicerelay/config"
	"devicerelay/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sqlAndRows() (string, int64) {
	return "INSERT INTO transfers", 1
}

func TestGormSlogLogger_DebugLogsQueries(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true

	l := newGormSlogLogger(newBufferLogger(&buf), cfg)
	l.Trace(context.Background(), time.Now(), sqlAndRows, nil)

	assert.Contains(t, buf.String(), "msg=Query")
	assert.Contains(t, buf.String(), "component=gorm")
	assert.Contains(t, buf.String(), "INSERT INTO transfers")
}

func TestGormSlogLogger_DefaultSkipsFastQueries(t *testing.T) {
	var buf bytes.Buffer

	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})
	l.Trace(context.Background(), time.Now(), sqlAndRows, nil)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_Errors(t *testing.T) {
	var buf bytes.Buffer

	l := newGormSlogLogger(newBufferLogger(&buf), nil)
	l.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), sqlAndRows, errors.New("connection refused"))
	assert.Contains(t, buf.String(), `msg="Query failed"`)
	assert.Contains(t, buf.String(), "connection refused")
}

func TestGormSlogLogger_SlowQuery(t *testing.T) {
	var buf bytes.Buffer

	l := newGormSlogLogger(newBufferLogger(&buf), nil)
	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlAndRows, nil)

	assert.Contains(t, buf.String(), `msg="Slow query"`)
	assert.Contains(t, buf.String(), "slow_threshold=200ms")
}

func TestGormSlogLogger_TruncatesLongStatements(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true
	long := strings.Repeat("x", maxLoggedSQL+100)

	l := newGormSlogLogger(newBufferLogger(&buf), cfg)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, nil)

	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), strings.Repeat("x", maxLoggedSQL)+"...")
}

func TestGormSlogLogger_ParamsFilterDropsValues(t *testing.T) {
	l := newGormSlogLogger(slog.New(slog.DiscardHandler), nil)

	sql, params := l.ParamsFilter(context.Background(), "INSERT INTO transfers VALUES ($1)", "secret text")

	assert.Equal(t, "INSERT INTO transfers VALUES ($1)", sql)
	assert.Nil(t, params)
}

func TestGormSlogLogger_Silent(t *testing.T) {
	var buf bytes.Buffer

	l := newGormSlogLogger(newBufferLogger(&buf), nil).LogMode(logger.Silent)
	l.Trace(context.Background(), time.Now(), sqlAndRows, errors.New("boom"))
	l.Warn(context.Background(), "ignored %d", 1)

	assert.Empty(t, buf.String())
}
