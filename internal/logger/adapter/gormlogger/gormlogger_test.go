package gormlogger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newBufferLogger(level gormlogger.LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return &Logger{
		logger:        zerolog.New(&buf).Level(zerolog.TraceLevel),
		level:         level,
		SlowThreshold: DefaultSlowThreshold,
	}, &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, ParseLevel("info"))
	assert.Equal(t, gormlogger.Warn, ParseLevel("warn"))
	assert.Equal(t, gormlogger.Warn, ParseLevel("whatever"))
}

func TestTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name     string
		level    gormlogger.LogLevel
		begin    time.Time
		err      error
		contains string
	}{
		{name: "silent logs nothing", level: gormlogger.Silent, begin: time.Now(), err: errors.New("x")},
		{name: "error is logged", level: gormlogger.Error, begin: time.Now(), err: errors.New("db down"), contains: "db down"},
		{name: "not found is not an error", level: gormlogger.Error, begin: time.Now(), err: gorm.ErrRecordNotFound},
		{name: "slow query warns", level: gormlogger.Warn, begin: time.Now().Add(-time.Second), contains: "slow query"},
		{name: "info logs every statement", level: gormlogger.Info, begin: time.Now(), contains: "SELECT 1"},
		{name: "warn skips fast statements", level: gormlogger.Warn, begin: time.Now()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(tt.level)
			l.Trace(context.Background(), tt.begin, query, tt.err)

			if tt.contains == "" {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestLogModeReturnsCopy(t *testing.T) {
	l, buf := newBufferLogger(gormlogger.Warn)

	silent := l.LogMode(gormlogger.Silent)
	silent.Warn(context.Background(), "hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warn(context.Background(), "shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
