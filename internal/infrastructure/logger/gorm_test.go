package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info, WithSlowThreshold(time.Second))
	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	assert.Equal(t, time.Second, changed.slowThreshold)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		opts      []GormLoggerOption
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{
			name:      "error",
			level:     gormlogger.Warn,
			begin:     time.Now(),
			err:       errors.New("duplicate key"),
			wantMsg:   "SQL Error",
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name:  "record not found ignored",
			level: gormlogger.Warn,
			begin: time.Now(),
			err:   gormlogger.ErrRecordNotFound,
		},
		{
			name:      "record not found logged when asked",
			level:     gormlogger.Warn,
			opts:      []GormLoggerOption{WithIgnoreRecordNotFoundError(false)},
			begin:     time.Now(),
			err:       gormlogger.ErrRecordNotFound,
			wantMsg:   "SQL Error",
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name:      "slow",
			level:     gormlogger.Warn,
			opts:      []GormLoggerOption{WithSlowThreshold(10 * time.Millisecond)},
			begin:     time.Now().Add(-time.Second),
			wantMsg:   "Slow SQL",
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "normal at info",
			level:     gormlogger.Info,
			begin:     time.Now(),
			wantMsg:   "SQL Query",
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:  "silent",
			level: gormlogger.Silent,
			begin: time.Now(),
			err:   errors.New("ignored"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level, tt.opts...)
			ctx := WithRequestID(context.Background(), "req-sql")

			gl.Trace(ctx, tt.begin, sqlFn("SELECT 1", 1), tt.err)

			entries := recorded.All()
			if tt.wantMsg == "" {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, "req-sql", entries[0].ContextMap()["request_id"])
			assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_Printf(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "hidden %d", 1)
	gl.Warn(context.Background(), "migrated %s", "orders")
	gl.Error(context.Background(), "failed %s", "orders")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "migrated orders", entries[0].Message)
	assert.Equal(t, "failed orders", entries[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
