package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	cfg.TracerProvider = tp
	require.NoError(t, NewDBTracingPlugin(cfg, nil).Register(db))
	return db, sr
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, NewDBTracingPlugin(DBTracingConfig{}, zap.New(core)).Register(db))
	assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
	assert.Equal(t, 1, logs.FilterMessage("Database tracing disabled").Len())
}

func TestDBTracingPlugin_RecordsTableAndRows(t *testing.T) {
	db, sr := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Hour})

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "b"}).Error)

	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)

	spans := sr.Ended()
	require.NotEmpty(t, spans)
	last := spans[len(spans)-1]
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range last.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "traced_rows", attrs["db.sql.table"].AsString())
	assert.Equal(t, int64(2), attrs["db.rows_affected"].AsInt64())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
}

func TestDBTracingPlugin_SlowQuery(t *testing.T) {
	db, sr := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Nanosecond})

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "slow"}).Error)

	spans := sr.Ended()
	require.NotEmpty(t, spans)
	var found bool
	for _, ev := range spans[len(spans)-1].Events() {
		if ev.Name == "slow_query_warning" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	db, sr := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

	var row tracedRow
	err := db.WithContext(context.Background()).First(&row, 999).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spans := sr.Ended()
	require.NotEmpty(t, spans)
	for _, ev := range spans[len(spans)-1].Events() {
		assert.NotEqual(t, "exception", ev.Name)
	}
}
