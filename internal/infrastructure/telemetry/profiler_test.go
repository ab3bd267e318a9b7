package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop(), "stopping twice is harmless")
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
		want string
	}{
		{"missing server", ProfilerConfig{Enabled: true, ApplicationName: "secureshop"}, "server address"},
		{"missing application", ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, "application name"},
		{"unknown profile", ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://pyroscope:4040",
			ApplicationName: "secureshop",
			ProfileTypes:    []string{"cpu", "heap"},
		}, `unknown profile type "heap"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfiler(tt.cfg, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes([]string{"cpu", " InUse_Space ", "cpu", "goroutines"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}, types)

	defaults, err := ParseProfileTypes(DefaultProfileTypes)
	require.NoError(t, err)
	assert.Len(t, defaults, len(DefaultProfileTypes))
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	t.Run("tracing disabled", func(t *testing.T) {
		tp := &TracerProvider{logger: zap.NewNop()}
		tp.EnableSpanProfiles()
		assert.False(t, tp.SpanProfilesEnabled())
	})

	t.Run("wraps the global provider", func(t *testing.T) {
		sdk := sdktrace.NewTracerProvider()
		t.Cleanup(func() { _ = sdk.Shutdown(t.Context()) })
		tp := &TracerProvider{provider: sdk, logger: zap.NewNop(), config: Config{ServiceName: "secureshop-test"}}

		tp.EnableSpanProfiles()
		tp.EnableSpanProfiles()

		assert.True(t, tp.SpanProfilesEnabled())
		_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.False(t, isSDK, "global provider should be the profiling wrapper")
	})
}
