package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{Workers: 2, JobTimeout: time.Second, RetryAttempts: 2, RetryDelay: 10 * time.Millisecond}
}

func TestScheduler_Submit(t *testing.T) {
	tests := []struct {
		name    string
		start   bool
		task    string
		wantErr error
	}{
		{name: "not running", task: "noop", wantErr: ErrSchedulerNotRunning},
		{name: "unknown task", start: true, task: "missing", wantErr: ErrUnknownTask},
		{name: "queued", start: true, task: "noop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testConfig(), zap.NewNop())
			s.Register("noop", func(context.Context) error { return nil })
			if tt.start {
				require.NoError(t, s.Start(context.Background()))
				defer s.Stop(context.Background())
			}

			job, err := s.Submit(tt.task)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.task, job.Task)
		})
	}
}

func TestScheduler_RunsAndRetries(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	s := New(testConfig(), zap.NewNop())
	s.Register("flaky", func(context.Context) error {
		if calls.Add(1) < 2 {
			return errors.New("database is busy")
		}
		close(done)
		return nil
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	_, err := s.Submit("flaky")
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not retried")
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestScheduler_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	s := New(testConfig(), zap.NewNop())
	s.Register("broken", func(context.Context) error {
		calls.Add(1)
		return errors.New("always fails")
	})
	require.NoError(t, s.Start(context.Background()))

	_, err := s.Submit("broken")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 3, calls.Load(), "one run plus two retries")
	require.NoError(t, s.Stop(context.Background()))
}

func TestTicker_SubmitsPeriodically(t *testing.T) {
	var calls atomic.Int32
	s := New(testConfig(), zap.NewNop())
	s.Register("tick", func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	tk := NewTicker(s, zap.NewNop()).Every("tick", 10*time.Millisecond).Every("ignored", 0)
	require.NoError(t, tk.Start(context.Background()))
	assert.Len(t, tk.entries, 1)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, tk.Stop(context.Background()))
}

type expirerFunc func(ctx context.Context, ttl time.Duration) (int, error)

func (f expirerFunc) ExpireUnpaid(ctx context.Context, ttl time.Duration) (int, error) { return f(ctx, ttl) }

func TestExpireUnpaidOrders(t *testing.T) {
	var gotTTL time.Duration
	task := ExpireUnpaidOrders(expirerFunc(func(_ context.Context, ttl time.Duration) (int, error) {
		gotTTL = ttl
		return 2, nil
	}), time.Hour, zap.NewNop())

	require.NoError(t, task(context.Background()))
	assert.Equal(t, time.Hour, gotTTL)

	boom := errors.New("db down")
	failing := ExpireUnpaidOrders(expirerFunc(func(context.Context, time.Duration) (int, error) { return 0, boom }), time.Hour, zap.NewNop())
	assert.ErrorIs(t, failing(context.Background()), boom)
}
