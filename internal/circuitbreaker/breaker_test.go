package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

// Test New circuit breaker creation
func TestNew(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid-config",
			config: &Config{Name: "store", Threshold: 3, Cooldown: time.Minute, Logger: logger},
		},
		{
			name:    "nil-config",
			config:  nil,
			wantErr: true,
			errMsg:  "config cannot be nil",
		},
		{
			name:    "nil-logger",
			config:  &Config{Name: "store", Threshold: 3},
			wantErr: true,
			errMsg:  "logger cannot be nil",
		},
		{
			name:    "zero-threshold",
			config:  &Config{Name: "store", Threshold: 0, Logger: logger},
			wantErr: true,
			errMsg:  "threshold must be positive",
		},
		{
			name:    "negative-cooldown",
			config:  &Config{Name: "store", Threshold: 1, Cooldown: -time.Second, Logger: logger},
			wantErr: true,
			errMsg:  "cooldown cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			breaker, err := New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.True(t, breaker.IsEnabled())
			assert.True(t, breaker.Allow())
		})
	}
}

func TestFailureBreaker_TripsAtThreshold(t *testing.T) {
	breaker, err := New(&Config{Name: "trip", Threshold: 3, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	breaker.RecordFailure()
	breaker.RecordFailure()
	assert.True(t, breaker.IsEnabled())

	breaker.RecordFailure()
	assert.False(t, breaker.IsEnabled())
	assert.False(t, breaker.Allow())

	status := breaker.GetStatus()
	assert.Equal(t, 3, status.ConsecutiveFailures)
	assert.Equal(t, 1, status.Trips)
}

func TestFailureBreaker_SuccessResetsCount(t *testing.T) {
	breaker, err := New(&Config{Name: "reset", Threshold: 2, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	breaker.RecordFailure()
	breaker.RecordSuccess()
	breaker.RecordFailure()
	assert.True(t, breaker.IsEnabled())
	assert.Equal(t, 1, breaker.GetStatus().ConsecutiveFailures)
}

func TestFailureBreaker_Cooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	breaker, err := New(&Config{
		Name:      "cooldown",
		Threshold: 1,
		Cooldown:  5 * time.Minute,
		Now:       clock.Now,
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	breaker.RecordFailure()
	assert.False(t, breaker.Allow())

	clock.t = clock.t.Add(5 * time.Minute)
	assert.True(t, breaker.Allow())

	// Failed trial reopens for a full cooldown.
	breaker.RecordFailure()
	assert.False(t, breaker.Allow())
	assert.Equal(t, 1, breaker.GetStatus().Trips)

	clock.t = clock.t.Add(5 * time.Minute)
	require.True(t, breaker.Allow())
	breaker.RecordSuccess()
	assert.True(t, breaker.IsEnabled())
	assert.Equal(t, 0, breaker.GetStatus().ConsecutiveFailures)
}

func TestFailureBreaker_NoCooldownStaysOpen(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	breaker, err := New(&Config{Name: "open", Threshold: 1, Now: clock.Now, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	breaker.RecordFailure()
	clock.t = clock.t.Add(24 * time.Hour)
	assert.False(t, breaker.Allow())
}
