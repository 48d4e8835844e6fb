package client

import (
	"math"
	"net/http"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 1*time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", config.InitialBackoff)
	}
	if config.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", config.MaxBackoff)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", config.BackoffMultiplier)
	}
}

func TestRetryConfigForErrorClass(t *testing.T) {
	tests := []struct {
		name             string
		errorClass       ErrorClass
		expectedInitial  time.Duration
		expectedMax      time.Duration
		expectedAttempts int
	}{
		{
			name:             "server error config",
			errorClass:       ErrorClassServer,
			expectedInitial:  1 * time.Second,
			expectedMax:      10 * time.Second,
			expectedAttempts: 3,
		},
		{
			name:             "rate limit config retries once",
			errorClass:       ErrorClassRateLimit,
			expectedInitial:  2 * time.Second,
			expectedMax:      60 * time.Second,
			expectedAttempts: 2,
		},
		{
			name:             "network error config",
			errorClass:       ErrorClassNetwork,
			expectedInitial:  2 * time.Second,
			expectedMax:      30 * time.Second,
			expectedAttempts: 3,
		},
		{
			name:             "unknown error class uses default",
			errorClass:       "",
			expectedInitial:  1 * time.Second,
			expectedMax:      30 * time.Second,
			expectedAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := RetryConfigForErrorClass(tt.errorClass)

			if config.InitialBackoff != tt.expectedInitial {
				t.Errorf("InitialBackoff = %v, want %v", config.InitialBackoff, tt.expectedInitial)
			}
			if config.MaxBackoff != tt.expectedMax {
				t.Errorf("MaxBackoff = %v, want %v", config.MaxBackoff, tt.expectedMax)
			}
			if config.MaxAttempts != tt.expectedAttempts {
				t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, tt.expectedAttempts)
			}
		})
	}
}

func TestBackoff_Exponential(t *testing.T) {
	rc := RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}

	for retry, base := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		4: 800 * time.Millisecond,
	} {
		low := time.Duration(float64(base) * 0.8)
		high := time.Duration(float64(base) * 1.2)
		for range 20 {
			got := rc.backoff(retry)
			if got < low || got > high {
				t.Fatalf("backoff(%d) = %v, want within [%v, %v]", retry, got, low, high)
			}
		}
	}
}

func TestBackoff_MaxBackoffCap(t *testing.T) {
	rc := RetryConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        3 * time.Second,
		BackoffMultiplier: 10.0,
	}

	for range 20 {
		got := rc.backoff(4)
		if got > time.Duration(float64(3*time.Second)*1.2) {
			t.Fatalf("backoff(4) = %v, exceeds cap plus jitter", got)
		}
		if got < time.Duration(float64(3*time.Second)*0.8) {
			t.Fatalf("backoff(4) = %v, below cap minus jitter", got)
		}
	}
}

func TestBackoff_Jitter(t *testing.T) {
	rc := RetryConfig{InitialBackoff: time.Second, BackoffMultiplier: 1}

	seen := map[time.Duration]bool{}
	for range 50 {
		seen[rc.backoff(1)] = true
	}
	if len(seen) < 2 {
		t.Error("backoff should vary between calls")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		limit    time.Duration
		want     time.Duration
	}{
		{
			name:     "missing header uses fallback",
			fallback: 2 * time.Second,
			want:     2 * time.Second,
		},
		{
			name:     "integer seconds",
			value:    "3",
			fallback: 2 * time.Second,
			want:     3 * time.Second,
		},
		{
			name:     "fractional seconds",
			value:    "0.5",
			fallback: 2 * time.Second,
			want:     500 * time.Millisecond,
		},
		{
			name:     "http date",
			value:    now.Add(7 * time.Second).Format(http.TimeFormat),
			fallback: 2 * time.Second,
			want:     7 * time.Second,
		},
		{
			name:     "http date in the past",
			value:    now.Add(-time.Minute).Format(http.TimeFormat),
			fallback: 2 * time.Second,
			want:     0,
		},
		{
			name:     "garbage uses fallback",
			value:    "soon",
			fallback: 2 * time.Second,
			want:     2 * time.Second,
		},
		{
			name:     "negative uses fallback",
			value:    "-4",
			fallback: 2 * time.Second,
			want:     2 * time.Second,
		},
		{
			name:     "capped at limit",
			value:    "120",
			fallback: 2 * time.Second,
			limit:    60 * time.Second,
			want:     60 * time.Second,
		},
		{
			name:     "huge value capped at limit",
			value:    "1e30",
			fallback: 2 * time.Second,
			limit:    60 * time.Second,
			want:     60 * time.Second,
		},
		{
			name:     "infinity capped at limit",
			value:    "+Inf",
			fallback: 2 * time.Second,
			limit:    60 * time.Second,
			want:     60 * time.Second,
		},
		{
			name:     "huge value without limit",
			value:    "1e30",
			fallback: 2 * time.Second,
			want:     time.Duration(math.MaxInt64),
		},
		{
			name:     "nan uses fallback",
			value:    "NaN",
			fallback: 2 * time.Second,
			want:     2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.value != "" {
				header.Set("Retry-After", tt.value)
			}
			if got := retryAfter(header, now, tt.fallback, tt.limit); got != tt.want {
				t.Errorf("retryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
