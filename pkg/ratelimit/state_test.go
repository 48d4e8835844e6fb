package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestParseHeaders(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		headers     map[string]string
		wantNil     bool
		wantErr     bool
		wantRemain  int
		wantBurst   int
		wantPerSec  int
		wantType    string
		wantResetAt time.Time
	}{
		{
			name: "full headers",
			headers: map[string]string{
				"x-ratelimit-type":             "IP_ADDRESS",
				"x-ratelimit-limit-per-second": "2",
				"x-ratelimit-limit-burst":      "30",
				"x-ratelimit-remaining":        "17",
				"x-ratelimit-reset":            "2026-01-01T12:00:05.250Z",
			},
			wantRemain:  17,
			wantBurst:   30,
			wantPerSec:  2,
			wantType:    "IP_ADDRESS",
			wantResetAt: now.Add(5250 * time.Millisecond),
		},
		{
			name:       "remaining only",
			headers:    map[string]string{"X-Ratelimit-Remaining": "0"},
			wantRemain: 0,
		},
		{
			name:    "no headers",
			headers: map[string]string{},
			wantNil: true,
		},
		{
			name:    "invalid remaining",
			headers: map[string]string{"X-Ratelimit-Remaining": "lots"},
			wantErr: true,
		},
		{
			name: "invalid reset",
			headers: map[string]string{
				"X-Ratelimit-Remaining": "3",
				"X-Ratelimit-Reset":     "soon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			for k, v := range tt.headers {
				headers.Set(k, v)
			}

			state, err := ParseHeaders(headers, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if state != nil {
					t.Fatalf("expected nil state, got %+v", state)
				}
				return
			}
			if state.Remaining != tt.wantRemain {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.wantRemain)
			}
			if state.LimitBurst != tt.wantBurst {
				t.Errorf("LimitBurst = %d, want %d", state.LimitBurst, tt.wantBurst)
			}
			if state.LimitPerSecond != tt.wantPerSec {
				t.Errorf("LimitPerSecond = %d, want %d", state.LimitPerSecond, tt.wantPerSec)
			}
			if state.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", state.Type, tt.wantType)
			}
			if !state.ResetAt.Equal(tt.wantResetAt) {
				t.Errorf("ResetAt = %v, want %v", state.ResetAt, tt.wantResetAt)
			}
			if !state.LastUpdate.Equal(now) {
				t.Errorf("LastUpdate = %v, want %v", state.LastUpdate, now)
			}
		})
	}
}

func TestRateLimitState_Exhausted(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		state     RateLimitState
		exhausted bool
		untilRst  time.Duration
	}{
		{"requests left", RateLimitState{Remaining: 5, ResetAt: now.Add(time.Second)}, false, time.Second},
		{"empty before reset", RateLimitState{Remaining: 0, ResetAt: now.Add(2 * time.Second)}, true, 2 * time.Second},
		{"empty after reset", RateLimitState{Remaining: 0, ResetAt: now.Add(-time.Second)}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Exhausted(now); got != tt.exhausted {
				t.Errorf("Exhausted() = %v, want %v", got, tt.exhausted)
			}
			if got := tt.state.TimeUntilReset(now); got != tt.untilRst {
				t.Errorf("TimeUntilReset() = %v, want %v", got, tt.untilRst)
			}
		})
	}
}

func TestRateLimitState_IsStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	state := &RateLimitState{LastUpdate: now.Add(-2 * time.Minute)}

	if !state.IsStale(now, time.Minute) {
		t.Error("expected state older than maxAge to be stale")
	}
	if state.IsStale(now, 5*time.Minute) {
		t.Error("expected state within maxAge to be fresh")
	}
}
