package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidateObjectID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		errContains string
	}{
		{name: "simple", input: "alpha"},
		{name: "with separators", input: "wing-2_lead.a"},
		{name: "digits first", input: "7th"},
		{name: "empty", input: "", wantErr: true, errContains: "cannot be empty"},
		{name: "too long", input: strings.Repeat("a", MaxObjectIDLen+1), wantErr: true, errContains: "too long"},
		{name: "space", input: "red leader", wantErr: true, errContains: "may only hold"},
		{name: "leading dash", input: "-alpha", wantErr: true, errContains: "may only hold"},
		{name: "slash", input: "a/b", wantErr: true, errContains: "may only hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateObjectID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ValidateObjectID() error = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateObjectID() error = %v, should contain %q", err, tt.errContains)
			}
		})
	}
}

func TestValidateFaction(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "unaligned", input: ""},
		{name: "simple", input: "raiders"},
		{name: "unicode", input: "גברם"},
		{name: "space", input: "red team", wantErr: true},
		{name: "control", input: "red\x00", wantErr: true},
		{name: "too long", input: strings.Repeat("x", MaxFactionLen+1), wantErr: true},
		{name: "invalid utf8", input: "\xff\xfe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateFaction(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateFaction(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		prop    string
		value   float64
		wantErr bool
	}{
		{name: "stick", prop: "rotationCommand", value: -1},
		{name: "trigger", prop: "chainGunIsFiring", value: 1},
		{name: "empty name", prop: "", value: 0, wantErr: true},
		{name: "bad name", prop: "boost command", value: 0, wantErr: true},
		{name: "long name", prop: strings.Repeat("a", MaxPropertyLen+1), value: 0, wantErr: true},
		{name: "nan", prop: "boostCommand", value: math.NaN(), wantErr: true},
		{name: "inf", prop: "boostCommand", value: math.Inf(-1), wantErr: true},
		{name: "huge", prop: "boostCommand", value: 2 * MaxCommandMagnitude, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.prop, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand(%q, %v) error = %v, wantErr %v", tt.prop, tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ValidateCommand() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// fakeClock drives a RateLimiter without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(max, window)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.Allow("alpha") {
			t.Errorf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("alpha") {
		t.Error("6th request allowed, want denied")
	}
	if !rl.Allow("beta") {
		t.Error("other key denied, want allowed")
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl, clock := newTestLimiter(2, 100*time.Millisecond)

	rl.Allow("alpha")
	rl.Allow("alpha")
	if rl.Allow("alpha") {
		t.Fatal("request allowed after the bucket emptied")
	}

	clock.advance(50 * time.Millisecond)
	if !rl.Allow("alpha") {
		t.Error("request denied after half a window, want one token back")
	}
	if rl.Allow("alpha") {
		t.Error("second request allowed after half a window")
	}

	clock.advance(time.Second)
	for i := 0; i < 2; i++ {
		if !rl.Allow("alpha") {
			t.Errorf("request %d denied after a full refill", i+1)
		}
	}
}

func TestRateLimiter_PrunesIdleKeys(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Second)
	rl.Allow("alpha")
	rl.Allow("beta")

	clock.advance(3 * time.Second)
	rl.Allow("beta")

	if got := rl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1 after alpha went idle", got)
	}
}
