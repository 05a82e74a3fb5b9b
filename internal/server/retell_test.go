package server

import (
	"errors"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	body := []byte(`{"event":"call_started"}`)
	valid := Sign("secret", body, now)

	if err := VerifySignature("secret", valid, body, now.Add(time.Minute)); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	cases := []struct {
		name   string
		header string
		body   []byte
		want   error
	}{
		{"missing", "", body, ErrMissingSignature},
		{"tampered body", valid, []byte(`{"event":"call_ended"}`), ErrInvalidSignature},
		{"no digest", "v=1700000000000", body, ErrInvalidSignature},
		{"bad timestamp", "v=abc,d=00", body, ErrInvalidSignature},
		{"stale", Sign("secret", body, now.Add(-6*time.Minute)), body, ErrStaleTimestamp},
		{"future", Sign("secret", body, now.Add(6*time.Minute)), body, ErrStaleTimestamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := VerifySignature("secret", tc.header, tc.body, now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
