package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_BeforeAnyMark(t *testing.T) {
	l := New(10 * time.Minute)
	if !l.Allow("token-a") {
		t.Error("unmarked token should be allowed")
	}
}

func TestAllow_WithinWindow(t *testing.T) {
	l := New(10 * time.Minute)
	l.Mark("token-a")

	if l.Allow("token-a") {
		t.Error("token marked just now should be blocked")
	}
	if !l.Allow("token-b") {
		t.Error("distinct token must not share the window")
	}
}

func TestAllow_AfterWindowElapsed(t *testing.T) {
	l := New(10 * time.Minute)
	base := time.Now()

	l.now = func() time.Time { return base }
	l.Mark("token-a")

	l.now = func() time.Time { return base.Add(9 * time.Minute) }
	if l.Allow("token-a") {
		t.Error("token should still be blocked inside the window")
	}

	l.now = func() time.Time { return base.Add(10 * time.Minute) }
	if !l.Allow("token-a") {
		t.Error("token should be allowed once the window elapsed")
	}
}

func TestDisabledLimiter(t *testing.T) {
	l := New(0)
	l.Mark("token-a")
	if !l.Allow("token-a") {
		t.Error("zero window must disable limiting")
	}
}
