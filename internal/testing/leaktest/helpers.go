// Package leaktest checks that a test leaves no goroutines behind.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	defaultTimeout = 2 * time.Second
	pollInterval   = 10 * time.Millisecond
)

// GoroutineChecker records the goroutine count at creation and compares on Check
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker snapshots the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), timeout: defaultTimeout}
}

// Check waits until at most tolerance extra goroutines remain, failing the test after the timeout.
// Goroutines stopped by Shutdown/Stop calls often exit a moment after those calls return.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	target := g.before + tolerance
	deadline := time.Now().Add(g.timeout)
	for {
		runtime.Gosched()
		now := runtime.NumGoroutine()
		if now <= target {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
				g.before, now, now-g.before, tolerance)
			return
		}
		time.Sleep(pollInterval)
	}
}

// Check is the defer form: defer leaktest.Check(t)()
func Check(t testing.TB) func() {
	t.Helper()
	g := NewGoroutineChecker(t)
	return func() {
		t.Helper()
		g.Check(0)
	}
}
