package hw

import (
	"context"
	"sync"
	"time"
)

// Lock is a CriticalSection for hosted boards, where the interrupt context
// is a goroutine rather than an ISR.
type Lock struct {
	mu sync.Mutex
}

func (l *Lock) Do(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f()
}

// Sleeper implements Delayer with time.Sleep.
type Sleeper struct{}

func (Sleeper) Delay(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// Wake is an Idler released by Broadcast. Every Idle call that started
// before a Broadcast returns once it happens. The zero value is ready to use.
type Wake struct {
	mu sync.Mutex
	ch chan struct{}
}

func NewWake() *Wake {
	return &Wake{ch: make(chan struct{})}
}

func (w *Wake) Idle(ctx context.Context) error {
	w.mu.Lock()
	if w.ch == nil {
		w.ch = make(chan struct{})
	}
	ch := w.ch
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Broadcast releases all current waiters.
func (w *Wake) Broadcast() {
	w.mu.Lock()
	if w.ch != nil {
		close(w.ch)
	}
	w.ch = make(chan struct{})
	w.mu.Unlock()
}

// Timer fires a handler at a fixed period. It stands in for the hardware
// timer that drives the input sampler.
type Timer struct {
	Period time.Duration
}

// Run calls isr once per period until ctx is done. isr always runs to
// completion before the next tick is considered; missed ticks are dropped.
func (t Timer) Run(ctx context.Context, isr func()) {
	ticker := time.NewTicker(t.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isr()
		}
	}
}
