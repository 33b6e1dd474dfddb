package session

import "sync/atomic"

type FlightState int

const (
	Idle FlightState = iota
	Pending
)

func (s FlightState) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Flight admits at most one call at a time. The zero value is Idle.
type Flight struct {
	pending atomic.Bool
}

// Begin moves to Pending, or returns ErrBusy if a call is already running.
// Every successful Begin must be paired with End.
func (f *Flight) Begin() error {
	if !f.pending.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (f *Flight) End() { f.pending.Store(false) }

func (f *Flight) State() FlightState {
	if f.pending.Load() {
		return Pending
	}
	return Idle
}
