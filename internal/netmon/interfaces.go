// Package netmon watches server reachability and turns raw probe samples
// into debounced connectivity transitions.
//
// A raw sample that disagrees with the committed state must persist for the
// configured grace window before the transition is committed; short flaps
// inside the window are discarded. Committed transitions are pushed to a
// [StatusWriter] and, on the offline-to-online edge, fire the registered
// trigger exactly once per transition.
package netmon

import "context"

// Probe samples server reachability once. Implementations must honour ctx
// and answer quickly; the monitor calls Check on every tick.
type Probe interface {
	Check(ctx context.Context) bool
}

// StatusWriter receives committed connectivity transitions. Implemented by
// the status surface in the service layer; declared here so the monitor does
// not depend on it.
type StatusWriter interface {
	SetOnline(online bool)
}

// TriggerFunc is invoked on a committed offline-to-online transition,
// typically to start a sync pass. It runs on its own goroutine; the monitor
// never waits for it.
type TriggerFunc func()
