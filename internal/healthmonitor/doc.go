// Package healthmonitor implements the background health-check lifecycle:
// one recurring task per BackendPool, probing every backend in turn and
// reclassifying it, cooperatively cancellable via Stop.
package healthmonitor
