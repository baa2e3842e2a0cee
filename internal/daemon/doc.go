// Package daemon runs the long-lived workbench process.
//
// It wires the store, the station state machine, the notification bus, and
// the HTTP API into one lifecycle guarded by a flock so only one daemon runs
// per station. Background tasks (notification relay, udev reader monitor,
// API server) share an errgroup; Stop finishes the station shutdown sequence
// and drains pending ledger posts before tearing them down.
//
// Keep production rules in the workbench package. The daemon only starts,
// stops, and reports on it.
package daemon
