// Package ipc exposes the running daemon over JSON-RPC on a Unix socket and
// ships the matching client used by the CLI.
//
// The service is registered as "Workbench". Readers without a udev device
// (tests, the hid emulator command) push events through HIDEvent; the other
// methods are read-mostly views over the station and the store.
//
// Reuse these request and response types when adding methods so older CLI
// builds keep working.
package ipc
