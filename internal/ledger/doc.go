// Package ledger anchors published passport content ids on the external
// ledger bridge.
//
// Posts are fire-and-forget from the caller's point of view: Schedule
// starts a detached goroutine that retries a fixed number of times with no
// delay, records the transaction hash on the unit when the post succeeds,
// and reports the outcome through the notification bus. Wait lets the
// daemon drain outstanding posts during shutdown.
package ledger
