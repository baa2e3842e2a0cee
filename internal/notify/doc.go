// Package notify implements the in-memory notification bus that carries
// user-facing messages from the workbench to every connected observer.
//
// Severities form a closed set; each Level carries its own presentation
// hints (auto hide delay, persistence, duplicate suppression) as data so
// transports never branch on severity. Emission never blocks: every
// subscriber owns an unbounded queue, and subscribers that have been closed
// are pruned on the next emission.
package notify
