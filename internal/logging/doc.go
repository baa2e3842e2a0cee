// Package logging assembles the structured slog loggers used across the
// workbench daemon and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers and
// workbench operations tag log lines with correlation ids, unit ids, and
// machine states. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
