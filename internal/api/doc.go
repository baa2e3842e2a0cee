// Package api serves the station over HTTP and defines the wire-format types
// shared with the IPC layer.
//
// # Routes
//
// /workbench/*: status (plain and SSE), unit assignment, operation start and
// end, production schema listing, and HID reader events.
//
// /unit/*: unit creation, info, units awaiting revision, passport upload, and
// component assignment.
//
// /employee/*: card lookup, log in, and log out.
//
// /notifications: SSE stream of operator messages and a POST endpoint that
// injects one.
//
// /metrics, /live, /ready: Prometheus exposition and health checks.
//
// # Design Notes
//
// Response bodies carry status_code and detail next to the payload, and use
// snake_case JSON tags for the station UI. Errors are mapped from their fault
// kind, so a forbidden transition is a 403 and an unknown unit a 404 no matter
// which route reported it.
//
// SSE streams send a single unnamed event per update with a JSON data line.
package api
