// Package notifications forwards operator messages to ntfy.
//
// The Relay subscribes to the workbench notification bus and pushes every
// message at or above the configured level to the ntfy topic from
// config.toml, so supervisors away from the station see failures. When no
// topic is configured the service is a no-op.
package notifications
