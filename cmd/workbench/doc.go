// Command workbench runs a production station daemon and talks to it.
//
// `workbench run` starts the daemon in the foreground. The other commands
// reach the running daemon over its Unix socket (status, hid, unit, notify)
// or work on local state directly (config, seed, preflight).
package main
