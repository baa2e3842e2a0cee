// Package config loads, normalizes, and validates workbench configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment overrides such as WORKBENCH_NUMBER,
// IPFS_GATEWAY_URI, and LEDGER_ACCOUNT_SEED. The Config type gathers every
// knob the daemon and CLI need: storage paths, the camera command, the
// publishing gateway, the ledger bridge, printer behaviour, and HID device
// names.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
