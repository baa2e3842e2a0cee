// Package faults defines the workbench error taxonomy.
//
// Every failure that crosses a component boundary is tagged with one of the
// sentinel markers below via Wrap, so transports (HTTP, IPC) and metrics can
// classify it with errors.Is without parsing messages. Validation-type
// markers (state, lookup, assembly, input) are deterministic and never
// retried; external-service and persistence markers describe collaborator
// failures.
package faults
