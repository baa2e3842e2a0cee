// Package preflight provides readiness checks for the filesystem, external
// binaries, and network services the workbench depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup. A failed fatal check (the publishing
//     gateway) aborts the start; other failures are logged as warnings.
//   - The CLI "workbench preflight" command renders the same results.
//
// Each check is gated by its config toggle, so disabled features are skipped.
package preflight
