package preflight

import (
	"context"

	"workbench/internal/config"
	"workbench/internal/deps"
)

// MinFreeBytes is the free space below which a storage directory fails.
const MinFreeBytes uint64 = 512 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Fatal marks a check whose failure must stop the daemon.
	Fatal bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	dirs := []struct{ name, path string }{
		{"Data directory", cfg.Paths.DataDir},
		{"Log directory", cfg.Paths.LogDir},
		{"Passport directory", cfg.Paths.PassportDir},
	}
	if cfg.Camera.Enabled {
		dirs = append(dirs, struct{ name, path string }{"Video directory", cfg.Paths.VideoDir})
	}
	for _, dir := range dirs {
		access := CheckDirectoryAccess(dir.name, dir.path)
		results = append(results, access)
		if access.Passed {
			results = append(results, CheckFreeSpace(dir.name+" space", dir.path, MinFreeBytes))
		}
	}

	results = append(results, FromDependencies(deps.CheckBinaries(deps.Requirements(cfg)))...)

	if cfg.IPFSGateway.Enabled {
		gateway := CheckEndpoint(ctx, "Publishing gateway", cfg.IPFSGateway.URI)
		gateway.Fatal = true
		results = append(results, gateway)
	}
	if cfg.Camera.Enabled {
		results = append(results, CheckCamera(ctx, cfg.Camera.FFmpegCommand))
	}
	return results
}

// Failed returns the failed results, fatal ones first.
func Failed(results []Result) (fatal, warnings []Result) {
	for _, r := range results {
		switch {
		case r.Passed:
		case r.Fatal:
			fatal = append(fatal, r)
		default:
			warnings = append(warnings, r)
		}
	}
	return fatal, warnings
}

// FromDependencies converts binary checks into results. Optional binaries
// that are missing still pass.
func FromDependencies(statuses []deps.Status) []Result {
	out := make([]Result, 0, len(statuses))
	for _, s := range statuses {
		r := Result{Name: s.Name, Passed: s.Available || s.Optional}
		switch {
		case s.Available:
			r.Detail = s.Command
		case s.Optional:
			r.Detail = "not required (feature disabled)"
		default:
			r.Detail = s.Detail
		}
		out = append(out, r)
	}
	return out
}
