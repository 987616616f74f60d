package preflight

import (
	"context"
	"strings"

	"mediadock/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Network checks are only run for surfaces that are enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Media root", cfg.Paths.MediaRoot),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if strings.TrimSpace(cfg.Storage.Bind) != "" {
		results = append(results, CheckFreeSpace("Media volume", cfg.Paths.MediaRoot, cfg.MaxUploadBytes()*minFreeUploads))
	}
	if strings.TrimSpace(cfg.Relay.Bind) != "" {
		results = append(results, CheckWebhook(ctx, cfg.Relay.WebhookURL))
	}
	if strings.TrimSpace(cfg.Web.Bind) != "" && strings.TrimSpace(cfg.Web.StorageOrigin) != "" {
		results = append(results, CheckStorageOrigin(ctx, cfg.Web.StorageOrigin))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
