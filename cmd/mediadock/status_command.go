package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediadock/internal/config"
	"mediadock/internal/daemonrun"
	"mediadock/internal/preflight"
	"mediadock/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, storage and preflight status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				var lines []string

				lines = append(lines, renderSectionHeader("Daemon", colorize)...)
				pid, alive := daemonrun.ReadPID(cfg)
				switch {
				case alive:
					lines = append(lines, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", pid), colorize))
				case pid > 0:
					lines = append(lines, renderStatusLine("Daemon", statusWarn, fmt.Sprintf("stale pid file (pid %d)", pid), colorize))
				default:
					lines = append(lines, renderStatusLine("Daemon", statusInfo, "not running", colorize))
				}
				lines = append(lines,
					surfaceLine("Storage API", cfg.Storage.Bind, colorize),
					surfaceLine("Alert relay", cfg.Relay.Bind, colorize),
					surfaceLine("Web", cfg.Web.Bind, colorize),
				)

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Storage", colorize)...)
				lines = append(lines, renderStatusLine("Config", statusInfo, configLabel(ctx), colorize))
				lines = append(lines, renderStatusLine("Database", statusInfo, st.Path(), colorize))
				stats, err := st.ImageStats(cmd.Context())
				if err != nil {
					lines = append(lines, renderStatusLine("Images", statusError, err.Error(), colorize))
				} else {
					lines = append(lines, renderStatusLine("Images", statusInfo,
						fmt.Sprintf("%d stored, %s", stats.Count, humanize.IBytes(uint64(stats.TotalBytes))), colorize))
				}
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					lines = append(lines, renderStatusLine("Users", statusError, err.Error(), colorize))
				} else {
					active := 0
					for _, u := range users {
						if u.IsActive {
							active++
						}
					}
					lines = append(lines, renderStatusLine("Users", statusInfo,
						fmt.Sprintf("%d (%d active)", len(users), active), colorize))
				}

				failed := 0
				if !skipChecks {
					lines = append(lines, "")
					lines = append(lines, renderSectionHeader("Checks", colorize)...)
					for _, result := range preflight.RunAll(cmd.Context(), cfg) {
						kind := statusOK
						if !result.Passed {
							kind = statusError
							failed++
						}
						lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
					}
				}

				fmt.Fprintln(out, strings.Join(lines, "\n"))
				if failed > 0 {
					return fmt.Errorf("%d preflight check(s) failed", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "no-checks", false, "Skip preflight checks")
	return cmd
}

func surfaceLine(label, bind string, colorize bool) string {
	if strings.TrimSpace(bind) == "" {
		return renderStatusLine(label, statusInfo, "disabled", colorize)
	}
	return renderStatusLine(label, statusInfo, bind, colorize)
}

func configLabel(ctx *commandContext) string {
	path, exists := ctx.configSource()
	if exists {
		return path
	}
	return path + " (defaults)"
}
