package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotigrab/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			statuses = append(statuses, deps.ResolveFFmpeg(cfg.FFmpegBinary()))
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), statuses)
			}
			out := cmd.OutOrStdout()
			for _, line := range dependencyLines(statuses, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print statuses as JSON")
	return cmd
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, statusOK.line(dep.Name, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusFail
		if dep.Optional {
			kind = statusWarn
		} else {
			missing = append(missing, dep.Name)
		}
		lines = append(lines, kind.line(dep.Name, detail, colorize))
	}
	if len(missing) > 0 {
		lines = append(lines, statusWarn.line("Missing", strings.Join(missing, ", "), colorize))
	}
	return lines
}
