package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackscan/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries([]deps.Requirement{
				{Name: "ffprobe", Command: cfg.FFprobePath(), Description: "Probes audio tracks"},
				{Name: "ffmpeg", Command: cfg.FFmpegPath(), Description: "Remuxes files when deleting tracks"},
			})

			out := cmd.OutOrStdout()
			missing := 0
			for _, status := range statuses {
				mark := "ok"
				if !status.Available {
					mark = "missing"
					missing++
				}
				fmt.Fprintf(out, "%-8s %-8s %s", status.Name, mark, status.Command)
				if status.Detail != "" {
					fmt.Fprintf(out, " (%s)", status.Detail)
				}
				fmt.Fprintln(out)
			}
			if missing > 0 {
				return fmt.Errorf("%d required tool(s) unavailable", missing)
			}
			return nil
		},
	}
}
