package main

import (
	"fmt"

	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/settings"
	"github.com/oukeidos/aitag/internal/version"
	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show the tagging model and where to get a token",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aitag %s: AI image tagging for asset workspaces\n", version.Version)
			fmt.Fprintf(out, "Model:  %s:%s\n", replicate.DefaultModel, shortVersion(replicate.DefaultVersion))
			fmt.Fprintf(out, "Tokens: %s\n", settings.TokenHelpURL)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
