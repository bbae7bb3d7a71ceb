package main

import (
	"errors"
	"fmt"

	"github.com/oukeidos/aitag/internal/auth"
	"github.com/oukeidos/aitag/internal/settings"
	"github.com/spf13/cobra"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the Replicate API token in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd)
		},
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.AddCommand(
		newEnvSetupCmd(),
		newEnvDeleteCmd(),
		newEnvStatusCmd(),
	)
	return cmd
}

func newEnvSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save API token to keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvSetup(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete token from keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvDelete(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show token status (default if no action given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

// runEnvSetup drives the same settings flow as the desktop app through the terminal.
func runEnvSetup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	d := newTerminalDialog(out, promptForToken)
	settings.Show(d, tokenStore, &consoleNotifier{out: out})
	if d.err != nil {
		return fmt.Errorf("error reading token: %w", d.err)
	}
	if !d.closed {
		return errors.New("API token was not saved")
	}
	return nil
}

func runEnvDelete(cmd *cobra.Command) error {
	if err := deleteToken(); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Deleted Replicate API token from keychain.")
	return nil
}

func runEnvStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if getStatus() {
		fmt.Fprintf(out, "Replicate API Token: Found (source=%s)\n", auth.SourceKeychain)
		return nil
	}
	if token, ok := getEnvToken(); ok && token != "" {
		fmt.Fprintf(out, "Replicate API Token: Found (source=%s %s; disabled by default, use --allow-env)\n", auth.SourceEnv, auth.EnvVar)
		return nil
	}
	fmt.Fprintln(out, "Replicate API Token: Not Found (keychain empty, env not set)")
	return nil
}
