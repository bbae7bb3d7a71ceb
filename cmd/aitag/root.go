package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oukeidos/aitag/internal/cleanup"
	"github.com/oukeidos/aitag/internal/files"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/version"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	logFilePath string
	debug       bool
}

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := globalOptions{}

	cmd := &cobra.Command{
		Use:   "aitag",
		Short: "Tag workspace images with AI-generated keywords",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(&opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(subcommandUsageTemplate)

	cmd.PersistentFlags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newAboutCmd(),
		newTagCmd(),
		newTagsCmd(),
		newEnvCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate shell completion scripts"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func initLogging(opts *globalOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		f, err := files.OpenAppend(opts.logFilePath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	return nil
}
