package main

import (
	"fmt"

	"github.com/oukeidos/aitag/internal/auth"
	"github.com/oukeidos/aitag/internal/cleanup"
	"github.com/oukeidos/aitag/internal/files"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/tagging"
	"github.com/oukeidos/aitag/internal/thumbnail"
	"github.com/oukeidos/aitag/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type tagOptions struct {
	workspacePath string
	attribute     string
	allowEnv      bool
	versionID     string
}

const tagExample = `  aitag tag shots/*.png renders/hero.psd
  aitag tag --workspace ./project.db --attribute Keywords model.fbx`

func newTagCmd() *cobra.Command {
	opts := tagOptions{}
	cmd := &cobra.Command{
		Use:     "tag <file>...",
		Short:   "Generate AI tags for image files",
		Example: tagExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return fmt.Errorf("at least one file is required")
			}
			return runTag(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addWorkspaceFlags(cmd.Flags(), &opts.workspacePath, &opts.attribute)
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API token from "+auth.EnvVar)
	cmd.Flags().StringVar(&opts.versionID, "version-id", "", "Replicate model version (default: pinned ram-grounded-sam)")
	return cmd
}

func addWorkspaceFlags(fs *pflag.FlagSet, path, attribute *string) {
	fs.StringVar(path, "workspace", "", "Workspace database path (default: ~/.aitag/workspace.db)")
	fs.StringVar(attribute, "attribute", tagging.DefaultAttribute, "Attribute that receives the tags")
}

func resolveWorkspacePath(path string) (string, error) {
	if path == "" {
		return workspace.DefaultPath()
	}
	return path, nil
}

// openWorkspace opens the database and registers it for closing on exit.
func openWorkspace(cmd *cobra.Command, path string) (*workspace.Store, error) {
	if err := files.RejectSymlinkPath(path); err != nil {
		return nil, err
	}
	store, err := workspace.Open(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	cleanup.Register("workspace", store.Close)
	return store, nil
}

func runTag(cmd *cobra.Command, args []string, opts *tagOptions) error {
	wsPath, err := resolveWorkspacePath(opts.workspacePath)
	if err != nil {
		return err
	}
	cfg, notes := tagging.Config{
		WorkspacePath: wsPath,
		Attribute:     opts.attribute,
		ModelVersion:  opts.versionID,
	}.Normalize()
	for _, note := range notes {
		logger.Warn("Configuration adjusted", "note", note)
	}

	token, source, err := resolveToken(opts.allowEnv)
	if err != nil {
		return err
	}
	logger.Info("Using API token", "source", source)
	cfg.Token = token
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	cmd.SetContext(ctx)

	store, err := openWorkspace(cmd, cfg.WorkspacePath)
	if err != nil {
		return err
	}
	attr, err := tagging.EnsureAttribute(ctx, store, cfg.Attribute)
	if err != nil {
		return fmt.Errorf("failed to prepare attribute %q: %w", cfg.Attribute, err)
	}

	p := &tagging.Pipeline{
		Store:       store,
		Thumbnails:  thumbnail.NewGenerator(),
		Tagger:      replicate.NewClient(cfg.Token, cfg.ModelVersion),
		Notifier:    &consoleNotifier{out: cmd.ErrOrStderr()},
		NewProgress: newConsoleProgress(cmd.ErrOrStderr()),
		WorkspaceID: store.ID(),
	}
	report, err := p.Run(ctx, attr, args)
	printReport(cmd, report)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Tagging canceled", "error", err)
			return nil
		}
		return fmt.Errorf("tagging stopped at %s: %w", report.Failed, err)
	}
	return nil
}

func printReport(cmd *cobra.Command, report tagging.Report) {
	out := cmd.OutOrStdout()
	for _, o := range report.Outcomes {
		switch o.Status {
		case tagging.StatusSkipped:
			fmt.Fprintf(out, "%s: skipped (unsupported extension)\n", o.Path)
		case tagging.StatusTagged:
			fmt.Fprintf(out, "%s: %d tags (%d new)\n", o.Path, len(o.Tags), len(o.Added))
		}
	}
	fmt.Fprintf(out, "Tagged: %d, Skipped: %d\n", report.Count(tagging.StatusTagged), report.Count(tagging.StatusSkipped))
}
