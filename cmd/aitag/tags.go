package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oukeidos/aitag/internal/files"
	"github.com/oukeidos/aitag/internal/prompt"
	"github.com/oukeidos/aitag/internal/workspace"
	"github.com/spf13/cobra"
)

type tagsOptions struct {
	workspacePath string
	attribute     string
	yes           bool
}

var confirmOverwrite = func(path string, force bool) (bool, error) {
	return prompt.DefaultConfirmer().ConfirmOverwrite(path, force)
}

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Inspect the tag vocabulary of a workspace",
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.AddCommand(newTagsListCmd(), newTagsExportCmd())
	return cmd
}

func newTagsListCmd() *cobra.Command {
	opts := tagsOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tags of an attribute with their colours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := loadVocabulary(cmd, &opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d tags):\n", opts.attribute, len(tags))
			for _, t := range tags {
				fmt.Fprintf(out, "  %-35s [%s]\n", t.Name, t.Color)
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addWorkspaceFlags(cmd.Flags(), &opts.workspacePath, &opts.attribute)
	return cmd
}

type exportedTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type vocabularyExport struct {
	WorkspaceID string        `json:"workspace_id"`
	Attribute   string        `json:"attribute"`
	Tags        []exportedTag `json:"tags"`
}

func newTagsExportCmd() *cobra.Command {
	opts := tagsOptions{}
	cmd := &cobra.Command{
		Use:     "export <output.json>",
		Example: "  aitag tags export -y tags.json",
		Short:   "Write the tags of an attribute to a JSON file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmOverwrite(args[0], opts.yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Export canceled.")
				return nil
			}
			wsPath, err := resolveWorkspacePath(opts.workspacePath)
			if err != nil {
				return err
			}
			store, err := openWorkspace(cmd, wsPath)
			if err != nil {
				return err
			}
			tags, err := vocabulary(cmd, store, opts.attribute)
			if err != nil {
				return err
			}

			doc := vocabularyExport{WorkspaceID: store.ID(), Attribute: opts.attribute, Tags: []exportedTag{}}
			for _, t := range tags {
				doc.Tags = append(doc.Tags, exportedTag{Name: t.Name, Color: string(t.Color)})
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode tags: %w", err)
			}
			if err := files.AtomicWrite(args[0], append(data, '\n'), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tags to %s\n", len(tags), args[0])
			return nil
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addWorkspaceFlags(cmd.Flags(), &opts.workspacePath, &opts.attribute)
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	return cmd
}

func loadVocabulary(cmd *cobra.Command, opts *tagsOptions) ([]workspace.Tag, error) {
	wsPath, err := resolveWorkspacePath(opts.workspacePath)
	if err != nil {
		return nil, err
	}
	store, err := openWorkspace(cmd, wsPath)
	if err != nil {
		return nil, err
	}
	return vocabulary(cmd, store, opts.attribute)
}

// vocabulary returns the attribute's tags; an attribute that was never created has none.
func vocabulary(cmd *cobra.Command, store *workspace.Store, name string) ([]workspace.Tag, error) {
	attr, err := store.GetAttribute(cmd.Context(), name)
	if errors.Is(err, workspace.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store.AttributeTags(cmd.Context(), attr)
}
