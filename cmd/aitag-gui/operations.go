package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/aitag/internal/auth"
	"github.com/oukeidos/aitag/internal/files"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/tagging"
	"github.com/oukeidos/aitag/internal/thumbnail"
	"github.com/oukeidos/aitag/internal/workspace"
)

var getToken = auth.GetToken

// pathsFromURIs keeps the local file paths of dropped or picked items.
func pathsFromURIs(uris []fyne.URI) []string {
	var paths []string
	for _, u := range uris {
		if u == nil || u.Scheme() != "file" {
			continue
		}
		paths = append(paths, u.Path())
	}
	return paths
}

func summaryMessage(report tagging.Report) string {
	tagged := report.Count(tagging.StatusTagged)
	skipped := report.Count(tagging.StatusSkipped)
	if skipped == 0 {
		return fmt.Sprintf("Tagged %d file(s).", tagged)
	}
	return fmt.Sprintf("Tagged %d file(s), skipped %d unsupported file(s).", tagged, skipped)
}

func (a *tagApp) startTagging(paths []string) {
	if len(paths) == 0 {
		return
	}
	if !a.setBusy(true) {
		logger.Info("Tagging already running; selection ignored", "files", len(paths))
		return
	}

	token, _ := getToken(false)
	if token == "" {
		a.setBusy(false)
		a.notifier.ShowError("No token entered", "Please enter a valid API token")
		a.safeDo("ui.settings.open", a.showSettingsWindow)
		return
	}
	cfg, notes := a.config.taggingConfig(token)
	for _, note := range notes {
		logger.Warn("Configuration adjusted", "note", note)
	}
	if err := cfg.Validate(); err != nil {
		a.setBusy(false)
		logger.Error("Invalid configuration", "error", err)
		a.notifier.ShowError("Something went wrong", "Open the console for more information")
		return
	}

	a.safeGo("ops.tag", func() {
		defer a.setBusy(false)
		a.runTagging(cfg, paths)
	})
}

// openWorkspace refuses database paths that pass through a symlink.
func openWorkspace(ctx context.Context, path string) (*workspace.Store, error) {
	if err := files.RejectSymlinkPath(path); err != nil {
		return nil, err
	}
	return workspace.Open(ctx, path)
}

func (a *tagApp) runTagging(cfg tagging.Config, paths []string) {
	ctx := context.Background()
	store, err := openWorkspace(ctx, cfg.WorkspacePath)
	if err != nil {
		logger.Error("Failed to open workspace", "path", cfg.WorkspacePath, "error", err)
		a.notifier.ShowError("Something went wrong", "Open the console for more information")
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close workspace", "error", err)
		}
	}()

	attr, err := tagging.EnsureAttribute(ctx, store, cfg.Attribute)
	if err != nil {
		logger.Error("Failed to prepare attribute", "attribute", cfg.Attribute, "error", err)
		a.notifier.ShowError("Something went wrong", "Open the console for more information")
		return
	}

	p := &tagging.Pipeline{
		Store:       store,
		Thumbnails:  thumbnail.NewGenerator(),
		Tagger:      replicate.NewClient(cfg.Token, cfg.ModelVersion),
		Notifier:    a.notifier,
		NewProgress: a.newProgress,
		WorkspaceID: store.ID(),
	}
	res := <-p.Start(ctx, attr, paths)
	if res.Err != nil {
		logger.Error("Tagging stopped", "failed", res.Report.Failed, "error", res.Err)
		return
	}
	a.notifier.ShowSuccess("Tags Generated", summaryMessage(res.Report))
}
