package main

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/tagging"
	"github.com/oukeidos/aitag/internal/workspace"
)

const (
	prefWorkspacePath = "WorkspacePath"
	prefAttribute     = "Attribute"
	prefModelVersion  = "ModelVersion"
)

type AppConfig struct {
	WorkspacePath string
	Attribute     string
	ModelVersion  string
}

func loadConfig(prefs fyne.Preferences) AppConfig {
	cfg := AppConfig{
		WorkspacePath: prefs.String(prefWorkspacePath),
		Attribute:     prefs.StringWithFallback(prefAttribute, tagging.DefaultAttribute),
		ModelVersion:  prefs.String(prefModelVersion),
	}
	if cfg.WorkspacePath == "" {
		path, err := workspace.DefaultPath()
		if err != nil {
			logger.Error("Failed to resolve default workspace", "error", err)
		}
		cfg.WorkspacePath = path
	}
	if trimmed := strings.TrimSpace(cfg.Attribute); trimmed == "" {
		logger.Warn("Empty attribute preference replaced", "effective", tagging.DefaultAttribute)
		cfg.Attribute = tagging.DefaultAttribute
		prefs.SetString(prefAttribute, cfg.Attribute)
	}
	return cfg
}

func saveConfig(prefs fyne.Preferences, cfg AppConfig) {
	prefs.SetString(prefWorkspacePath, cfg.WorkspacePath)
	prefs.SetString(prefAttribute, cfg.Attribute)
	prefs.SetString(prefModelVersion, cfg.ModelVersion)
}

// taggingConfig converts the preferences into a pipeline configuration.
func (c AppConfig) taggingConfig(token string) (tagging.Config, []string) {
	return tagging.Config{
		WorkspacePath: c.WorkspacePath,
		Attribute:     c.Attribute,
		Token:         token,
		ModelVersion:  c.ModelVersion,
	}.Normalize()
}
