package main

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/tagging"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		attribute     string
		workspace     string
		wantAttribute string
		wantWorkspace string
	}{
		{name: "defaults", wantAttribute: tagging.DefaultAttribute},
		{name: "stored values", attribute: "Keywords", workspace: "/data/ws.db", wantAttribute: "Keywords", wantWorkspace: "/data/ws.db"},
		{name: "blank attribute", attribute: "   ", wantAttribute: tagging.DefaultAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := test.NewTempApp(t).Preferences()
			if tt.attribute != "" {
				prefs.SetString(prefAttribute, tt.attribute)
			}
			if tt.workspace != "" {
				prefs.SetString(prefWorkspacePath, tt.workspace)
			}
			cfg := loadConfig(prefs)
			if cfg.Attribute != tt.wantAttribute {
				t.Errorf("Attribute = %q, want %q", cfg.Attribute, tt.wantAttribute)
			}
			if tt.wantWorkspace != "" && cfg.WorkspacePath != tt.wantWorkspace {
				t.Errorf("WorkspacePath = %q, want %q", cfg.WorkspacePath, tt.wantWorkspace)
			}
			if cfg.WorkspacePath == "" {
				t.Errorf("WorkspacePath is empty")
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	prefs := test.NewTempApp(t).Preferences()
	saveConfig(prefs, AppConfig{WorkspacePath: "/ws.db", Attribute: "Mood", ModelVersion: "abc"})
	got := loadConfig(prefs)
	if got.WorkspacePath != "/ws.db" || got.Attribute != "Mood" || got.ModelVersion != "abc" {
		t.Fatalf("loadConfig() = %+v", got)
	}
}

func TestTaggingConfig(t *testing.T) {
	cfg, _ := AppConfig{WorkspacePath: "/ws.db", Attribute: "AI-Tags"}.taggingConfig("r8_x")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.ModelVersion != replicate.DefaultVersion {
		t.Errorf("ModelVersion = %q, want default", cfg.ModelVersion)
	}
}
