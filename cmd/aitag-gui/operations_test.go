package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"

	"github.com/oukeidos/aitag/internal/tagging"
)

func TestPathsFromURIs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.psd")
	remote, err := storage.ParseURI("https://example.com/c.png")
	if err != nil {
		t.Fatalf("ParseURI: %v", err)
	}

	got := pathsFromURIs([]fyne.URI{storage.NewFileURI(a), nil, remote, storage.NewFileURI(b)})
	if len(got) != 2 || filepath.Clean(got[0]) != a || filepath.Clean(got[1]) != b {
		t.Fatalf("pathsFromURIs() = %v", got)
	}
}

func TestSummaryMessage(t *testing.T) {
	tests := []struct {
		name   string
		report tagging.Report
		want   string
	}{
		{
			name:   "all tagged",
			report: tagging.Report{Outcomes: []tagging.Outcome{{Status: tagging.StatusTagged}, {Status: tagging.StatusTagged}}},
			want:   "Tagged 2 file(s).",
		},
		{
			name:   "with skipped",
			report: tagging.Report{Outcomes: []tagging.Outcome{{Status: tagging.StatusTagged}, {Status: tagging.StatusSkipped}}},
			want:   "Tagged 1 file(s), skipped 1 unsupported file(s).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryMessage(tt.report); got != tt.want {
				t.Fatalf("summaryMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetBusy(t *testing.T) {
	a := &tagApp{}
	if !a.setBusy(true) {
		t.Fatalf("first setBusy(true) should change state")
	}
	if a.setBusy(true) {
		t.Fatalf("second setBusy(true) should be rejected")
	}
	if !a.setBusy(false) {
		t.Fatalf("setBusy(false) should change state")
	}
}

func TestOpenWorkspace_RejectsSymlinkedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}
	tmp := t.TempDir()
	realDir := filepath.Join(tmp, "real")
	if err := os.Mkdir(realDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if store, err := openWorkspace(context.Background(), filepath.Join(link, "workspace.db")); err == nil {
		store.Close()
		t.Fatalf("openWorkspace() through symlink should fail")
	}
	if _, err := os.Stat(filepath.Join(realDir, "workspace.db")); !os.IsNotExist(err) {
		t.Fatalf("database created behind symlink: %v", err)
	}

	store, err := openWorkspace(context.Background(), filepath.Join(realDir, "workspace.db"))
	if err != nil {
		t.Fatalf("openWorkspace() plain path error: %v", err)
	}
	store.Close()
}

func TestIdleTextExplainsMultipleFiles(t *testing.T) {
	for _, want := range []string{"Drop one or more", "single image"} {
		if !strings.Contains(idleText, want) {
			t.Errorf("idleText = %q, missing %q", idleText, want)
		}
	}
	if !strings.Contains(pickerTitle, "One") {
		t.Errorf("pickerTitle = %q should say the picker takes one file", pickerTitle)
	}
}
