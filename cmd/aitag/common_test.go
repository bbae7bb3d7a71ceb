package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oukeidos/aitag/internal/cleanup"
	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/settings"
)

type tokenStubs struct {
	promptCalls int
	tokenCalls  int
}

func withTokenStubs(t *testing.T, terminal bool, promptVal, keychainVal, envVal string) *tokenStubs {
	t.Helper()
	stubs := &tokenStubs{}

	prevIsTerminal := isTerminal
	prevPrompt := promptForToken
	prevGetToken := getToken
	t.Cleanup(func() {
		isTerminal = prevIsTerminal
		promptForToken = prevPrompt
		getToken = prevGetToken
	})

	isTerminal = func(_ int) bool { return terminal }
	promptForToken = func(_ string) (string, error) {
		stubs.promptCalls++
		return promptVal, nil
	}
	getToken = func(allowEnv bool) (string, string) {
		stubs.tokenCalls++
		if keychainVal != "" {
			return keychainVal, "Keychain"
		}
		if allowEnv && envVal != "" {
			return envVal, "Environment Variable"
		}
		return "", ""
	}
	return stubs
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { _ = cleanup.RunAll() })
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name       string
		terminal   bool
		prompt     string
		keychain   string
		env        string
		allowEnv   bool
		wantToken  string
		wantSource string
		wantErr    string
		wantPrompt int
	}{
		{name: "keychain first", terminal: true, keychain: "r8_key", env: "r8_env", allowEnv: true, wantToken: "r8_key", wantSource: "Keychain"},
		{name: "env when allowed", terminal: false, env: "r8_env", allowEnv: true, wantToken: "r8_env", wantSource: "Environment Variable"},
		{name: "env ignored by default", terminal: false, env: "r8_env", wantErr: "non-interactive"},
		{name: "prompt fallback", terminal: true, prompt: "r8_typed", wantToken: "r8_typed", wantSource: "Terminal Prompt", wantPrompt: 1},
		{name: "prompt skipped", terminal: true, wantErr: "use --allow-env", wantPrompt: 1},
		{name: "prompt skipped with env allowed", terminal: true, allowEnv: true, wantErr: "not found in keychain or environment", wantPrompt: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := withTokenStubs(t, tt.terminal, tt.prompt, tt.keychain, tt.env)
			token, source, err := resolveToken(tt.allowEnv)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("resolveToken() error = %v, want %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("resolveToken() error: %v", err)
			}
			if token != tt.wantToken || source != tt.wantSource {
				t.Errorf("resolveToken() = %q, %q; want %q, %q", token, source, tt.wantToken, tt.wantSource)
			}
			if stubs.promptCalls != tt.wantPrompt {
				t.Errorf("prompt called %d times, want %d", stubs.promptCalls, tt.wantPrompt)
			}
		})
	}
}

func TestAboutCmd(t *testing.T) {
	out, err := executeCommand(t, "about")
	if err != nil {
		t.Fatalf("about error: %v", err)
	}
	for _, want := range []string{replicate.DefaultModel + ":80a2aede4cf8", settings.TokenHelpURL} {
		if !strings.Contains(out, want) {
			t.Errorf("about output %q missing %q", out, want)
		}
	}
	if _, err := executeCommand(t, "about", "extra"); err == nil {
		t.Errorf("about accepted a positional argument")
	}
}
