package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/aitag/internal/settings"
)

func withEnvStatusStubs(t *testing.T, status bool, envToken string) {
	t.Helper()
	prevStatus := getStatus
	prevEnv := getEnvToken
	t.Cleanup(func() {
		getStatus = prevStatus
		getEnvToken = prevEnv
	})

	getStatus = func() bool { return status }
	getEnvToken = func() (string, bool) {
		if envToken == "" {
			return "", false
		}
		return envToken, true
	}
}

type memoryTokenStore struct {
	token   string
	saveErr error
}

func (s *memoryTokenStore) Load() (string, error) { return s.token, nil }
func (s *memoryTokenStore) Save(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func withSetupStubs(t *testing.T, typed string, store *memoryTokenStore) {
	t.Helper()
	prevPrompt := promptForToken
	prevStore := tokenStore
	t.Cleanup(func() {
		promptForToken = prevPrompt
		tokenStore = prevStore
	})
	promptForToken = func(string) (string, error) { return typed, nil }
	tokenStore = store
}

func TestEnvStatus(t *testing.T) {
	tests := []struct {
		name   string
		status bool
		env    string
		args   []string
		want   string
	}{
		{"keychain", true, "r8_env_secret", []string{"env", "status"}, "Found (source=Keychain)"},
		{"environment", false, "r8_env_secret", []string{"env", "status"}, "Found (source=Environment Variable"},
		{"not found", false, "", []string{"env", "status"}, "Not Found"},
		{"default action", true, "", []string{"env"}, "Found (source=Keychain)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnvStatusStubs(t, tt.status, tt.env)
			out, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output %q does not contain %q", out, tt.want)
			}
			if strings.Contains(out, "r8_env_secret") {
				t.Fatalf("output leaked env token")
			}
		})
	}
}

func TestEnvSetup_SavesTypedToken(t *testing.T) {
	store := &memoryTokenStore{token: "r8_old"}
	withSetupStubs(t, "r8_new", store)

	out, err := executeCommand(t, "env", "setup")
	if err != nil {
		t.Fatalf("setup failed: %v\n%s", err, out)
	}
	if store.token != "r8_new" {
		t.Errorf("stored %q, want r8_new", store.token)
	}
	if !strings.Contains(out, settings.Title) || !strings.Contains(out, "Token Updated") {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "r8_new") || strings.Contains(out, "r8_old") {
		t.Errorf("output leaked token: %s", out)
	}
}

func TestEnvSetup_EmptyTokenRejected(t *testing.T) {
	store := &memoryTokenStore{token: "r8_old"}
	withSetupStubs(t, "", store)

	out, err := executeCommand(t, "env", "setup")
	if err == nil {
		t.Fatalf("expected setup to fail for empty token")
	}
	if !strings.Contains(out, "No token entered") {
		t.Errorf("output missing notification: %s", out)
	}
	if store.token != "r8_old" {
		t.Errorf("store modified: %q", store.token)
	}
}

func TestEnvSetup_StoreFailure(t *testing.T) {
	withSetupStubs(t, "r8_new", &memoryTokenStore{saveErr: errors.New("keychain locked")})

	out, err := executeCommand(t, "env", "setup")
	if err == nil || !strings.Contains(out, "Token not saved") {
		t.Fatalf("err = %v, output %s", err, out)
	}
}

func TestEnvSetup_RejectsPositionalToken(t *testing.T) {
	out, err := executeCommand(t, "env", "setup", "r8_should_not_be_allowed")
	if err == nil {
		t.Fatalf("expected setup to reject positional token argument")
	}
	if !strings.Contains(out, "unknown command") && !strings.Contains(out, "accepts 0 arg(s)") {
		t.Fatalf("expected positional-argument rejection error, got: %s", out)
	}
}
