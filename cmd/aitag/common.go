package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oukeidos/aitag/internal/auth"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/settings"
	"golang.org/x/term"
)

var (
	isTerminal     = term.IsTerminal
	getToken       = auth.GetToken
	getEnvToken    = auth.GetEnvToken
	getStatus      = auth.GetStatus
	promptForToken = auth.PromptForToken
	deleteToken    = auth.DeleteToken
	tokenStore     settings.TokenStore = auth.KeychainStore{}
)

// resolveToken finds the Replicate API token: keychain first, then the
// environment when allowed, then an interactive prompt.
func resolveToken(allowEnv bool) (string, string, error) {
	if token, source := getToken(allowEnv); token != "" {
		return token, source, nil
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no API token available (non-interactive shell); run 'aitag env setup' or use --allow-env")
	}
	token, err := promptForToken("Replicate API Token (press Enter to skip): ")
	if err != nil {
		return "", "", fmt.Errorf("error reading API token: %w", err)
	}
	if token != "" {
		return token, "Terminal Prompt", nil
	}
	if allowEnv {
		return "", "", fmt.Errorf("API token is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API token is required; not found in keychain (environment disabled by default; use --allow-env)")
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
