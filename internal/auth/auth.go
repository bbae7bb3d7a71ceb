package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName      = "aitag"
	replicateAccount = "replicate-api-token"
	// EnvVar is the legacy environment slot the token used to live in.
	EnvVar = "REPLICATE_API_TOKEN"
)

// Source names where a token was found.
const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

// GetToken retrieves the Replicate API token.
// If allowEnv is false, environment variables are ignored.
func GetToken(allowEnv bool) (string, string) {
	token, err := keyring.Get(serviceName, replicateAccount)
	if err == nil && token != "" {
		return token, SourceKeychain
	}
	if allowEnv {
		if token, ok := GetEnvToken(); ok {
			return token, SourceEnv
		}
	}
	return "", ""
}

// SaveToken stores the token in the OS keychain exactly as given.
func SaveToken(token string) error {
	return keyring.Set(serviceName, replicateAccount, token)
}

// DeleteToken removes the token from the OS keychain. A missing entry is not an error.
func DeleteToken() error {
	err := keyring.Delete(serviceName, replicateAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// GetStatus returns whether a token exists in the keychain.
func GetStatus() bool {
	token, err := keyring.Get(serviceName, replicateAccount)
	return err == nil && token != ""
}

// GetEnvToken retrieves the token from the environment only.
func GetEnvToken() (string, bool) {
	token := strings.TrimSpace(os.Getenv(EnvVar))
	if token == "" {
		return "", false
	}
	return token, true
}

// PromptForToken reads a token from the terminal without echoing it.
// The input is returned as typed.
func PromptForToken(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// KeychainStore adapts the keychain functions to a load/save token store.
type KeychainStore struct{}

func (KeychainStore) Load() (string, error) {
	token, err := keyring.Get(serviceName, replicateAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (KeychainStore) Save(token string) error {
	return SaveToken(token)
}
