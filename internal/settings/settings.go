// Package settings drives the Replicate token dialog independently of any UI toolkit.
package settings

import (
	"github.com/oukeidos/aitag/internal/apperrors"
	"github.com/oukeidos/aitag/internal/logger"
)

const (
	Title          = "Replicate Settings"
	TokenVar       = "token"
	TokenWidth     = 400
	TokenHint      = "45jdh5k3kjdh5k3jh54kjh3..."
	TokenHelpURL   = "https://replicate.com/account/api-tokens"
	ApplyLabel     = "Apply"
	tokenLabel     = "API Token"
	tokenHelpText  = "Create a token at " + TokenHelpURL + " and paste it above."
	successTitle   = "Token Updated"
	successMessage = "Your Replicate API token has been saved."
)

// InputSpec describes a single text input of a dialog.
type InputSpec struct {
	Var         string
	Value       string
	Width       float32
	Placeholder string
	Password    bool
}

// Dialog is the capability a host UI provides for building a modal form.
type Dialog interface {
	SetTitle(title string)
	// AddText adds a static line; bold renders it as a heading.
	AddText(text string, bold bool)
	AddInput(spec InputSpec)
	// AddInfo adds help text, optionally pointing at url.
	AddInfo(text, url string)
	AddButton(label string, onTap func(Dialog))
	// Value returns the current text of the input bound to name.
	Value(name string) string
	Show()
	Close()
}

// TokenStore persists the API token.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
}

// Notifier shows toast-style messages to the user.
type Notifier interface {
	ShowError(title, message string)
	ShowSuccess(title, message string)
}

// Show builds the token dialog pre-filled with the stored token and displays it.
// A store that fails to load leaves the input empty.
func Show(d Dialog, store TokenStore, n Notifier) {
	current, err := store.Load()
	if err != nil {
		logger.Warn("Could not read stored token", "error", err)
		current = ""
	}

	d.SetTitle(Title)
	d.AddText(tokenLabel, true)
	d.AddInput(InputSpec{
		Var:         TokenVar,
		Value:       current,
		Width:       TokenWidth,
		Placeholder: TokenHint,
		Password:    true,
	})
	d.AddInfo(tokenHelpText, TokenHelpURL)
	d.AddButton(ApplyLabel, func(d Dialog) {
		Apply(d, store, n)
	})
	d.Show()
}

// Apply stores the entered token. An empty token or a failed save keeps the dialog open.
// The token is stored exactly as entered.
func Apply(d Dialog, store TokenStore, n Notifier) bool {
	token := d.Value(TokenVar)
	if token == "" {
		n.ShowError("No token entered", "Please enter a valid API token")
		return false
	}
	if err := store.Save(token); err != nil {
		logger.Error("Failed to save token", "error", err)
		n.ShowError("Token not saved", apperrors.PublicMessage(err))
		return false
	}
	logger.Info("API token updated")
	n.ShowSuccess(successTitle, successMessage)
	d.Close()
	return true
}
