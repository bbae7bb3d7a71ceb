// Package apperrors classifies failures so front ends can pick a message without parsing text.
package apperrors

import (
	"errors"
	"strings"
)

// Kind groups errors by how the user should react to them.
type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindGeneration Kind = "generation"
)

var kindMessages = map[Kind]string{
	KindTransient:  "Replicate is temporarily unavailable. Please try again.",
	KindRateLimit:  "Replicate rate limit reached. Please wait before tagging more files.",
	KindAuth:       "The Replicate API token was rejected.",
	KindValidation: "The tagging model returned an unusable result.",
	KindBadRequest: "Replicate rejected the request.",
	KindNotFound:   "File not found.",
	KindGeneration: "Proxy image could not be generated.",
}

// Error pairs a Kind with a message that is safe to show and log.
type Error struct {
	Kind        Kind
	SafeMessage string
	// Cause may contain upstream bodies or paths; keep it out of user output.
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.SafeMessage != "":
		return e.SafeMessage
	case e.Cause != nil:
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns an *Error. A blank safeMessage falls back to the default text of kind.
func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = DefaultMessage(kind)
	}
	return &Error{Kind: kind, SafeMessage: msg, Cause: cause}
}

// DefaultMessage is the generic text for kind.
func DefaultMessage(kind Kind) string {
	if msg, ok := kindMessages[kind]; ok {
		return msg
	}
	return "Request failed."
}

// KindOf finds the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// PublicMessage returns the safe message of a classified error, or err's text otherwise.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
