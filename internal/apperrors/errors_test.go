package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPublicMessage(t *testing.T) {
	secret := errors.New(`401 {"detail":"r8_SECRET_VALUE"}`)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"safe message hides cause", New(KindAuth, "Replicate authentication failed (401).", secret), "Replicate authentication failed (401)."},
		{"blank message uses kind default", New(KindRateLimit, "  ", secret), DefaultMessage(KindRateLimit)},
		{"wrapped", fmt.Errorf("tagging a.psd: %w", New(KindGeneration, "", nil)), DefaultMessage(KindGeneration)},
		{"plain error", errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicMessage(tt.err); got != tt.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultMessage_EveryKind(t *testing.T) {
	for _, k := range []Kind{KindTransient, KindRateLimit, KindAuth, KindValidation, KindBadRequest, KindNotFound, KindGeneration} {
		if DefaultMessage(k) == DefaultMessage("unknown") {
			t.Errorf("kind %s has no specific default message", k)
		}
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	cause := errors.New("missing png")
	err := fmt.Errorf("tagging photo.psd: %w", New(KindGeneration, "", cause))
	kind, ok := KindOf(err)
	if !ok || kind != KindGeneration {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindGeneration)
	}
	if !Is(err, KindGeneration) || Is(err, KindAuth) {
		t.Errorf("Is() does not match the wrapped kind only")
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause not reachable through errors.Is")
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Errorf("plain error reported a kind")
	}
}
