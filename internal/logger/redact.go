package logger

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// Keys whose values are never logged, matched as lower-case substrings.
var sensitiveKeys = []string{"token", "secret", "password", "authorization", "api_key", "bearer"}

var (
	tokenPattern  = regexp.MustCompile(`\br8_[A-Za-z0-9]{10,}\b`)
	bearerPattern = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{10,}=*`)
	// Image uploads are sent inline; only the media type is worth keeping.
	dataURIPattern = regexp.MustCompile(`(data:[a-z]+/[a-z0-9.+-]+;base64,)[A-Za-z0-9+/=]+`)
)

// RedactAttr is a slog.ReplaceAttr function. Values under sensitive keys are replaced
// entirely; tokens and inline image data inside other values are masked in place.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, redacted)
		}
	}

	var text string
	switch a.Value.Kind() {
	case slog.KindString:
		text = a.Value.String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		text = err.Error()
	default:
		return a
	}
	if masked := mask(text); masked != text {
		return slog.String(a.Key, masked)
	}
	return a
}

func mask(s string) string {
	s = tokenPattern.ReplaceAllString(s, redacted)
	s = bearerPattern.ReplaceAllString(s, "Bearer "+redacted)
	return dataURIPattern.ReplaceAllStringFunc(s, func(m string) string {
		prefix := dataURIPattern.FindStringSubmatch(m)[1]
		return fmt.Sprintf("%s<%d bytes>", prefix, len(m)-len(prefix))
	})
}
