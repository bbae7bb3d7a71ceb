package tagging

import (
	"strings"

	"github.com/oukeidos/aitag/internal/replicate"
)

// ParseTags merges both comma-separated tag fields of out into one list.
// Names are trimmed, empty entries dropped and duplicates removed; first occurrence wins.
func ParseTags(out *replicate.Output) []string {
	if out == nil {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, field := range []string{out.JSONData.Tags, out.Tags} {
		for _, raw := range strings.Split(field, ",") {
			name := strings.TrimSpace(raw)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			tags = append(tags, name)
		}
	}
	return tags
}
