package tagging

import (
	"path/filepath"
	"strings"

	"github.com/rivo/uniseg"
)

// maxDisplayWidth bounds file names shown in progress text, in terminal cells.
const maxDisplayWidth = 48

// displayName returns the base name of path shortened to maxDisplayWidth cells.
// Cuts happen on grapheme cluster boundaries.
func displayName(path string) string {
	name := filepath.Base(path)
	if uniseg.StringWidth(name) <= maxDisplayWidth {
		return name
	}
	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(name)
	for g.Next() {
		w := g.Width()
		if width+w > maxDisplayWidth-1 {
			break
		}
		b.WriteString(g.Str())
		width += w
	}
	b.WriteString("…")
	return b.String()
}
