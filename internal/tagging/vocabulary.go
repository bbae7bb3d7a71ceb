package tagging

import (
	"math/rand/v2"

	"github.com/oukeidos/aitag/internal/workspace"
)

// Palette holds the display colours assigned to newly discovered tags.
var Palette = []workspace.Color{"grey", "blue", "purple", "green", "turk", "orange", "yellow", "red"}

// RandSource picks palette entries. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// MergeVocabulary appends every name not yet in vocab, each with a random palette colour.
// Existing entries keep their position and colour. It returns the merged vocabulary and
// the entries that were added.
func MergeVocabulary(vocab []workspace.Tag, names []string, rnd RandSource) ([]workspace.Tag, []workspace.Tag) {
	known := make(map[string]bool, len(vocab))
	for _, t := range vocab {
		known[t.Name] = true
	}

	merged := make([]workspace.Tag, len(vocab), len(vocab)+len(names))
	copy(merged, vocab)
	var added []workspace.Tag
	for _, name := range names {
		if known[name] {
			continue
		}
		known[name] = true
		t := workspace.Tag{Name: name, Color: Palette[rnd.IntN(len(Palette))]}
		merged = append(merged, t)
		added = append(added, t)
	}
	return merged, added
}

// Assignment returns the entries of vocab whose names are in names, in vocabulary order.
func Assignment(vocab []workspace.Tag, names []string) []workspace.Tag {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []workspace.Tag
	for _, t := range vocab {
		if want[t.Name] {
			out = append(out, t)
		}
	}
	return out
}
