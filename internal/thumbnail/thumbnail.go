// Package thumbnail renders PNG stand-ins for assets the tagging model cannot read directly.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oukeidos/aitag/internal/logger"
)

const (
	// DetailSuffix marks the large variant used as model input.
	DetailSuffix = "_dt"
	// PreviewSuffix marks the small variant used for browsing.
	PreviewSuffix = "_pt"

	DetailSize  uint = 1024
	PreviewSize uint = 256
)

// ErrUnsupported is returned for formats no decoder is available for, such as 3D scenes.
var ErrUnsupported = errors.New("unsupported format")

// Options selects which variants to render.
type Options struct {
	Detail      bool
	Preview     bool
	WorkspaceID string
}

// OutputPath returns <outputDir>/<basename without extension><suffix>.png.
func OutputPath(outputDir, inputPath, suffix string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+suffix+".png")
}

// Supported reports whether NewGenerator can render path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, decoded := decoders[ext]
	return decoded || nativeFormats[ext]
}

type renderFunc func(src, dst string, width uint) error

// Generator renders the detail variant by decoding and resizing the source, and the
// preview variant with go-thumbnails.
type Generator struct {
	detail  renderFunc
	preview renderFunc
}

// NewGenerator returns a Generator for the formats listed by Supported.
func NewGenerator() *Generator {
	return &Generator{detail: renderDetail, preview: renderPreview}
}

// GenerateThumbnails renders the requested variants of every path into outputDir.
// A failure on one path does not stop the others; all failures are returned joined.
func (g *Generator) GenerateThumbnails(ctx context.Context, paths []string, outputDir string, opts Options) error {
	type variant struct {
		suffix string
		width  uint
		render renderFunc
	}
	var variants []variant
	if opts.Detail {
		variants = append(variants, variant{DetailSuffix, DetailSize, g.detail})
	}
	if opts.Preview {
		variants = append(variants, variant{PreviewSuffix, PreviewSize, g.preview})
	}
	if len(variants) == 0 {
		return fmt.Errorf("no thumbnail variant requested")
	}

	var errs []error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, v := range variants {
			dst := OutputPath(outputDir, p, v.suffix)
			if err := v.render(p, dst, v.width); err != nil {
				logger.Warn("Thumbnail generation failed", "path", p, "variant", v.suffix, "error", err)
				errs = append(errs, fmt.Errorf("%s (%s): %w", filepath.Base(p), v.suffix, err))
				continue
			}
			logger.Debug("Thumbnail generated", "path", p, "output", dst, "workspace_id", opts.WorkspaceID)
		}
	}
	return errors.Join(errs...)
}
