package thumbnail

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	thumbnails "github.com/drummonds/go-thumbnails"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"
	"github.com/oov/psd"
)

// nativeFormats are read by go-thumbnails and bild without help.
var nativeFormats = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true}

// decoders cover the asset formats that need a dedicated reader.
var decoders = map[string]func(path string) (image.Image, error){
	".psd": decodePSD,
	".hdr": decodeRadiance,
}

// decode reads src into an 8-bit image.
func decode(src string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(src))
	if dec, ok := decoders[ext]; ok {
		return dec(src)
	}
	if nativeFormats[ext] {
		return imgio.Open(src)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
}

// decodePSD returns the merged composite; layers are not rendered.
func decodePSD(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, _, err := psd.Decode(f, &psd.DecodeOptions{SkipLayerImage: true})
	if err != nil {
		return nil, fmt.Errorf("failed to decode psd: %w", err)
	}
	if doc.Picker == nil {
		return nil, fmt.Errorf("psd has no merged image")
	}
	return doc.Picker, nil
}

// decodeRadiance tone maps a Radiance RGBE image to displayable range.
func decodeRadiance(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hdr: %w", err)
	}
	if h, ok := m.(hdr.Image); ok {
		return tmo.NewLinear(h).Perform(), nil
	}
	return m, nil
}

// fit scales img down so neither side exceeds maxSide, keeping its aspect ratio.
func fit(img image.Image, maxSide uint) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= int(maxSide) {
		return img
	}
	scale := float64(maxSide) / float64(longest)
	return transform.Resize(img, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale)), transform.Lanczos)
}

func renderDetail(src, dst string, width uint) error {
	img, err := decode(src)
	if err != nil {
		return err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("image %s is empty", filepath.Base(src))
	}
	return imgio.Save(dst, fit(img, width), imgio.PNGEncoder())
}

// renderPreview hands native formats to go-thumbnails directly. Other formats are decoded
// into a temporary PNG first.
func renderPreview(src, dst string, width uint) error {
	ext := strings.ToLower(filepath.Ext(src))
	if nativeFormats[ext] {
		return thumbnails.GenerateStyledAndSave(src, dst, width, thumbnails.StyleUniform)
	}
	img, err := decode(src)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".preview-*.png")
	if err != nil {
		return fmt.Errorf("failed to create intermediate image: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := imgio.Save(tmpPath, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write intermediate image: %w", err)
	}
	return thumbnails.GenerateStyledAndSave(tmpPath, dst, width, thumbnails.StyleUniform)
}
