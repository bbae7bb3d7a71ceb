package thumbnail

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPath(t *testing.T) {
	got := OutputPath("/tmp/x", "/assets/rock.final.psd", DetailSuffix)
	want := filepath.Join("/tmp/x", "rock.final_dt.png")
	if got != want {
		t.Fatalf("OutputPath() = %q, want %q", got, want)
	}
}

func fakeRender(calls *[]string) renderFunc {
	return func(src, dst string, width uint) error {
		*calls = append(*calls, filepath.Base(dst))
		return os.WriteFile(dst, []byte("png"), 0o600)
	}
}

func TestGenerateThumbnails_Variants(t *testing.T) {
	dir := t.TempDir()
	var calls []string
	g := &Generator{detail: fakeRender(&calls), preview: fakeRender(&calls)}

	err := g.GenerateThumbnails(context.Background(), []string{"/a/model.psd"}, dir, Options{Detail: true})
	if err != nil {
		t.Fatalf("GenerateThumbnails() error: %v", err)
	}
	if len(calls) != 1 || calls[0] != "model_dt.png" {
		t.Fatalf("render calls = %v, want [model_dt.png]", calls)
	}

	calls = nil
	if err := g.GenerateThumbnails(context.Background(), []string{"/a/model.psd"}, dir, Options{Detail: true, Preview: true}); err != nil {
		t.Fatalf("GenerateThumbnails() error: %v", err)
	}
	if len(calls) != 2 || calls[1] != "model_pt.png" {
		t.Fatalf("render calls = %v, want detail and preview", calls)
	}
}

func TestGenerateThumbnails_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	var rendered []string
	g := &Generator{detail: func(src, dst string, width uint) error {
		if strings.HasSuffix(src, ".exr") {
			return ErrUnsupported
		}
		rendered = append(rendered, src)
		return nil
	}}

	err := g.GenerateThumbnails(context.Background(), []string{"/a/sky.exr", "/a/wall.psd"}, dir, Options{Detail: true})
	if err == nil || !strings.Contains(err.Error(), "sky.exr") {
		t.Fatalf("GenerateThumbnails() error = %v, want failure naming sky.exr", err)
	}
	if len(rendered) != 1 || rendered[0] != "/a/wall.psd" {
		t.Fatalf("rendered = %v, want wall.psd still processed", rendered)
	}
}

func TestGenerateThumbnails_NoVariant(t *testing.T) {
	if err := NewGenerator().GenerateThumbnails(context.Background(), []string{"/a/b.psd"}, t.TempDir(), Options{}); err == nil {
		t.Fatalf("expected error when no variant requested")
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 200, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writePSD writes an uncompressed 8-bit RGB document with no layers.
func writePSD(t *testing.T, path string, w, h int) {
	t.Helper()
	var b bytes.Buffer
	put := func(v any) { _ = binary.Write(&b, binary.BigEndian, v) }
	b.WriteString("8BPS")
	put(uint16(1))
	b.Write(make([]byte, 6))
	put(uint16(3))
	put(uint32(h))
	put(uint32(w))
	put(uint16(8))
	put(uint16(3))
	put(uint32(0)) // color mode data
	put(uint32(0)) // image resources
	put(uint32(0)) // layer and mask info
	put(uint16(0)) // raw image data
	for _, v := range []byte{220, 120, 20} {
		b.Write(bytes.Repeat([]byte{v}, w*h))
	}
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

// writeRadiance writes a flat (non run-length) RGBE image.
func writeRadiance(t *testing.T, path string, w, h int) {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n")
	fmt.Fprintf(&b, "-Y %d +X %d\n", h, w)
	for i := 0; i < w*h; i++ {
		b.Write([]byte{128, 64, 32, 129})
	}
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func decodedBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected output %s: %v", filepath.Base(path), err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output %s is not a PNG: %v", filepath.Base(path), err)
	}
	return img.Bounds()
}

func TestNewGenerator_RendersRealFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(src, "photo.png"), 40, 20)
	writePNG(t, filepath.Join(src, "banner.png"), 2048, 64)
	writePSD(t, filepath.Join(src, "layered.psd"), 6, 4)
	writeRadiance(t, filepath.Join(src, "sky.hdr"), 3, 2)

	tests := []struct {
		name   string
		file   string
		wantDx int
		wantDy int
	}{
		{"small png kept at size", "photo.png", 40, 20},
		{"wide png fitted to detail size", "banner.png", 1024, 32},
		{"psd composite", "layered.psd", 6, 4},
		{"radiance hdr", "sky.hdr", 3, 2},
	}
	g := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(src, tt.file)
			if !Supported(path) {
				t.Fatalf("Supported(%s) = false", tt.file)
			}
			if err := g.GenerateThumbnails(context.Background(), []string{path}, out, Options{Detail: true}); err != nil {
				t.Fatalf("GenerateThumbnails() error: %v", err)
			}
			b := decodedBounds(t, OutputPath(out, path, DetailSuffix))
			if b.Dx() != tt.wantDx || b.Dy() != tt.wantDy {
				t.Errorf("detail size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantDx, tt.wantDy)
			}
		})
	}
}

func TestNewGenerator_Preview(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	for _, name := range []string{"photo.png", "layered.psd"} {
		path := filepath.Join(src, name)
		if strings.HasSuffix(name, ".png") {
			writePNG(t, path, 40, 20)
		} else {
			writePSD(t, path, 6, 4)
		}
		if err := NewGenerator().GenerateThumbnails(context.Background(), []string{path}, out, Options{Preview: true}); err != nil {
			t.Fatalf("preview of %s: %v", name, err)
		}
		if b := decodedBounds(t, OutputPath(out, path, PreviewSuffix)); b.Dx() != int(PreviewSize) {
			t.Errorf("preview of %s is %d wide, want %d", name, b.Dx(), PreviewSize)
		}
	}
	entries, _ := os.ReadDir(out)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".preview-") {
			t.Errorf("intermediate file left behind: %s", e.Name())
		}
	}
}

func TestNewGenerator_UnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scene.fbx", "mesh.obj", "model.glb", "model.gltf", "plate.exr"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
			t.Fatal(err)
		}
		if Supported(path) {
			t.Errorf("Supported(%s) = true", name)
		}
		err := NewGenerator().GenerateThumbnails(context.Background(), []string{path}, dir, Options{Detail: true})
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: error = %v, want ErrUnsupported", name, err)
		}
		if _, statErr := os.Stat(OutputPath(dir, path, DetailSuffix)); statErr == nil {
			t.Errorf("%s: proxy written for unsupported format", name)
		}
	}
}
