package renderer

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/gorender/internal/payload"
)

func writeTestPNG(t *testing.T, fill color.NRGBA, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}

	path := filepath.Join(t.TempDir(), "source.png")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("failed to close test image: %v", err)
	}
	return path
}

func pixel(t *testing.T, img image.Image, x, y int) color.NRGBA {
	t.Helper()
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestComposeSolidLayer(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  4,
		Height: 4,
		Layers: payload.Layers{
			payload.SolidLayer{Fill: payload.FillColor{255, 0, 0, 255}, X: 0, Y: 0, Width: 4, Height: 4},
		},
		OutputFormat: payload.FormatPng,
		Output:       "unused.png",
	}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	expected := color.NRGBA{R: 255, A: 255}
	for _, point := range []image.Point{{0, 0}, {3, 0}, {0, 3}, {3, 3}} {
		if got := pixel(t, img, point.X, point.Y); got != expected {
			t.Errorf("pixel %v: expected %v, got %v", point, expected, got)
		}
	}
}

func TestComposeEmptyLayerList(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{Width: 2, Height: 2, Layers: payload.Layers{}}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if got := pixel(t, img, 0, 0); got.A != 0 {
		t.Errorf("expected transparent canvas, got %v", got)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("expected 2x2 canvas, got %v", img.Bounds())
	}
}

func TestComposePaintOrder(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  2,
		Height: 2,
		Layers: payload.Layers{
			payload.SolidLayer{Fill: payload.FillColor{255, 0, 0, 255}, Width: 2, Height: 2},
			payload.SolidLayer{Fill: payload.FillColor{0, 255, 0, 255}, Width: 1, Height: 1},
		},
	}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	// The later layer paints on top of the earlier one.
	if got := pixel(t, img, 0, 0); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("pixel (0,0): expected green on top, got %v", got)
	}
	if got := pixel(t, img, 1, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel (1,1): expected red below, got %v", got)
	}
}

func TestComposePngImageLayer(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	src := writeTestPNG(t, blue, 4, 4)

	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  8,
		Height: 8,
		Layers: payload.Layers{
			payload.PngImageLayer{ImageLayer: payload.ImageLayer{Src: src, X: 2, Y: 2, Width: 4, Height: 4}},
		},
	}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if got := pixel(t, img, 4, 4); got != blue {
		t.Errorf("expected blue inside layer rect, got %v", got)
	}
	if got := pixel(t, img, 0, 0); got.A != 0 {
		t.Errorf("expected transparent outside layer rect, got %v", got)
	}
}

func TestComposeScalesSourceToLayerExtents(t *testing.T) {
	green := color.NRGBA{G: 255, A: 255}
	src := writeTestPNG(t, green, 2, 2)

	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  4,
		Height: 4,
		Layers: payload.Layers{
			payload.PngImageLayer{ImageLayer: payload.ImageLayer{Src: src, Width: 4, Height: 4}},
		},
	}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	for _, point := range []image.Point{{0, 0}, {3, 3}} {
		if got := pixel(t, img, point.X, point.Y); got != green {
			t.Errorf("pixel %v: expected scaled-up green, got %v", point, got)
		}
	}
}

func TestComposeClipsOutOfBoundsLayer(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  4,
		Height: 4,
		Layers: payload.Layers{
			payload.SolidLayer{Fill: payload.FillColor{255, 255, 255, 255}, X: 2, Y: 2, Width: 10, Height: 10},
		},
	}

	img, err := renderer.Compose(command)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if got := pixel(t, img, 3, 3); got.A != 255 {
		t.Errorf("expected clipped fill inside canvas, got %v", got)
	}
	if got := pixel(t, img, 0, 0); got.A != 0 {
		t.Errorf("expected untouched canvas outside fill, got %v", got)
	}
}

func TestComposeVariantSelectsDecoder(t *testing.T) {
	// A PNG source referenced by a JpgImage layer must fail: the variant,
	// not the file content, decides the decoder.
	src := writeTestPNG(t, color.NRGBA{R: 255, A: 255}, 2, 2)

	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  2,
		Height: 2,
		Layers: payload.Layers{
			payload.JpgImageLayer{ImageLayer: payload.ImageLayer{Src: src, Width: 2, Height: 2}},
		},
	}

	if _, err := renderer.Compose(command); err == nil {
		t.Fatal("expected decode error for PNG data in a JpgImage layer")
	}
}

func TestComposeMissingSource(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	command := payload.ComposeCommand{
		Width:  2,
		Height: 2,
		Layers: payload.Layers{
			payload.PngImageLayer{ImageLayer: payload.ImageLayer{Src: filepath.Join(t.TempDir(), "missing.png"), Width: 2, Height: 2}},
		},
	}

	if _, err := renderer.Compose(command); err == nil {
		t.Fatal("expected error for missing layer source")
	}
}

func TestWriteImage(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))

	pngPath := filepath.Join(t.TempDir(), "out.png")
	if err := renderer.WriteImage(img, payload.FormatPng, pngPath); err != nil {
		t.Fatalf("WriteImage png error: %v", err)
	}
	pngFile, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("failed to open written png: %v", err)
	}
	defer func() { _ = pngFile.Close() }()
	decodedPNG, err := png.Decode(pngFile)
	if err != nil {
		t.Fatalf("written png does not decode: %v", err)
	}
	if decodedPNG.Bounds().Dx() != 3 || decodedPNG.Bounds().Dy() != 2 {
		t.Errorf("expected 3x2 png, got %v", decodedPNG.Bounds())
	}

	jpegPath := filepath.Join(t.TempDir(), "out.jpg")
	if err := renderer.WriteImage(img, payload.FormatJpeg, jpegPath); err != nil {
		t.Fatalf("WriteImage jpeg error: %v", err)
	}
	jpegFile, err := os.Open(jpegPath)
	if err != nil {
		t.Fatalf("failed to open written jpeg: %v", err)
	}
	defer func() { _ = jpegFile.Close() }()
	if _, err := jpeg.Decode(jpegFile); err != nil {
		t.Fatalf("written jpeg does not decode: %v", err)
	}
}

func TestWriteImageUnsupportedFormat(t *testing.T) {
	renderer := NewRenderer(DefaultJPEGQuality)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := renderer.WriteImage(img, payload.ImageFormat("Gif"), path); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}
