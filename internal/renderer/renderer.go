package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/jo-hoe/gorender/internal/payload"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

// Renderer rasterizes compose commands onto an RGBA canvas.
type Renderer struct {
	jpegQuality int
}

// NewRenderer creates a renderer. Quality values outside 1-100 fall back to
// the default.
func NewRenderer(jpegQuality int) *Renderer {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Renderer{jpegQuality: jpegQuality}
}

// Compose paints the command's layers first-to-last (bottom to top) onto a
// transparent canvas and returns the finished image. Layer rectangles may
// extend past the canvas; drawing clips.
func (r *Renderer) Compose(command payload.ComposeCommand) (image.Image, error) {
	slog.Debug("Renderer: composing image",
		"width", command.Width,
		"height", command.Height,
		"layer_count", len(command.Layers))

	canvas := image.NewRGBA(image.Rect(0, 0, int(command.Width), int(command.Height)))

	sources, err := loadSources(command.Layers)
	if err != nil {
		return nil, err
	}

	for i, layer := range command.Layers {
		if err := paintLayer(canvas, layer, sources[i]); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}

	slog.Debug("Renderer: composition complete")
	return canvas, nil
}

func paintLayer(canvas *image.RGBA, layer payload.Layer, source image.Image) error {
	switch l := layer.(type) {
	case payload.SolidLayer:
		rect := layerRect(l.X, l.Y, l.Width, l.Height)
		fill := color.NRGBA{R: l.Fill[0], G: l.Fill[1], B: l.Fill[2], A: l.Fill[3]}
		draw.Draw(canvas, rect, image.NewUniform(fill), image.Point{}, draw.Over)
	case payload.PngImageLayer:
		paintImage(canvas, l.ImageLayer, source)
	case payload.JpgImageLayer:
		paintImage(canvas, l.ImageLayer, source)
	default:
		return fmt.Errorf("unsupported layer type %T", layer)
	}
	return nil
}

// paintImage scales the decoded source into the layer rectangle and
// over-composites it onto the canvas.
func paintImage(canvas *image.RGBA, layer payload.ImageLayer, source image.Image) {
	rect := layerRect(layer.X, layer.Y, layer.Width, layer.Height)
	xdraw.CatmullRom.Scale(canvas, rect, source, source.Bounds(), xdraw.Over, nil)
}

func layerRect(x, y, width, height uint32) image.Rectangle {
	return image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height))
}

// WriteImage encodes img to path in the requested output format.
func (r *Renderer) WriteImage(img image.Image, format payload.ImageFormat, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch format {
	case payload.FormatPng:
		err = png.Encode(file, img)
	case payload.FormatJpeg:
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: r.jpegQuality})
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to encode output image: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	slog.Debug("Renderer: output written", "path", path, "format", string(format))
	return nil
}
