// Package payload defines the JSON command documents exchanged between the
// front-end caller and the rendering backend.
//
// Tag strings and field names are shared with the front-end serializer;
// any rename here must be mirrored there.
package payload

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
)

// Wire discriminants of the command and layer unions.
const (
	TypeExtractFrame = "ExtractFrame"
	TypeCompose      = "Compose"
	TypePngImage     = "PngImage"
	TypeJpgImage     = "JpgImage"
	TypeSolid        = "Solid"
)

// ImageFormat names the encoding of a composed output image.
type ImageFormat string

const (
	FormatPng  ImageFormat = "Png"
	FormatJpeg ImageFormat = "Jpeg"
)

// UnmarshalJSON accepts only the two known format strings.
func (f *ImageFormat) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("output format must be a string: %w", err)
	}
	switch ImageFormat(value) {
	case FormatPng, FormatJpeg:
		*f = ImageFormat(value)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", value)
	}
}

// FillColor is an RGBA quadruple. On the wire it is a JSON array of exactly
// four integers in the range 0-255.
type FillColor [4]uint8

func (f *FillColor) UnmarshalJSON(data []byte) error {
	var components []int64
	if err := json.Unmarshal(data, &components); err != nil {
		return fmt.Errorf("fill must be an array of integers: %w", err)
	}
	if len(components) != 4 {
		return fmt.Errorf("fill must contain exactly 4 components, got %d", len(components))
	}
	for i, component := range components {
		if component < 0 || component > 255 {
			return fmt.Errorf("fill component %d out of range 0-255: %d", i, component)
		}
		f[i] = uint8(component)
	}
	return nil
}

// ImageLayer places an image file on the canvas. The pixel format is decided
// by the wrapping layer variant, never by inspecting src.
type ImageLayer struct {
	Src    string `json:"src" validate:"required"`
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// SolidLayer is a flat-color rectangle.
type SolidLayer struct {
	Fill   FillColor `json:"fill"`
	X      uint32    `json:"x"`
	Y      uint32    `json:"y"`
	Width  uint32    `json:"width"`
	Height uint32    `json:"height"`
}

// Layer is one element of a compose command's paint list. The union is
// closed: PngImageLayer, JpgImageLayer and SolidLayer are the only variants.
type Layer interface {
	layerType() string
}

// PngImageLayer is an ImageLayer whose source decodes as PNG.
type PngImageLayer struct {
	ImageLayer
}

// JpgImageLayer is an ImageLayer whose source decodes as JPEG.
type JpgImageLayer struct {
	ImageLayer
}

func (PngImageLayer) layerType() string { return TypePngImage }
func (JpgImageLayer) layerType() string { return TypeJpgImage }
func (SolidLayer) layerType() string    { return TypeSolid }

func (l PngImageLayer) MarshalJSON() ([]byte, error) {
	return marshalTagged(TypePngImage, l.ImageLayer)
}

func (l JpgImageLayer) MarshalJSON() ([]byte, error) {
	return marshalTagged(TypeJpgImage, l.ImageLayer)
}

func (l SolidLayer) MarshalJSON() ([]byte, error) {
	type params SolidLayer
	return marshalTagged(TypeSolid, params(l))
}

// Layers decodes each element through the layer union envelope. Order is
// preserved: paint order equals document order, bottom to top.
type Layers []Layer

func (l *Layers) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("layers must be an array: %w", err)
	}
	layers := make(Layers, 0, len(elements))
	for i, element := range elements {
		layer, err := decodeLayer(element)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, layer)
	}
	*l = layers
	return nil
}

// ComposeCommand instructs the backend to synthesize an image from layers.
type ComposeCommand struct {
	Width        uint32      `json:"width"`
	Height       uint32      `json:"height"`
	Layers       Layers      `json:"layers"`
	OutputFormat ImageFormat `json:"output_format"`
	Output       string      `json:"output"`
}

// ExtractFrameCommand instructs the backend to pull a single still frame
// from a video at the given timestamp in seconds.
type ExtractFrameCommand struct {
	Input  string  `json:"input"`
	Output string  `json:"output"`
	Time   float64 `json:"time"`
}

// InputCommand is the top-level command union: ExtractFrameCommand or
// ComposeCommand.
type InputCommand interface {
	// CommandType returns the wire discriminant of the command.
	CommandType() string
}

func (ExtractFrameCommand) CommandType() string { return TypeExtractFrame }
func (ComposeCommand) CommandType() string      { return TypeCompose }

func (c ExtractFrameCommand) MarshalJSON() ([]byte, error) {
	type params ExtractFrameCommand
	return marshalTagged(TypeExtractFrame, params(c))
}

func (c ComposeCommand) MarshalJSON() ([]byte, error) {
	type params ComposeCommand
	return marshalTagged(TypeCompose, params(c))
}

// ErrorPayload is the outward-facing failure report handed back to the
// calling process. It is only ever produced, never decoded.
type ErrorPayload struct {
	Error     string `json:"error"`
	Backtrace string `json:"backtrace"`
}

// NewErrorPayload captures err together with the current stack.
func NewErrorPayload(err error) ErrorPayload {
	return ErrorPayload{
		Error:     err.Error(),
		Backtrace: string(debug.Stack()),
	}
}
