package payload

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator"
)

// DecodeError wraps every failure to turn a command document into a typed
// command: malformed JSON, unknown discriminants, missing required fields
// and field type mismatches alike.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return "decode command: " + e.cause.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

var validate = validator.New()

// envelope is the discriminated-union wire convention used by both the
// command and the layer unions.
type envelope struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

// ParseCLI decodes a single JSON command document into a typed command.
// A returned command is internally consistent by construction; on any
// failure the result is nil and the error is a *DecodeError.
func ParseCLI(document []byte) (InputCommand, error) {
	command, err := parseCommand(document)
	if err != nil {
		return nil, &DecodeError{cause: err}
	}
	return command, nil
}

var (
	extractFrameFields = []string{"input", "output", "time"}
	composeFields      = []string{"width", "height", "layers", "output_format", "output"}
	imageLayerFields   = []string{"src", "x", "y", "width", "height"}
	solidLayerFields   = []string{"fill", "x", "y", "width", "height"}
)

func parseCommand(document []byte) (InputCommand, error) {
	var env envelope
	if err := json.Unmarshal(document, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case TypeExtractFrame:
		var command ExtractFrameCommand
		if err := decodeParams(env.Params, &command, extractFrameFields); err != nil {
			return nil, fmt.Errorf("%s params: %w", env.Type, err)
		}
		return command, nil
	case TypeCompose:
		var command ComposeCommand
		if err := decodeParams(env.Params, &command, composeFields); err != nil {
			return nil, fmt.Errorf("%s params: %w", env.Type, err)
		}
		return command, nil
	case "":
		return nil, fmt.Errorf("missing command type")
	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
}

func decodeLayer(element json.RawMessage) (Layer, error) {
	var env envelope
	if err := json.Unmarshal(element, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case TypePngImage:
		var layer PngImageLayer
		if err := decodeParams(env.Params, &layer, imageLayerFields); err != nil {
			return nil, fmt.Errorf("%s params: %w", env.Type, err)
		}
		return layer, nil
	case TypeJpgImage:
		var layer JpgImageLayer
		if err := decodeParams(env.Params, &layer, imageLayerFields); err != nil {
			return nil, fmt.Errorf("%s params: %w", env.Type, err)
		}
		return layer, nil
	case TypeSolid:
		var layer SolidLayer
		if err := decodeParams(env.Params, &layer, solidLayerFields); err != nil {
			return nil, fmt.Errorf("%s params: %w", env.Type, err)
		}
		return layer, nil
	case "":
		return nil, fmt.Errorf("missing layer type")
	default:
		return nil, fmt.Errorf("unknown layer type %q", env.Type)
	}
}

// decodeParams unmarshals a params object into dst after checking that every
// required field is present. Fields beyond the required set are ignored.
func decodeParams(params json.RawMessage, dst any, required []string) error {
	if len(params) == 0 {
		return fmt.Errorf("missing params object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(params, &fields); err != nil {
		return err
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("missing required field %q", name)
		}
	}

	if err := json.Unmarshal(params, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func marshalTagged(tag string, params any) ([]byte, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: tag, Params: raw})
}
