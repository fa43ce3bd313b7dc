package core

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/gorender/internal/database"
	"github.com/jo-hoe/gorender/internal/extractor"
	"github.com/jo-hoe/gorender/internal/payload"
	"github.com/jo-hoe/gorender/internal/renderer"
)

// Compositor renders compose commands into images and writes them out.
type Compositor interface {
	Compose(command payload.ComposeCommand) (image.Image, error)
	WriteImage(img image.Image, format payload.ImageFormat, path string) error
}

// FrameExtractor pulls a single still frame out of a video file.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, input, output string, timestamp float64) error
}

// CoreService executes decoded commands and records each completed render.
type CoreService struct {
	databaseService database.DatabaseService
	compositor      Compositor
	extractor       FrameExtractor
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &CoreService{
		databaseService: databaseService,
		compositor:      renderer.NewRenderer(config.JPEGQuality),
		extractor:       extractor.NewFFmpeg(extractor.WithBinary(config.FFmpegBinary)),
	}, nil
}

// Execute dispatches a decoded command to the compositor or the frame
// extractor and returns the stored render record.
func (service *CoreService) Execute(ctx context.Context, command payload.InputCommand) (*database.RenderRecord, error) {
	switch c := command.(type) {
	case payload.ExtractFrameCommand:
		slog.Info("executing frame extraction", "input", c.Input, "output", c.Output, "time", c.Time)
		if err := service.extractor.ExtractFrame(ctx, c.Input, c.Output, c.Time); err != nil {
			return nil, fmt.Errorf("extract frame: %w", err)
		}
		return service.record(command, c.Output)
	case payload.ComposeCommand:
		slog.Info("executing image composition",
			"width", c.Width, "height", c.Height,
			"layer_count", len(c.Layers), "output", c.Output)
		img, err := service.compositor.Compose(c)
		if err != nil {
			return nil, fmt.Errorf("compose image: %w", err)
		}
		if err := service.compositor.WriteImage(img, c.OutputFormat, c.Output); err != nil {
			return nil, fmt.Errorf("write composed image: %w", err)
		}
		return service.record(command, c.Output)
	default:
		return nil, fmt.Errorf("unsupported command type %q", command.CommandType())
	}
}

func (service *CoreService) record(command payload.InputCommand, output string) (*database.RenderRecord, error) {
	document, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to re-serialize command: %w", err)
	}

	id, err := service.databaseService.CreateRecord(command.CommandType(), string(document), output)
	if err != nil {
		return nil, fmt.Errorf("failed to store render record: %w", err)
	}
	return service.databaseService.GetRecordByID(id)
}

// ListRecords returns the full render history.
func (service *CoreService) ListRecords() ([]*database.RenderRecord, error) {
	return service.databaseService.GetAllRecords()
}

// GetRecord returns a single render record by id.
func (service *CoreService) GetRecord(id string) (*database.RenderRecord, error) {
	return service.databaseService.GetRecordByID(id)
}

// DeleteRecord removes a render record from the history.
func (service *CoreService) DeleteRecord(id string) error {
	return service.databaseService.DeleteRecord(id)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}
