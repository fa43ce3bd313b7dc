// Package server exposes the command contract over HTTP for callers that
// prefer a socket to the CLI.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/gorender/internal/database"
	"github.com/jo-hoe/gorender/internal/payload"
)

// CommandExecutor runs decoded commands and manages the render history.
type CommandExecutor interface {
	Execute(ctx context.Context, command payload.InputCommand) (*database.RenderRecord, error)
	ListRecords() ([]*database.RenderRecord, error)
	GetRecord(id string) (*database.RenderRecord, error)
	DeleteRecord(id string) error
}

type APIService struct {
	port     int
	executor CommandExecutor
}

func NewAPIService(port int, executor CommandExecutor) *APIService {
	return &APIService{
		port:     port,
		executor: executor,
	}
}

func (s *APIService) Start() error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	s.setRoutes(e)

	slog.Info("starting server", "port", s.port)
	return e.Start(fmt.Sprintf(":%d", s.port))
}

func (s *APIService) setRoutes(e *echo.Echo) {
	// Probe route
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Render service is running")
	})

	e.POST("/api/commands", s.commandHandler)
	e.GET("/api/renders", s.listRendersHandler)
	e.GET("/api/renders/:id", s.getRenderHandler)
	e.DELETE("/api/renders/:id", s.deleteRenderHandler)
}

// commandHandler accepts one command document per request. Decode failures
// are the caller's fault (400), execution failures are ours (500); both are
// reported as an ErrorPayload body.
func (s *APIService) commandHandler(ctx echo.Context) error {
	document, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		slog.Error("commandHandler: failed to read request body", "error", err)
		return ctx.JSON(http.StatusBadRequest, payload.NewErrorPayload(err))
	}

	command, err := payload.ParseCLI(document)
	if err != nil {
		slog.Error("commandHandler: failed to decode command", "error", err)
		return ctx.JSON(http.StatusBadRequest, payload.NewErrorPayload(err))
	}

	record, err := s.executor.Execute(ctx.Request().Context(), command)
	if err != nil {
		slog.Error("commandHandler: command execution failed",
			"command_type", command.CommandType(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, payload.NewErrorPayload(err))
	}

	return ctx.JSON(http.StatusCreated, record)
}

func (s *APIService) listRendersHandler(ctx echo.Context) error {
	records, err := s.executor.ListRecords()
	if err != nil {
		slog.Error("listRendersHandler: failed to list records", "error", err)
		return ctx.JSON(http.StatusInternalServerError, payload.NewErrorPayload(err))
	}
	if records == nil {
		records = []*database.RenderRecord{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (s *APIService) getRenderHandler(ctx echo.Context) error {
	record, err := s.executor.GetRecord(ctx.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, payload.NewErrorPayload(err))
	}
	if err != nil {
		slog.Error("getRenderHandler: failed to fetch record", "error", err)
		return ctx.JSON(http.StatusInternalServerError, payload.NewErrorPayload(err))
	}
	return ctx.JSON(http.StatusOK, record)
}

func (s *APIService) deleteRenderHandler(ctx echo.Context) error {
	err := s.executor.DeleteRecord(ctx.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, payload.NewErrorPayload(err))
	}
	if err != nil {
		slog.Error("deleteRenderHandler: failed to delete record", "error", err)
		return ctx.JSON(http.StatusInternalServerError, payload.NewErrorPayload(err))
	}
	return ctx.NoContent(http.StatusNoContent)
}
