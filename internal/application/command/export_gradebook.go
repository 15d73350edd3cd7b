package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/export"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT GRADEBOOK COMMAND
// Tüm not defterini xlsx dosyasına aktarır. Produces a workbook with the
// course catalog and every student's per-course grades.
// ══════════════════════════════════════════════════════════════════════════════

// ExportGradebookCommand requests a full gradebook export.
type ExportGradebookCommand struct {
	// RequestedBy identifies who requested the export, for the audit log.
	RequestedBy string
}

// ExportGradebookResult contains the result of the export.
type ExportGradebookResult struct {
	// ExportID uniquely identifies this export run.
	ExportID string

	// Path is the absolute path of the written workbook.
	Path string

	// FileName is the base name of the workbook.
	FileName string

	// StudentCount is the number of students exported.
	StudentCount int

	// CourseCount is the number of courses exported.
	CourseCount int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ExportGradebookHandler handles the ExportGradebookCommand.
type ExportGradebookHandler struct {
	store     gradebook.Store
	exporter  *export.Exporter
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewExportGradebookHandler creates a new ExportGradebookHandler.
func NewExportGradebookHandler(
	store gradebook.Store,
	exporter *export.Exporter,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *ExportGradebookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportGradebookHandler{
		store:     store,
		exporter:  exporter,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the export command.
func (h *ExportGradebookHandler) Handle(ctx context.Context, cmd ExportGradebookCommand) (*ExportGradebookResult, error) {
	courses, err := h.store.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("export_gradebook: %w", err)
	}
	students, err := h.store.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("export_gradebook: %w", err)
	}

	res, err := h.exporter.Export(ctx, courses, students)
	if err != nil {
		return nil, fmt.Errorf("export_gradebook: %w", err)
	}

	result := &ExportGradebookResult{
		ExportID:     uuid.New().String(),
		Path:         res.Path,
		FileName:     res.FileName,
		StudentCount: res.StudentCount,
		CourseCount:  res.CourseCount,
	}

	h.logger.Info("gradebook exported",
		"export_id", result.ExportID,
		"file", result.FileName,
		"students", result.StudentCount,
		"courses", result.CourseCount,
		"requested_by", cmd.RequestedBy,
	)

	if h.publisher != nil {
		event := shared.NewGradebookExportedEvent(result.ExportID, result.FileName, result.StudentCount, result.CourseCount)
		if err := h.publisher.Publish(event); err != nil {
			h.logger.Warn("failed to publish gradebook exported event",
				"export_id", result.ExportID,
				"error", err,
			)
		}
	}

	return result, nil
}
