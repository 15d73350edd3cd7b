// Package eventhandler alan olaylarının işleyicilerini içerir. Handlers react
// to domain events and run side effects such as cache invalidation.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON GRADEBOOK CHANGED HANDLER
// Not girildiğinde veya öğrenci kaydedildiğinde önbellekteki karneyi siler,
// böylece /karne her zaman güncel veriyi gösterir.
// ══════════════════════════════════════════════════════════════════════════════

// ReportCardInvalidator drops a cached report card for one student.
type ReportCardInvalidator interface {
	Invalidate(ctx context.Context, studentID string) error
}

// OnGradebookChangedHandler invalidates cached report cards when the data
// backing them changes.
type OnGradebookChangedHandler struct {
	invalidator ReportCardInvalidator
	logger      *slog.Logger
	timeout     time.Duration
}

// NewOnGradebookChangedHandler creates a new OnGradebookChangedHandler.
func NewOnGradebookChangedHandler(invalidator ReportCardInvalidator, logger *slog.Logger) *OnGradebookChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnGradebookChangedHandler{
		invalidator: invalidator,
		logger:      logger,
		timeout:     5 * time.Second,
	}
}

// Register subscribes the handler to the events it cares about.
func (h *OnGradebookChangedHandler) Register(subscriber shared.EventSubscriber) error {
	if err := subscriber.Subscribe(shared.EventGradesRecorded, h.Handle); err != nil {
		return fmt.Errorf("on_gradebook_changed: %w", err)
	}
	if err := subscriber.Subscribe(shared.EventStudentEnrolled, h.Handle); err != nil {
		return fmt.Errorf("on_gradebook_changed: %w", err)
	}
	return nil
}

// Handle processes a gradebook change event.
func (h *OnGradebookChangedHandler) Handle(event shared.Event) error {
	studentID := event.AggregateID()
	if studentID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.invalidator.Invalidate(ctx, studentID); err != nil {
		h.logger.Warn("failed to invalidate cached report card",
			"student_id", studentID,
			"event_type", event.EventType(),
			"error", err,
		)
		return fmt.Errorf("on_gradebook_changed: invalidate %s: %w", studentID, err)
	}

	h.logger.Debug("report card cache invalidated",
		"student_id", studentID,
		"event_type", event.EventType(),
	)
	return nil
}
