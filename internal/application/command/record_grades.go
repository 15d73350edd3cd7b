package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADES COMMAND
// Bir öğrencinin bir dersteki notlarını işler. Updates only the scores the
// caller actually provided; nil fields leave the stored values untouched.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradesCommand contains the scores to record.
type RecordGradesCommand struct {
	// StudentID is the school-assigned student number.
	StudentID string

	// CourseCode is the course code. Matched case-insensitively.
	CourseCode string

	// Scores carries the scores to set. Nil fields are left as stored.
	Scores gradebook.ScoreUpdate
}

// Validate validates the command.
func (c RecordGradesCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.NewDomainError("gradebook", "record_grades", shared.ErrInvalidStudentID,
			"student id is required")
	}
	if strings.TrimSpace(c.CourseCode) == "" {
		return shared.NewDomainError("gradebook", "record_grades", shared.ErrInvalidCourseCode,
			"course code is required")
	}
	return nil
}

// RecordGradesResult contains the result of recording grades.
type RecordGradesResult struct {
	// StudentID is the student whose record changed.
	StudentID string

	// Record is the grade record after the update.
	Record *gradebook.GradeRecord

	// Average is the mean of the entered scores, nil while none is entered.
	Average *float64

	// Letter is the letter grade for the average, empty while undefined.
	Letter string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradesHandler handles the RecordGradesCommand.
type RecordGradesHandler struct {
	store     gradebook.Store
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewRecordGradesHandler creates a new RecordGradesHandler.
func NewRecordGradesHandler(store gradebook.Store, publisher shared.EventPublisher, logger *slog.Logger) *RecordGradesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordGradesHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the record grades command.
func (h *RecordGradesHandler) Handle(ctx context.Context, cmd RecordGradesCommand) (*RecordGradesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_grades: %w", err)
	}

	record, err := h.store.UpsertGrades(ctx, cmd.StudentID, cmd.CourseCode, cmd.Scores)
	if err != nil {
		return nil, fmt.Errorf("record_grades: %w", err)
	}

	result := &RecordGradesResult{
		StudentID: strings.TrimSpace(cmd.StudentID),
		Record:    record,
	}
	if avg, ok := record.Average(); ok {
		result.Average = &avg
		result.Letter = gradebook.LetterGrade(avg)
	}

	h.logger.Info("grades recorded",
		"student_id", result.StudentID,
		"course_code", record.CourseCode,
	)

	if h.publisher != nil {
		event := shared.NewGradesRecordedEvent(result.StudentID, record.CourseCode, result.Average, result.Letter)
		if err := h.publisher.Publish(event); err != nil {
			h.logger.Warn("failed to publish grades recorded event",
				"student_id", result.StudentID,
				"course_code", record.CourseCode,
				"error", err,
			)
		}
	}

	return result, nil
}
