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
// ENROLL STUDENT COMMAND
// Yeni bir öğrenciyi not defterine kaydeder. The student starts with an empty
// grade list; grades come in later through RecordGrades.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the data to enroll a student.
type EnrollStudentCommand struct {
	// StudentID is the school-assigned student number, e.g. "1001".
	StudentID string

	// Name is the student's full name.
	Name string

	// ClassName is the class label, e.g. "10-A".
	ClassName string
}

// Validate validates the command.
func (c EnrollStudentCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.NewDomainError("gradebook", "enroll_student", shared.ErrInvalidStudentID,
			"student id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("gradebook", "enroll_student", shared.ErrEmptyValue,
			"student name is required")
	}
	if strings.TrimSpace(c.ClassName) == "" {
		return shared.NewDomainError("gradebook", "enroll_student", shared.ErrEmptyValue,
			"class name is required")
	}
	return nil
}

// EnrollStudentResult contains the result of enrolling a student.
type EnrollStudentResult struct {
	// Student is the enrolled student.
	Student *gradebook.Student
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentHandler handles the EnrollStudentCommand.
type EnrollStudentHandler struct {
	store     gradebook.Store
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler.
func NewEnrollStudentHandler(store gradebook.Store, publisher shared.EventPublisher, logger *slog.Logger) *EnrollStudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollStudentHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the enroll student command.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	student, err := gradebook.NewStudent(cmd.StudentID, cmd.Name, cmd.ClassName)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	if err := h.store.AddStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	h.logger.Info("student enrolled",
		"student_id", student.ID,
		"class_name", student.ClassName,
	)

	if h.publisher != nil {
		event := shared.NewStudentEnrolledEvent(student.ID, student.Name, student.ClassName)
		if err := h.publisher.Publish(event); err != nil {
			h.logger.Warn("failed to publish student enrolled event",
				"student_id", student.ID,
				"error", err,
			)
		}
	}

	return &EnrollStudentResult{Student: student}, nil
}
