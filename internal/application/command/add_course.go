// Package command contains write operations (CQRS - Commands).
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
// ADD COURSE COMMAND
// Ders kataloğuna yeni bir ders ekler. Registers a new course in the catalog
// so grades can be recorded against it.
// ══════════════════════════════════════════════════════════════════════════════

// AddCourseCommand contains the data to register a course.
type AddCourseCommand struct {
	// Code is the course code, e.g. "MAT101". Matched case-insensitively.
	Code string

	// Name is the human-readable course name.
	Name string

	// Credit is the course credit. Zero means use the default of 1.
	Credit int
}

// Validate validates the command.
func (c AddCourseCommand) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return shared.NewDomainError("gradebook", "add_course", shared.ErrInvalidCourseCode,
			"course code is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("gradebook", "add_course", shared.ErrEmptyValue,
			"course name is required")
	}
	if c.Credit < 0 {
		return shared.NewDomainError("gradebook", "add_course", shared.ErrInvalidCredit,
			"credit must be positive")
	}
	return nil
}

// AddCourseResult contains the result of adding a course.
type AddCourseResult struct {
	// Course is the registered course with the canonical code.
	Course *gradebook.Course
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AddCourseHandler handles the AddCourseCommand.
type AddCourseHandler struct {
	store     gradebook.Store
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewAddCourseHandler creates a new AddCourseHandler.
func NewAddCourseHandler(store gradebook.Store, publisher shared.EventPublisher, logger *slog.Logger) *AddCourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddCourseHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the add course command.
func (h *AddCourseHandler) Handle(ctx context.Context, cmd AddCourseCommand) (*AddCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_course: %w", err)
	}

	credit := cmd.Credit
	if credit == 0 {
		credit = gradebook.DefaultCredit
	}

	course, err := gradebook.NewCourse(cmd.Code, cmd.Name, credit)
	if err != nil {
		return nil, fmt.Errorf("add_course: %w", err)
	}

	if err := h.store.AddCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("add_course: %w", err)
	}

	h.logger.Info("course added",
		"course_code", course.Code,
		"course_name", course.Name,
		"credit", course.Credit,
	)

	if h.publisher != nil {
		event := shared.NewCourseAddedEvent(course.Code, course.Name, course.Credit)
		if err := h.publisher.Publish(event); err != nil {
			h.logger.Warn("failed to publish course added event",
				"course_code", course.Code,
				"error", err,
			)
		}
	}

	return &AddCourseResult{Course: course}, nil
}
