// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REPORT CARD QUERY
// Bir öğrencinin karnesini oluşturur: ders ders notlar, ortalamalar ve harf
// notları. Sonuç önbelleklenir ve not girişinde geçersiz kılınır.
// ══════════════════════════════════════════════════════════════════════════════

// ReportCardCache caches rendered report card view models keyed by student id.
// Implementations live in infrastructure; a nil cache disables caching.
type ReportCardCache interface {
	// Get returns the cached payload or an error on miss.
	Get(ctx context.Context, studentID string) ([]byte, error)

	// Set stores the payload for the student.
	Set(ctx context.Context, studentID string, payload []byte) error
}

// GetReportCardQuery contains the parameters for the report card query.
type GetReportCardQuery struct {
	// StudentID is the school-assigned student number.
	StudentID string
}

// Validate validates the query.
func (q GetReportCardQuery) Validate() error {
	if strings.TrimSpace(q.StudentID) == "" {
		return shared.NewDomainError("gradebook", "get_report_card", shared.ErrInvalidStudentID,
			"student id is required")
	}
	return nil
}

// ReportCardRow is one course line of the report card.
type ReportCardRow struct {
	// CourseCode is the canonical course code.
	CourseCode string `json:"courseCode"`

	// CourseName is the course name from the catalog, empty if the course
	// was removed from the catalog after grading.
	CourseName string `json:"courseName,omitempty"`

	// Exam1, Exam2 and Project are the recorded scores, nil when absent.
	Exam1   *float64 `json:"exam1,omitempty"`
	Exam2   *float64 `json:"exam2,omitempty"`
	Project *float64 `json:"project,omitempty"`

	// Average is the mean of the entered scores, nil while none is entered.
	Average *float64 `json:"average,omitempty"`

	// Letter is the letter grade, empty while the average is undefined.
	Letter string `json:"letter,omitempty"`
}

// ReportCard is the full report card view model.
type ReportCard struct {
	// StudentID is the school-assigned student number.
	StudentID string `json:"studentId"`

	// StudentName is the student's full name.
	StudentName string `json:"studentName"`

	// ClassName is the class label.
	ClassName string `json:"className"`

	// Rows are the course lines in grade insertion order.
	Rows []ReportCardRow `json:"rows"`

	// OverallAverage is the mean of the defined course averages, nil when
	// no record has a score yet.
	OverallAverage *float64 `json:"overallAverage,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetReportCardHandler handles the GetReportCardQuery.
type GetReportCardHandler struct {
	store  gradebook.Store
	cache  ReportCardCache
	logger *slog.Logger
}

// NewGetReportCardHandler creates a new GetReportCardHandler.
func NewGetReportCardHandler(store gradebook.Store, cache ReportCardCache, logger *slog.Logger) *GetReportCardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetReportCardHandler{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Handle executes the report card query.
func (h *GetReportCardHandler) Handle(ctx context.Context, q GetReportCardQuery) (*ReportCard, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_report_card: %w", err)
	}

	studentID := strings.TrimSpace(q.StudentID)

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, studentID); err == nil {
			var card ReportCard
			if err := json.Unmarshal(payload, &card); err == nil {
				h.logger.Debug("report card cache hit", "student_id", studentID)
				return &card, nil
			}
			h.logger.Warn("discarding undecodable cached report card", "student_id", studentID)
		}
	}

	student, err := h.store.Student(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get_report_card: %w", err)
	}

	card := h.build(ctx, student)

	if h.cache != nil {
		if payload, err := json.Marshal(card); err == nil {
			if err := h.cache.Set(ctx, studentID, payload); err != nil {
				h.logger.Warn("failed to cache report card",
					"student_id", studentID,
					"error", err,
				)
			}
		}
	}

	return card, nil
}

// build assembles the view model from the student and the course catalog.
func (h *GetReportCardHandler) build(ctx context.Context, student *gradebook.Student) *ReportCard {
	card := &ReportCard{
		StudentID:   student.ID,
		StudentName: student.Name,
		ClassName:   student.ClassName,
		Rows:        make([]ReportCardRow, 0, len(student.Grades)),
	}

	for _, record := range student.Grades {
		row := ReportCardRow{
			CourseCode: record.CourseCode,
			Exam1:      record.Exam1,
			Exam2:      record.Exam2,
			Project:    record.Project,
		}
		if course, err := h.store.Course(ctx, record.CourseCode); err == nil {
			row.CourseName = course.Name
		}
		if avg, ok := record.Average(); ok {
			row.Average = &avg
			row.Letter = gradebook.LetterGrade(avg)
		}
		card.Rows = append(card.Rows, row)
	}

	if overall, ok := student.OverallAverage(); ok {
		card.OverallAverage = &overall
	}

	return card
}
