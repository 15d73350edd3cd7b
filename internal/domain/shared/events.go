package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the gradebook.
const (
	// Gradebook events
	EventCourseAdded     EventType = "gradebook.course_added"
	EventStudentEnrolled EventType = "gradebook.student_enrolled"
	EventGradesRecorded  EventType = "gradebook.grades_recorded"

	// Export events
	EventGradebookExported EventType = "export.gradebook_exported"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Gradebook Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseAddedEvent is emitted when a new course is registered.
type CourseAddedEvent struct {
	BaseEvent
	Code   string `json:"code"`
	Name   string `json:"name"`
	Credit int    `json:"credit"`
}

// Payload implements Event interface.
func (e CourseAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"code":   e.Code,
		"name":   e.Name,
		"credit": e.Credit,
	}
}

// NewCourseAddedEvent creates a new CourseAddedEvent.
func NewCourseAddedEvent(code, name string, credit int) CourseAddedEvent {
	return CourseAddedEvent{
		BaseEvent: NewBaseEvent(EventCourseAdded, code),
		Code:      code,
		Name:      name,
		Credit:    credit,
	}
}

// StudentEnrolledEvent is emitted when a new student is registered.
type StudentEnrolledEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
}

// Payload implements Event interface.
func (e StudentEnrolledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"name":       e.Name,
		"class_name": e.ClassName,
	}
}

// NewStudentEnrolledEvent creates a new StudentEnrolledEvent.
func NewStudentEnrolledEvent(studentID, name, className string) StudentEnrolledEvent {
	return StudentEnrolledEvent{
		BaseEvent: NewBaseEvent(EventStudentEnrolled, studentID),
		StudentID: studentID,
		Name:      name,
		ClassName: className,
	}
}

// GradesRecordedEvent is emitted when scores are entered or updated for a
// student/course pair.
type GradesRecordedEvent struct {
	BaseEvent
	StudentID  string   `json:"student_id"`
	CourseCode string   `json:"course_code"`
	Average    *float64 `json:"average,omitempty"`
	Letter     string   `json:"letter,omitempty"`
}

// Payload implements Event interface.
func (e GradesRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  e.StudentID,
		"course_code": e.CourseCode,
		"average":     e.Average,
		"letter":      e.Letter,
	}
}

// NewGradesRecordedEvent creates a new GradesRecordedEvent.
func NewGradesRecordedEvent(studentID, courseCode string, average *float64, letter string) GradesRecordedEvent {
	return GradesRecordedEvent{
		BaseEvent:  NewBaseEvent(EventGradesRecorded, studentID),
		StudentID:  studentID,
		CourseCode: courseCode,
		Average:    average,
		Letter:     letter,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Export Events
// ═══════════════════════════════════════════════════════════════════════════

// GradebookExportedEvent is emitted when a workbook export completes.
type GradebookExportedEvent struct {
	BaseEvent
	ExportID     string `json:"export_id"`
	FileName     string `json:"file_name"`
	StudentCount int    `json:"student_count"`
	CourseCount  int    `json:"course_count"`
}

// Payload implements Event interface.
func (e GradebookExportedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"export_id":     e.ExportID,
		"file_name":     e.FileName,
		"student_count": e.StudentCount,
		"course_count":  e.CourseCount,
	}
}

// NewGradebookExportedEvent creates a new GradebookExportedEvent.
func NewGradebookExportedEvent(exportID, fileName string, studentCount, courseCount int) GradebookExportedEvent {
	return GradebookExportedEvent{
		BaseEvent:    NewBaseEvent(EventGradebookExported, exportID),
		ExportID:     exportID,
		FileName:     fileName,
		StudentCount: studentCount,
		CourseCount:  courseCount,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
