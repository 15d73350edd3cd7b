package gradebook

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// Bu arayüz, veri deposuyla çalışma sözleşmesini tanımlar. Gerçekleştirim
// infrastructure/persistence altındadır.
// ══════════════════════════════════════════════════════════════════════════════

// Store owns the full graph of courses and students. Every mutating
// operation persists the whole document before returning; when it returns
// an error satisfying shared.IsPersistence, the mutation has been rolled
// back and must not be reported as a success.
//
// The store assumes a single process. Operations within that process are
// safe to call concurrently; coordination across processes sharing the same
// document file is out of scope.
type Store interface {
	// AddCourse inserts a new course.
	// Returns shared.ErrCourseAlreadyExists if the code is taken (any case).
	AddCourse(ctx context.Context, course *Course) error

	// AddStudent inserts a new student with an empty grade list.
	// Returns shared.ErrStudentAlreadyExists if the id is taken.
	AddStudent(ctx context.Context, student *Student) error

	// UpsertGrades applies a partial score update for a student/course pair,
	// creating the grade record if absent. Preconditions are checked in
	// order: shared.ErrStudentNotFound first, then shared.ErrCourseNotFound.
	// On success the updated record is returned.
	UpsertGrades(ctx context.Context, studentID, courseCode string, update ScoreUpdate) (*GradeRecord, error)

	// Course returns the course with the given code (any case).
	// Returns shared.ErrCourseNotFound if absent.
	Course(ctx context.Context, code string) (*Course, error)

	// Student returns the student with the given id.
	// Returns shared.ErrStudentNotFound if absent.
	Student(ctx context.Context, id string) (*Student, error)

	// Courses returns all courses in insertion order.
	Courses(ctx context.Context) ([]*Course, error)

	// Students returns all students in insertion order.
	Students(ctx context.Context) ([]*Student, error)
}
