package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// Write-through JSON file store. Implements gradebook.Store.
// ══════════════════════════════════════════════════════════════════════════════

// Store keeps the gradebook in memory and rewrites the backing JSON file
// after every mutation. One mutex serializes all operations; the process is
// assumed to be the only writer of the file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	doc    *document
}

// Open loads the document at path, or starts with an empty one when the
// file does not exist yet. The file is created on the first mutation.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := &Store{
		path:   path,
		logger: logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		store.doc = emptyDocument()
		logger.Info("gradebook file not found, starting empty", "path", path)
	case err != nil:
		return nil, shared.WrapError("storage", "Load", shared.ErrPersistence, "failed to read gradebook document", err)
	default:
		doc := emptyDocument()
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, shared.WrapError("storage", "Load", shared.ErrInvalidEntity, "gradebook document is not valid JSON", err)
		}
		doc.normalize()
		store.doc = doc
		logger.Info("gradebook loaded",
			"path", path,
			"students", doc.Students.Len(),
			"courses", doc.Courses.Len(),
		)
	}

	return store, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Check verifies that the directory holding the document is reachable.
// Used by the readiness probe.
func (s *Store) Check(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return shared.WrapError("storage", "Check", shared.ErrPersistence, "gradebook directory unreachable", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// AddCourse implements gradebook.Store.
func (s *Store) AddCourse(ctx context.Context, course *gradebook.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := gradebook.CanonicalCode(course.Code)
	if s.doc.Courses.Has(code) {
		return shared.ErrCourseAlreadyExists
	}

	s.doc.Courses.Set(code, courseToDoc(course))
	if err := s.save(); err != nil {
		s.doc.Courses.Delete(code)
		return err
	}

	s.logger.Info("course added", "code", code, "name", course.Name, "credit", course.Credit)
	return nil
}

// AddStudent implements gradebook.Store.
func (s *Store) AddStudent(ctx context.Context, student *gradebook.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Students.Has(student.ID) {
		return shared.ErrStudentAlreadyExists
	}

	s.doc.Students.Set(student.ID, studentToDoc(student))
	if err := s.save(); err != nil {
		s.doc.Students.Delete(student.ID)
		return err
	}

	s.logger.Info("student enrolled", "student_id", student.ID, "class", student.ClassName)
	return nil
}

// UpsertGrades implements gradebook.Store.
func (s *Store) UpsertGrades(ctx context.Context, studentID, courseCode string, update gradebook.ScoreUpdate) (*gradebook.GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Precondition order matters: student first, then course.
	studentEntry, ok := s.doc.Students.Get(studentID)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}

	code := gradebook.CanonicalCode(courseCode)
	if !s.doc.Courses.Has(code) {
		return nil, shared.ErrCourseNotFound
	}

	prev, existed := studentEntry.Grades.Get(code)

	record := &gradebook.GradeRecord{CourseCode: code}
	if existed {
		record = gradeFromDoc(prev)
	}
	record.Apply(update)
	studentEntry.Grades.Set(code, gradeToDoc(record))

	if err := s.save(); err != nil {
		// Roll back so memory never runs ahead of the file.
		if existed {
			studentEntry.Grades.Set(code, prev)
		} else {
			studentEntry.Grades.Delete(code)
		}
		return nil, err
	}

	s.logger.Info("grades recorded", "student_id", studentID, "course", code)
	return record, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// Course implements gradebook.Store.
func (s *Store) Course(ctx context.Context, code string) (*gradebook.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.doc.Courses.Get(gradebook.CanonicalCode(code))
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return courseFromDoc(entry), nil
}

// Student implements gradebook.Store.
func (s *Store) Student(ctx context.Context, id string) (*gradebook.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.doc.Students.Get(id)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return studentFromDoc(entry), nil
}

// Courses implements gradebook.Store.
func (s *Store) Courses(ctx context.Context) ([]*gradebook.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]*gradebook.Course, 0, s.doc.Courses.Len())
	for _, code := range s.doc.Courses.Keys() {
		if entry, ok := s.doc.Courses.Get(code); ok {
			courses = append(courses, courseFromDoc(entry))
		}
	}
	return courses, nil
}

// Students implements gradebook.Store.
func (s *Store) Students(ctx context.Context) ([]*gradebook.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]*gradebook.Student, 0, s.doc.Students.Len())
	for _, id := range s.doc.Students.Keys() {
		if entry, ok := s.doc.Students.Get(id); ok {
			students = append(students, studentFromDoc(entry))
		}
	}
	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Persistence
// ─────────────────────────────────────────────────────────────────────────────

// save rewrites the whole document atomically: marshal, write to a temp
// file in the same directory, then rename over the target. Callers hold
// the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "failed to encode gradebook document", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "failed to write gradebook document", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "failed to flush gradebook document", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("storage", "Save", shared.ErrPersistence,
			fmt.Sprintf("failed to replace %s", s.path), err)
	}
	return nil
}
