package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "veri.json")
	store, err := Open(path, nil)
	require.NoError(t, err)
	return store, path
}

func mustCourse(t *testing.T, code, name string, credit int) *gradebook.Course {
	t.Helper()
	course, err := gradebook.NewCourse(code, name, credit)
	require.NoError(t, err)
	return course
}

func mustStudent(t *testing.T, id, name, class string) *gradebook.Student {
	t.Helper()
	student, err := gradebook.NewStudent(id, name, class)
	require.NoError(t, err)
	return student
}

func TestStore_AddCourse_Duplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCourse(ctx, mustCourse(t, "MAT101", "Matematik", 3)))

	// Same code in a different case is still a duplicate.
	err := store.AddCourse(ctx, mustCourse(t, "mat101", "Matematik II", 2))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// The duplicate attempt must not have touched the stored course.
	course, err := store.Course(ctx, "MAT101")
	require.NoError(t, err)
	assert.Equal(t, "Matematik", course.Name)
	assert.Equal(t, 3, course.Credit)
}

func TestStore_AddStudent_Duplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1001", "Ayşe Yılmaz", "10-A")))

	err := store.AddStudent(ctx, mustStudent(t, "1001", "Başka Biri", "11-B"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	student, err := store.Student(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", student.Name)
}

func TestStore_UpsertGrades_MissingReferences(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	update := gradebook.ScoreUpdate{Exam1: gradebook.Score(80)}

	// Student precondition checked first, even when the course is also missing.
	_, err := store.UpsertGrades(ctx, "9999", "MAT101", update)
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)

	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1001", "Ayşe Yılmaz", "10-A")))

	_, err = store.UpsertGrades(ctx, "1001", "MAT101", update)
	assert.ErrorIs(t, err, shared.ErrCourseNotFound)

	// No mutation happened.
	student, err := store.Student(ctx, "1001")
	require.NoError(t, err)
	assert.Empty(t, student.Grades)
}

func TestStore_UpsertGrades_PartialUpdate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCourse(ctx, mustCourse(t, "MAT101", "Matematik", 1)))
	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1001", "Ayşe Yılmaz", "10-A")))

	_, err := store.UpsertGrades(ctx, "1001", "mat101", gradebook.ScoreUpdate{Exam1: gradebook.Score(80)})
	require.NoError(t, err)

	record, err := store.UpsertGrades(ctx, "1001", "MAT101", gradebook.ScoreUpdate{Exam2: gradebook.Score(90)})
	require.NoError(t, err)

	require.NotNil(t, record.Exam1, "exam1 must survive a partial update")
	assert.Equal(t, 80.0, *record.Exam1)
	require.NotNil(t, record.Exam2)
	assert.Equal(t, 90.0, *record.Exam2)
	assert.Nil(t, record.Project)
}

func TestStore_RoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCourse(ctx, mustCourse(t, "FIZ201", "Fizik", 2)))
	require.NoError(t, store.AddCourse(ctx, mustCourse(t, "MAT101", "Matematik", 3)))
	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1001", "Ayşe Yılmaz", "10-A")))
	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1002", "Mehmet Demir", "10-B")))

	_, err := store.UpsertGrades(ctx, "1001", "FIZ201", gradebook.ScoreUpdate{Exam1: gradebook.Score(70)})
	require.NoError(t, err)
	_, err = store.UpsertGrades(ctx, "1001", "MAT101", gradebook.ScoreUpdate{
		Exam1:   gradebook.Score(80),
		Project: gradebook.Score(100),
	})
	require.NoError(t, err)

	// A fresh store loading the same file must see an identical document.
	reloaded, err := Open(path, nil)
	require.NoError(t, err)

	student, err := reloaded.Student(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, student.Grades, 2)
	assert.Equal(t, "FIZ201", student.Grades[0].CourseCode, "grade insertion order must survive reload")
	assert.Equal(t, "MAT101", student.Grades[1].CourseCode)
	assert.Nil(t, student.Grades[1].Exam2, "absent score must stay absent")

	courses, err := reloaded.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "FIZ201", courses[0].Code, "course insertion order must survive reload")

	// Byte-level law: the same mutation applied to the original store and
	// to a store that went through a save/load cycle yields identical files.
	otherPath := filepath.Join(t.TempDir(), "veri.json")
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(otherPath, original, 0o644))
	twin, err := Open(otherPath, nil)
	require.NoError(t, err)

	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1003", "Zeynep Kaya", "9-C")))
	require.NoError(t, twin.AddStudent(ctx, mustStudent(t, "1003", "Zeynep Kaya", "9-C")))

	want, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := os.ReadFile(otherPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got), "save/load cycle must be byte-equivalent")
}

func TestStore_SaveFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "veri.json")
	store, err := Open(path, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.AddCourse(ctx, mustCourse(t, "MAT101", "Matematik", 1)))
	require.NoError(t, store.AddStudent(ctx, mustStudent(t, "1001", "Ayşe Yılmaz", "10-A")))

	// Make the target un-replaceable: a directory cannot be renamed over.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))

	err = store.AddCourse(ctx, mustCourse(t, "FIZ201", "Fizik", 1))
	require.Error(t, err)
	assert.True(t, shared.IsPersistence(err), "write failure must surface as a persistence error")

	// The failed mutation must not be visible in memory either.
	_, err = store.Course(ctx, "FIZ201")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, upsertErr := store.UpsertGrades(ctx, "1001", "MAT101", gradebook.ScoreUpdate{Exam1: gradebook.Score(50)})
	require.Error(t, upsertErr)
	assert.True(t, shared.IsPersistence(upsertErr))

	student, err := store.Student(ctx, "1001")
	require.NoError(t, err)
	assert.Empty(t, student.Grades, "rolled-back upsert must leave no record behind")
}

func TestStore_OpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veri.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidEntity)
}

func TestOrderedObject_MarshalOrder(t *testing.T) {
	obj := newOrderedObject[int]()
	obj.Set("b", 2)
	obj.Set("a", 1)
	obj.Set("c", 3)
	obj.Set("a", 10) // overwrite keeps original position

	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":10,"c":3}`, string(data))

	var decoded orderedObject[int]
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, []string{"b", "a", "c"}, decoded.Keys())
}
