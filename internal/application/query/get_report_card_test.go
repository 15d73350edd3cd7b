package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

type fakeStore struct {
	courses  []*gradebook.Course
	students []*gradebook.Student
}

func (s *fakeStore) AddCourse(_ context.Context, course *gradebook.Course) error {
	s.courses = append(s.courses, course)
	return nil
}

func (s *fakeStore) AddStudent(_ context.Context, student *gradebook.Student) error {
	s.students = append(s.students, student)
	return nil
}

func (s *fakeStore) UpsertGrades(_ context.Context, _, _ string, _ gradebook.ScoreUpdate) (*gradebook.GradeRecord, error) {
	panic("not used in query tests")
}

func (s *fakeStore) Course(_ context.Context, code string) (*gradebook.Course, error) {
	code = gradebook.CanonicalCode(code)
	for _, c := range s.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrCourseNotFound
}

func (s *fakeStore) Student(_ context.Context, id string) (*gradebook.Student, error) {
	for _, st := range s.students {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (s *fakeStore) Courses(_ context.Context) ([]*gradebook.Course, error) {
	return s.courses, nil
}

func (s *fakeStore) Students(_ context.Context) ([]*gradebook.Student, error) {
	return s.students, nil
}

// mapCache is an in-memory ReportCardCache for tests.
type mapCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, studentID string) ([]byte, error) {
	c.gets++
	payload, ok := c.entries[studentID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return payload, nil
}

func (c *mapCache) Set(_ context.Context, studentID string, payload []byte) error {
	c.sets++
	c.entries[studentID] = payload
	return nil
}

func seededStore(t *testing.T) *fakeStore {
	t.Helper()
	ctx := context.Background()
	store := &fakeStore{}

	mat, err := gradebook.NewCourse("MAT101", "Matematik", 3)
	require.NoError(t, err)
	fiz, err := gradebook.NewCourse("FIZ201", "Fizik", 2)
	require.NoError(t, err)
	require.NoError(t, store.AddCourse(ctx, mat))
	require.NoError(t, store.AddCourse(ctx, fiz))

	student, err := gradebook.NewStudent("1001", "Ayşe Yılmaz", "10-A")
	require.NoError(t, err)
	student.RecordGrades("MAT101", gradebook.ScoreUpdate{
		Exam1:   gradebook.Score(80),
		Exam2:   gradebook.Score(90),
		Project: gradebook.Score(100),
	})
	student.RecordGrades("FIZ201", gradebook.ScoreUpdate{
		Exam1: gradebook.Score(70),
	})
	require.NoError(t, store.AddStudent(ctx, student))

	return store
}

func TestGetReportCard_RowsAndAverages(t *testing.T) {
	handler := NewGetReportCardHandler(seededStore(t), nil, nil)

	card, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "1001"})
	require.NoError(t, err)

	assert.Equal(t, "1001", card.StudentID)
	assert.Equal(t, "Ayşe Yılmaz", card.StudentName)
	assert.Equal(t, "10-A", card.ClassName)
	require.Len(t, card.Rows, 2)

	mat := card.Rows[0]
	assert.Equal(t, "MAT101", mat.CourseCode)
	assert.Equal(t, "Matematik", mat.CourseName)
	require.NotNil(t, mat.Average)
	assert.InDelta(t, 90.0, *mat.Average, 1e-9)
	assert.Equal(t, "AA", mat.Letter)

	fiz := card.Rows[1]
	assert.Equal(t, "FIZ201", fiz.CourseCode)
	require.NotNil(t, fiz.Average)
	assert.InDelta(t, 70.0, *fiz.Average, 1e-9)
	assert.Equal(t, "CB", fiz.Letter)
	assert.Nil(t, fiz.Exam2)

	// Overall is the mean of the two defined course averages.
	require.NotNil(t, card.OverallAverage)
	assert.InDelta(t, 80.0, *card.OverallAverage, 1e-9)
}

func TestGetReportCard_UnknownStudent(t *testing.T) {
	handler := NewGetReportCardHandler(seededStore(t), nil, nil)

	_, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "9999"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestGetReportCard_Validation(t *testing.T) {
	handler := NewGetReportCardHandler(seededStore(t), nil, nil)

	_, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidStudentID)
}

func TestGetReportCard_CacheHitAndFill(t *testing.T) {
	cache := newMapCache()
	handler := NewGetReportCardHandler(seededStore(t), cache, nil)

	first, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "cache hit must not rewrite the entry")
	assert.Equal(t, first, second)
}

func TestGetReportCard_CorruptCacheEntryIgnored(t *testing.T) {
	cache := newMapCache()
	cache.entries["1001"] = []byte("{not json")

	handler := NewGetReportCardHandler(seededStore(t), cache, nil)

	card, err := handler.Handle(context.Background(), GetReportCardQuery{StudentID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", card.StudentName)

	// The rebuilt card replaces the corrupt payload.
	var cached ReportCard
	require.NoError(t, json.Unmarshal(cache.entries["1001"], &cached))
	assert.Equal(t, "1001", cached.StudentID)
}
