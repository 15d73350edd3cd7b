package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

func TestNewCourse_CanonicalizesCode(t *testing.T) {
	course, err := NewCourse("  mat101 ", " Matematik ", 3)
	require.NoError(t, err)

	assert.Equal(t, "MAT101", course.Code)
	assert.Equal(t, "Matematik", course.Name)
	assert.Equal(t, 3, course.Credit)
}

func TestNewCourse_RejectsInvalidInput(t *testing.T) {
	_, err := NewCourse("   ", "Matematik", 1)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewCourse("MAT101", "Matematik", 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewCourse("MAT101", "Matematik", -2)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGradeRecord_Average(t *testing.T) {
	full := &GradeRecord{
		CourseCode: "MAT101",
		Exam1:      Score(80),
		Exam2:      Score(90),
		Project:    Score(100),
	}
	avg, ok := full.Average()
	require.True(t, ok)
	assert.InDelta(t, 90.0, avg, 1e-9)

	letter, ok := full.Letter()
	require.True(t, ok)
	assert.Equal(t, "AA", letter)

	partial := &GradeRecord{CourseCode: "FIZ201", Exam1: Score(65)}
	avg, ok = partial.Average()
	require.True(t, ok)
	assert.InDelta(t, 65.0, avg, 1e-9)

	letter, ok = partial.Letter()
	require.True(t, ok)
	assert.Equal(t, "CC", letter)

	empty := &GradeRecord{CourseCode: "KIM101"}
	_, ok = empty.Average()
	assert.False(t, ok)
	_, ok = empty.Letter()
	assert.False(t, ok)
}

func TestGradeRecord_ZeroScoreIsPresent(t *testing.T) {
	// Zero is an entered score, not an absent one.
	record := &GradeRecord{CourseCode: "MAT101", Exam1: Score(0)}

	avg, ok := record.Average()
	require.True(t, ok)
	assert.Equal(t, 0.0, avg)

	letter, ok := record.Letter()
	require.True(t, ok)
	assert.Equal(t, "FF", letter)
}

func TestGradeRecord_ApplyPartialUpdate(t *testing.T) {
	record := &GradeRecord{CourseCode: "MAT101", Exam1: Score(80)}

	record.Apply(ScoreUpdate{Exam2: Score(90)})

	require.NotNil(t, record.Exam1)
	assert.Equal(t, 80.0, *record.Exam1)
	require.NotNil(t, record.Exam2)
	assert.Equal(t, 90.0, *record.Exam2)
	assert.Nil(t, record.Project)
}

func TestLetterGrade_Boundaries(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{100, "AA"},
		{90, "AA"},
		{89.999, "BA"},
		{85, "BA"},
		{84.999, "BB"},
		{80, "BB"},
		{79.999, "CB"},
		{70, "CB"},
		{60, "CC"},
		{50, "DC"},
		{40, "DD"},
		{39.999, "FF"},
		{0, "FF"},
		{-5, "FF"},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, LetterGrade(tc.avg), "average %v", tc.avg)
	}
}

func TestStudent_RecordGradesPreservesInsertionOrder(t *testing.T) {
	student, err := NewStudent("1001", "Ayşe Yılmaz", "10-A")
	require.NoError(t, err)

	student.RecordGrades("fiz201", ScoreUpdate{Exam1: Score(70)})
	student.RecordGrades("MAT101", ScoreUpdate{Exam1: Score(90)})
	student.RecordGrades("fiz201", ScoreUpdate{Exam2: Score(80)})

	require.Len(t, student.Grades, 2)
	assert.Equal(t, "FIZ201", student.Grades[0].CourseCode)
	assert.Equal(t, "MAT101", student.Grades[1].CourseCode)

	record, ok := student.Grade("FIZ201")
	require.True(t, ok)
	require.NotNil(t, record.Exam1)
	assert.Equal(t, 70.0, *record.Exam1)
	require.NotNil(t, record.Exam2)
	assert.Equal(t, 80.0, *record.Exam2)
}

func TestStudent_OverallAverage(t *testing.T) {
	student, err := NewStudent("1001", "Ayşe Yılmaz", "10-A")
	require.NoError(t, err)

	_, ok := student.OverallAverage()
	assert.False(t, ok, "no records yet")

	student.RecordGrades("MAT101", ScoreUpdate{Exam1: Score(70)})
	student.RecordGrades("FIZ201", ScoreUpdate{Exam1: Score(90)})
	// A record with no scores must not drag the overall average.
	student.Grades = append(student.Grades, &GradeRecord{CourseCode: "KIM101"})

	avg, ok := student.OverallAverage()
	require.True(t, ok)
	assert.InDelta(t, 80.0, avg, 1e-9)
}

func TestStudent_Clone(t *testing.T) {
	student, err := NewStudent("1001", "Ayşe Yılmaz", "10-A")
	require.NoError(t, err)
	student.RecordGrades("MAT101", ScoreUpdate{Exam1: Score(50)})

	clone := student.Clone()
	clone.RecordGrades("MAT101", ScoreUpdate{Exam1: Score(99)})

	original, _ := student.Grade("MAT101")
	assert.Equal(t, 50.0, *original.Exam1, "clone mutation must not leak back")
}
