package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
)

func TestExporter_Export(t *testing.T) {
	exporter := NewExporter(t.TempDir(), nil)

	mat, err := gradebook.NewCourse("MAT101", "Matematik", 3)
	require.NoError(t, err)
	fiz, err := gradebook.NewCourse("FIZ201", "Fizik", 2)
	require.NoError(t, err)

	ayse, err := gradebook.NewStudent("1001", "Ayşe Yılmaz", "10-A")
	require.NoError(t, err)
	ayse.RecordGrades("MAT101", gradebook.ScoreUpdate{
		Exam1:   gradebook.Score(80),
		Exam2:   gradebook.Score(90),
		Project: gradebook.Score(100),
	})
	ayse.RecordGrades("FIZ201", gradebook.ScoreUpdate{Exam1: gradebook.Score(65)})

	mehmet, err := gradebook.NewStudent("1002", "Mehmet Demir", "10-B")
	require.NoError(t, err)

	result, err := exporter.Export(context.Background(),
		[]*gradebook.Course{mat, fiz},
		[]*gradebook.Student{ayse, mehmet},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CourseCount)
	assert.Equal(t, 2, result.StudentCount)

	f, err := excelize.OpenFile(result.Path)
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue(SheetCourses, "A2")
	require.NoError(t, err)
	assert.Equal(t, "MAT101", code)

	credit, err := f.GetCellValue(SheetCourses, "C2")
	require.NoError(t, err)
	assert.Equal(t, "3", credit)

	// First grade row: Ayşe's MAT101 with full scores and derived values.
	studentID, err := f.GetCellValue(SheetGrades, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1001", studentID)

	avg, err := f.GetCellValue(SheetGrades, "H2")
	require.NoError(t, err)
	assert.Equal(t, "90", avg)

	letter, err := f.GetCellValue(SheetGrades, "I2")
	require.NoError(t, err)
	assert.Equal(t, "AA", letter)

	// Ayşe's FIZ201 row has only exam1; exam2 cell stays empty.
	exam2, err := f.GetCellValue(SheetGrades, "F3")
	require.NoError(t, err)
	assert.Empty(t, exam2)

	// A student without records still appears with an identity row.
	lastRow, err := f.GetCellValue(SheetGrades, "A4")
	require.NoError(t, err)
	assert.Equal(t, "1002", lastRow)
}
