// Package export builds xlsx snapshots of the whole gradebook. The workbook
// has one sheet of courses and one sheet of grade rows, so the school office
// can file the current state without touching the JSON document.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// Sheet names (Turkish, matching the rest of the user-facing surface).
const (
	SheetCourses = "Dersler"
	SheetGrades  = "Notlar"
)

// Exporter writes gradebook workbooks into a target directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter creates an exporter. The directory is created on demand.
func NewExporter(dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{dir: dir, logger: logger}
}

// Result describes a finished export.
type Result struct {
	// Path is the absolute location of the workbook on disk.
	Path string

	// FileName is the base name, suitable for sending as a document.
	FileName string

	// StudentCount and CourseCount are the exported row counts.
	StudentCount int
	CourseCount  int
}

// Export writes a workbook with every course and every grade row.
// Rows follow store insertion order, same as the report card.
func (e *Exporter) Export(ctx context.Context, courses []*gradebook.Course, students []*gradebook.Student) (*Result, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, shared.WrapError("export", "Build", shared.ErrExternalService, "failed to create export directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCourses); err != nil {
		return nil, shared.WrapError("export", "Build", shared.ErrExternalService, "failed to name courses sheet", err)
	}
	if _, err := f.NewSheet(SheetGrades); err != nil {
		return nil, shared.WrapError("export", "Build", shared.ErrExternalService, "failed to create grades sheet", err)
	}

	if err := e.writeCourses(f, courses); err != nil {
		return nil, err
	}
	if err := e.writeGrades(f, students); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("e-okul-notlar-%s.xlsx", time.Now().Format("20060102-150405"))
	path := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return nil, shared.WrapError("export", "Save", shared.ErrExternalService, "failed to save workbook", err)
	}

	e.logger.Info("gradebook exported",
		"path", path,
		"students", len(students),
		"courses", len(courses),
	)

	return &Result{
		Path:         path,
		FileName:     fileName,
		StudentCount: len(students),
		CourseCount:  len(courses),
	}, nil
}

func (e *Exporter) writeCourses(f *excelize.File, courses []*gradebook.Course) error {
	headers := []string{"Ders Kodu", "Ders Adı", "Kredi"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "bad cell coordinate", err)
		}
		if err := f.SetCellValue(SheetCourses, cell, h); err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "failed to write header", err)
		}
	}

	for i, course := range courses {
		row := i + 2
		values := []interface{}{course.Code, course.Name, course.Credit}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return shared.WrapError("export", "Build", shared.ErrExternalService, "bad cell coordinate", err)
			}
			if err := f.SetCellValue(SheetCourses, cell, v); err != nil {
				return shared.WrapError("export", "Build", shared.ErrExternalService, "failed to write course row", err)
			}
		}
	}
	return nil
}

func (e *Exporter) writeGrades(f *excelize.File, students []*gradebook.Student) error {
	headers := []string{"Öğrenci No", "Ad Soyad", "Sınıf", "Ders", "Sınav 1", "Sınav 2", "Proje", "Ortalama", "Harf"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "bad cell coordinate", err)
		}
		if err := f.SetCellValue(SheetGrades, cell, h); err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "failed to write header", err)
		}
	}

	row := 2
	for _, student := range students {
		// A student without grade records still gets one identity row.
		if len(student.Grades) == 0 {
			if err := e.writeGradeRow(f, row, student, nil); err != nil {
				return err
			}
			row++
			continue
		}
		for _, record := range student.Grades {
			if err := e.writeGradeRow(f, row, student, record); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (e *Exporter) writeGradeRow(f *excelize.File, row int, student *gradebook.Student, record *gradebook.GradeRecord) error {
	values := []interface{}{student.ID, student.Name, student.ClassName}

	if record != nil {
		values = append(values, record.CourseCode,
			scoreCell(record.Exam1), scoreCell(record.Exam2), scoreCell(record.Project))
		if avg, ok := record.Average(); ok {
			letter, _ := record.Letter()
			values = append(values, avg, letter)
		} else {
			values = append(values, "", "")
		}
	}

	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "bad cell coordinate", err)
		}
		if err := f.SetCellValue(SheetGrades, cell, v); err != nil {
			return shared.WrapError("export", "Build", shared.ErrExternalService, "failed to write grade row", err)
		}
	}
	return nil
}

// scoreCell maps an absent score to an empty cell.
func scoreCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
