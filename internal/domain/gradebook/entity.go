// Package gradebook, E-Okul not sisteminin çekirdek alan modelini içerir:
// dersler, öğrenciler ve not kayıtları. Burada dış bağımlılık yoktur -
// sadece saf iş mantığı.
package gradebook

import (
	"fmt"
	"strings"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// CanonicalCode normalizes a course code: trimmed and uppercased.
// "mat101" and "MAT101" identify the same course.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Score is a helper to build an optional score from a literal value.
func Score(v float64) *float64 {
	return &v
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course - benzersiz bir kodla tanımlanan, kredili bir ders.
type Course struct {
	// Code - ders kodu, her zaman büyük harf (örn: MAT101). Mağaza içinde
	// benzersiz anahtardır.
	Code string

	// Name - dersin görünen adı.
	Name string

	// Credit - kredi ağırlığı, pozitif tamsayı.
	Credit int
}

// DefaultCredit is used when the caller does not supply a credit weight.
const DefaultCredit = 1

// NewCourse creates a course with a canonicalized code.
// A non-positive credit is rejected; callers that want the default pass
// DefaultCredit explicitly.
func NewCourse(code, name string, credit int) (*Course, error) {
	code = CanonicalCode(code)
	if code == "" {
		return nil, shared.ErrInvalidCourseCode
	}
	if credit < 1 {
		return nil, shared.ErrInvalidCredit
	}

	return &Course{
		Code:   code,
		Name:   strings.TrimSpace(name),
		Credit: credit,
	}, nil
}

// String returns a representation for logging.
func (c *Course) String() string {
	return fmt.Sprintf("Course{Code: %s, Name: %s, Credit: %d}", c.Code, c.Name, c.Credit)
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE RECORD
// Bir öğrenci/ders çifti için en fazla üç isteğe bağlı puan. Alanların
// yokluğu "henüz girilmedi" demektir; sıfır puanı girilmiş bir değerdir.
// ══════════════════════════════════════════════════════════════════════════════

// GradeRecord holds up to three optional scores for one student/course pair.
// Average and letter grade are derived, never stored.
type GradeRecord struct {
	// CourseCode - ilgili dersin kodu (büyük harf).
	CourseCode string

	// Exam1, Exam2, Project - isteğe bağlı puanlar. nil = girilmedi.
	Exam1   *float64
	Exam2   *float64
	Project *float64
}

// ScoreUpdate carries the fields to overwrite in an upsert.
// nil fields leave the prior stored value untouched (partial update).
// Score values are not range-checked: the original system accepts any real
// number and we keep that behavior. The chat adapter maps its -1 sentinel to
// nil before the core ever sees it, so -1 is unrepresentable as a stored score.
type ScoreUpdate struct {
	Exam1   *float64
	Exam2   *float64
	Project *float64
}

// IsEmpty reports whether the update would change nothing.
func (u ScoreUpdate) IsEmpty() bool {
	return u.Exam1 == nil && u.Exam2 == nil && u.Project == nil
}

// Apply overwrites the record fields that the update explicitly supplies.
// Supplying only Exam1 must not erase a previously stored Exam2.
func (r *GradeRecord) Apply(u ScoreUpdate) {
	if u.Exam1 != nil {
		r.Exam1 = u.Exam1
	}
	if u.Exam2 != nil {
		r.Exam2 = u.Exam2
	}
	if u.Project != nil {
		r.Project = u.Project
	}
}

// Average returns the arithmetic mean of the scores that are present.
// The second return value is false when no score has been entered yet.
func (r *GradeRecord) Average() (float64, bool) {
	var sum float64
	var n int
	for _, v := range []*float64{r.Exam1, r.Exam2, r.Project} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Letter returns the letter grade derived from the average.
// The second return value is false when the average is undefined.
func (r *GradeRecord) Letter() (string, bool) {
	avg, ok := r.Average()
	if !ok {
		return "", false
	}
	return LetterGrade(avg), true
}

// Clone returns a deep copy of the record.
func (r *GradeRecord) Clone() *GradeRecord {
	if r == nil {
		return nil
	}
	clone := &GradeRecord{CourseCode: r.CourseCode}
	if r.Exam1 != nil {
		clone.Exam1 = Score(*r.Exam1)
	}
	if r.Exam2 != nil {
		clone.Exam2 = Score(*r.Exam2)
	}
	if r.Project != nil {
		clone.Project = Score(*r.Project)
	}
	return clone
}

// ══════════════════════════════════════════════════════════════════════════════
// LETTER GRADE
// ══════════════════════════════════════════════════════════════════════════════

// LetterGrade maps an average to its letter band. Thresholds are inclusive
// on the lower bound of each band; the function is total over the reals.
func LetterGrade(avg float64) string {
	switch {
	case avg >= 90:
		return "AA"
	case avg >= 85:
		return "BA"
	case avg >= 80:
		return "BB"
	case avg >= 70:
		return "CB"
	case avg >= 60:
		return "CC"
	case avg >= 50:
		return "DC"
	case avg >= 40:
		return "DD"
	default:
		return "FF"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - numara, ad ve sınıf etiketi olan bir öğrenci; ders başına bir
// not kaydı tutar. Kayıtlar ekleniş sırasına göre saklanır, böylece karne
// satırları deterministik sırada üretilir.
type Student struct {
	// ID - öğrenci numarası, dışarıdan atanır, mağaza içinde benzersizdir.
	ID string

	// Name - ad soyad.
	Name string

	// ClassName - sınıf etiketi (örn: "10-A"), serbest biçim.
	ClassName string

	// Grades - not kayıtları, ekleniş sırasında. Ders kodu başına en fazla
	// bir kayıt bulunur.
	Grades []*GradeRecord
}

// NewStudent creates a student with an empty grade list.
func NewStudent(id, name, className string) (*Student, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrInvalidStudentID
	}

	return &Student{
		ID:        id,
		Name:      strings.TrimSpace(name),
		ClassName: strings.TrimSpace(className),
		Grades:    make([]*GradeRecord, 0),
	}, nil
}

// Grade returns the record for the given course code, if any.
func (s *Student) Grade(courseCode string) (*GradeRecord, bool) {
	code := CanonicalCode(courseCode)
	for _, r := range s.Grades {
		if r.CourseCode == code {
			return r, true
		}
	}
	return nil, false
}

// RecordGrades applies a partial score update to the record for courseCode,
// creating an empty record first if none exists. A newly created record is
// appended, preserving insertion order. The updated record is returned.
func (s *Student) RecordGrades(courseCode string, update ScoreUpdate) *GradeRecord {
	code := CanonicalCode(courseCode)
	record, ok := s.Grade(code)
	if !ok {
		record = &GradeRecord{CourseCode: code}
		s.Grades = append(s.Grades, record)
	}
	record.Apply(update)
	return record
}

// OverallAverage returns the mean of the per-course averages that are
// defined. False when no record has a defined average.
func (s *Student) OverallAverage() (float64, bool) {
	var sum float64
	var n int
	for _, r := range s.Grades {
		if avg, ok := r.Average(); ok {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Clone returns a deep copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := &Student{
		ID:        s.ID,
		Name:      s.Name,
		ClassName: s.ClassName,
		Grades:    make([]*GradeRecord, 0, len(s.Grades)),
	}
	for _, r := range s.Grades {
		clone.Grades = append(clone.Grades, r.Clone())
	}
	return clone
}

// String returns a representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Class: %s, Courses: %d}",
		s.ID, s.Name, s.ClassName, len(s.Grades))
}
