// Package jsonfile implements the gradebook store on top of a single JSON
// document. The whole graph of courses and students lives in one
// human-readable file that is rewritten after every mutation (write-through,
// no batching). The document round-trips byte-for-byte through save/load,
// including the insertion order of courses, students, and grade records -
// Go maps do not keep key order, so the objects are encoded with an
// order-preserving type instead.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
)

// ══════════════════════════════════════════════════════════════════════════════
// ORDER-PRESERVING JSON OBJECT
// ══════════════════════════════════════════════════════════════════════════════

// orderedObject is a JSON object that remembers key insertion order.
type orderedObject[T any] struct {
	keys   []string
	values map[string]T
}

// newOrderedObject creates an empty ordered object.
func newOrderedObject[T any]() *orderedObject[T] {
	return &orderedObject[T]{
		keys:   make([]string, 0),
		values: make(map[string]T),
	}
}

// Set stores a value under key, appending the key on first insert.
func (o *orderedObject[T]) Set(key string, value T) {
	if o.values == nil {
		o.values = make(map[string]T)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *orderedObject[T]) Get(key string) (T, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *orderedObject[T]) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Delete removes key and its value.
func (o *orderedObject[T]) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (o *orderedObject[T]) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *orderedObject[T]) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *orderedObject[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyData, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyData)
		buf.WriteByte(':')
		valueData, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueData)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, recording key order as encountered.
func (o *orderedObject[T]) UnmarshalJSON(data []byte) error {
	o.keys = make([]string, 0)
	o.values = make(map[string]T)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("jsonfile: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("jsonfile: expected object key, got %v", keyTok)
		}

		var value T
		if err := dec.Decode(&value); err != nil {
			return err
		}
		o.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT SHAPE
// Persisted representation: {"students": {...}, "courses": {...}}.
// Grade score fields are omitted entirely when not yet entered.
// ══════════════════════════════════════════════════════════════════════════════

// document is the full persisted gradebook.
type document struct {
	Students *orderedObject[*studentDoc] `json:"students"`
	Courses  *orderedObject[*courseDoc]  `json:"courses"`
}

// emptyDocument returns the document used when no file exists yet.
func emptyDocument() *document {
	return &document{
		Students: newOrderedObject[*studentDoc](),
		Courses:  newOrderedObject[*courseDoc](),
	}
}

// courseDoc is the persisted form of a course.
type courseDoc struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Credit int    `json:"credit"`
}

// studentDoc is the persisted form of a student.
type studentDoc struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	ClassName string                    `json:"className"`
	Grades    *orderedObject[*gradeDoc] `json:"grades"`
}

// gradeDoc is the persisted form of a grade record.
type gradeDoc struct {
	CourseCode string   `json:"courseCode"`
	Exam1      *float64 `json:"exam1,omitempty"`
	Exam2      *float64 `json:"exam2,omitempty"`
	Project    *float64 `json:"project,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN MAPPING
// ══════════════════════════════════════════════════════════════════════════════

func courseToDoc(c *gradebook.Course) *courseDoc {
	return &courseDoc{Code: c.Code, Name: c.Name, Credit: c.Credit}
}

func courseFromDoc(d *courseDoc) *gradebook.Course {
	return &gradebook.Course{Code: d.Code, Name: d.Name, Credit: d.Credit}
}

func gradeToDoc(r *gradebook.GradeRecord) *gradeDoc {
	return &gradeDoc{
		CourseCode: r.CourseCode,
		Exam1:      copyScore(r.Exam1),
		Exam2:      copyScore(r.Exam2),
		Project:    copyScore(r.Project),
	}
}

func gradeFromDoc(d *gradeDoc) *gradebook.GradeRecord {
	return &gradebook.GradeRecord{
		CourseCode: d.CourseCode,
		Exam1:      copyScore(d.Exam1),
		Exam2:      copyScore(d.Exam2),
		Project:    copyScore(d.Project),
	}
}

func studentToDoc(s *gradebook.Student) *studentDoc {
	doc := &studentDoc{
		ID:        s.ID,
		Name:      s.Name,
		ClassName: s.ClassName,
		Grades:    newOrderedObject[*gradeDoc](),
	}
	for _, r := range s.Grades {
		doc.Grades.Set(r.CourseCode, gradeToDoc(r))
	}
	return doc
}

func studentFromDoc(d *studentDoc) *gradebook.Student {
	s := &gradebook.Student{
		ID:        d.ID,
		Name:      d.Name,
		ClassName: d.ClassName,
		Grades:    make([]*gradebook.GradeRecord, 0),
	}
	if d.Grades != nil {
		for _, code := range d.Grades.Keys() {
			if g, ok := d.Grades.Get(code); ok {
				s.Grades = append(s.Grades, gradeFromDoc(g))
			}
		}
	}
	return s
}

func copyScore(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// normalize fills nil inner objects left behind by hand-edited documents.
func (d *document) normalize() {
	if d.Students == nil {
		d.Students = newOrderedObject[*studentDoc]()
	}
	if d.Courses == nil {
		d.Courses = newOrderedObject[*courseDoc]()
	}
	for _, id := range d.Students.Keys() {
		if s, ok := d.Students.Get(id); ok && s.Grades == nil {
			s.Grades = newOrderedObject[*gradeDoc]()
		}
	}
}
