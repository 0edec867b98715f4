// Package roster contains the aggregate root of the application: the set of
// students and module classes, and the versioned wrapper that records its
// history.
package roster

import (
	"fmt"
	"strings"

	"github.com/tutorspet/tutorspet/internal/domain/collection"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// ReadOnlyRoster is the read side of a roster. Both methods return copies.
type ReadOnlyRoster interface {
	Students() []student.Student
	ModuleClasses() []moduleclass.ModuleClass
}

// Roster owns the student and module class collections and keeps every
// student reference inside the classes pointing at an existing student.
// Each operation either applies fully or returns an error and leaves the
// roster untouched.
type Roster struct {
	students *collection.UniqueList[student.Student]
	classes  *collection.UniqueList[moduleclass.ModuleClass]
}

// New returns an empty roster.
func New() *Roster {
	return &Roster{
		students: collection.NewUniqueList[student.Student](shared.ErrDuplicateStudent, shared.ErrStudentNotFound),
		classes:  collection.NewUniqueList[moduleclass.ModuleClass](shared.ErrDuplicateModuleClass, shared.ErrModuleClassNotFound),
	}
}

// NewFrom returns a roster holding a copy of data.
func NewFrom(data ReadOnlyRoster) (*Roster, error) {
	r := New()
	if err := r.ResetData(data); err != nil {
		return nil, err
	}
	return r, nil
}

// ResetData replaces both collections with copies of data's. Nothing is
// applied when data holds duplicates or dangling student references.
func (r *Roster) ResetData(data ReadOnlyRoster) error {
	students := cloneStudents(data.Students())
	classes := data.ModuleClasses()

	if !collection.Unique(students) {
		return shared.ErrDuplicateStudent
	}
	if !collection.Unique(classes) {
		return shared.ErrDuplicateModuleClass
	}

	known := make(map[shared.StudentID]struct{}, len(students))
	for _, s := range students {
		if _, ok := known[s.ID]; ok {
			return shared.ErrDuplicateStudent
		}
		known[s.ID] = struct{}{}
	}
	for _, c := range classes {
		if err := checkModuleClass(c, known); err != nil {
			return err
		}
	}

	// Both lists were validated above, so neither ReplaceAll can fail.
	_ = r.students.ReplaceAll(students)
	_ = r.classes.ReplaceAll(classes)
	return nil
}

// Students returns the students in insertion order.
func (r *Roster) Students() []student.Student {
	return cloneStudents(r.students.Items())
}

// ModuleClasses returns the module classes in insertion order.
func (r *Roster) ModuleClasses() []moduleclass.ModuleClass {
	return r.classes.Items()
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// HasStudent reports whether a student IsSame as s is in the roster.
func (r *Roster) HasStudent(s student.Student) bool {
	return r.students.Contains(s)
}

// StudentByID returns the student with the given ID.
func (r *Roster) StudentByID(id shared.StudentID) (student.Student, error) {
	s, ok := r.students.Find(func(s student.Student) bool { return s.ID == id })
	if !ok {
		return student.Student{}, shared.ErrStudentNotFound
	}
	return s.Clone(), nil
}

// AddStudent appends s.
func (r *Roster) AddStudent(s student.Student) error {
	if s.ID.IsNil() {
		return shared.ErrInvalidStudentID
	}
	if _, err := r.StudentByID(s.ID); err == nil {
		return shared.ErrDuplicateStudent
	}
	return r.students.Add(s.Clone())
}

// SetStudent replaces target with edited in place. The edited student must
// keep the target's ID so class references stay valid.
func (r *Roster) SetStudent(target, edited student.Student) error {
	if target.ID != edited.ID {
		return shared.ErrInvalidStudentID
	}
	return r.students.Set(target, edited.Clone())
}

// DeleteStudent removes s and every reference to it: its attendance entries
// in every lesson and its enrolment in every class.
func (r *Roster) DeleteStudent(s student.Student) error {
	if _, ok := r.students.Find(s.Equal); !ok {
		return shared.ErrStudentNotFound
	}

	current := r.classes.Items()
	classes := make([]moduleclass.ModuleClass, len(current))
	for i, c := range current {
		classes[i] = c.WithoutStudent(s.ID)
	}

	_ = r.classes.ReplaceAll(classes)
	return r.students.Remove(s)
}

// DeleteAllStudents removes every student. Classes remain with nobody
// enrolled and all attendance cleared.
func (r *Roster) DeleteAllStudents() {
	current := r.classes.Items()
	classes := make([]moduleclass.ModuleClass, len(current))
	for i, c := range current {
		classes[i] = c.WithoutAnyStudent()
	}

	_ = r.classes.ReplaceAll(classes)
	_ = r.students.ReplaceAll(nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Module classes
// ─────────────────────────────────────────────────────────────────────────────

// HasModuleClass reports whether a class with c's name is in the roster.
func (r *Roster) HasModuleClass(c moduleclass.ModuleClass) bool {
	return r.classes.Contains(c)
}

// ModuleClassByName returns the class with the given name.
func (r *Roster) ModuleClassByName(name string) (moduleclass.ModuleClass, error) {
	name = strings.TrimSpace(name)
	c, ok := r.classes.Find(func(c moduleclass.ModuleClass) bool { return c.Name() == name })
	if !ok {
		return moduleclass.ModuleClass{}, shared.ErrModuleClassNotFound
	}
	return c, nil
}

// AddModuleClass appends c. Every student c refers to must exist.
func (r *Roster) AddModuleClass(c moduleclass.ModuleClass) error {
	if err := checkModuleClass(c, r.studentIDs()); err != nil {
		return err
	}
	return r.classes.Add(c.Clone())
}

// SetModuleClass replaces target with edited in place.
func (r *Roster) SetModuleClass(target, edited moduleclass.ModuleClass) error {
	if err := checkModuleClass(edited, r.studentIDs()); err != nil {
		return err
	}
	return r.classes.Set(target, edited.Clone())
}

// DeleteModuleClass removes c. Students are not affected.
func (r *Roster) DeleteModuleClass(c moduleclass.ModuleClass) error {
	return r.classes.Remove(c)
}

// DeleteAllModuleClasses removes every class.
func (r *Roster) DeleteAllModuleClasses() {
	_ = r.classes.ReplaceAll(nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Copying and comparison
// ─────────────────────────────────────────────────────────────────────────────

// Clone returns a deep copy sharing nothing with r.
func (r *Roster) Clone() *Roster {
	next := New()
	_ = next.students.ReplaceAll(cloneStudents(r.students.Items()))

	classes := r.classes.Items()
	for i, c := range classes {
		classes[i] = c.Clone()
	}
	_ = next.classes.ReplaceAll(classes)
	return next
}

// Equal reports whether other holds Equal students and classes in the same order.
func (r *Roster) Equal(other ReadOnlyRoster) bool {
	if other == nil {
		return false
	}
	students, otherStudents := r.students.Items(), other.Students()
	if len(students) != len(otherStudents) {
		return false
	}
	for i := range students {
		if !students[i].Equal(otherStudents[i]) {
			return false
		}
	}

	classes, otherClasses := r.classes.Items(), other.ModuleClasses()
	if len(classes) != len(otherClasses) {
		return false
	}
	for i := range classes {
		if !classes[i].Equal(otherClasses[i]) {
			return false
		}
	}
	return true
}

func (r *Roster) studentIDs() map[shared.StudentID]struct{} {
	items := r.students.Items()
	ids := make(map[shared.StudentID]struct{}, len(items))
	for _, s := range items {
		ids[s.ID] = struct{}{}
	}
	return ids
}

// checkModuleClass rejects classes that refer to unknown students or carry
// out-of-range scores.
func checkModuleClass(c moduleclass.ModuleClass, known map[shared.StudentID]struct{}) error {
	for i, l := range c.Lessons() {
		if err := l.Attendance().CheckScores(); err != nil {
			return fmt.Errorf("%s lesson %d: %w", c.Name(), i+1, err)
		}
	}
	for _, id := range c.ReferencedStudentIDs() {
		if _, ok := known[id]; !ok {
			return shared.WrapError("moduleclass", "CheckReferences", shared.ErrValidation,
				"unknown student "+id.String()+" in "+c.Name(), shared.ErrUnknownStudentRef)
		}
	}
	return nil
}

func cloneStudents(in []student.Student) []student.Student {
	out := make([]student.Student, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
