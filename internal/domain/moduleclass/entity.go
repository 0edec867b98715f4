// Package moduleclass contains the module class aggregate: a named class with
// its enrolled students and its ordered lessons.
package moduleclass

import (
	"bytes"
	"sort"
	"strings"

	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ModuleClass is identified by its name alone. It is a value: the With*
// methods return a new class and leave the receiver untouched.
type ModuleClass struct {
	name       string
	studentIDs map[shared.StudentID]struct{}
	lessons    []lesson.Lesson
}

// New creates a module class. Lessons keep their order; two lessons in the
// same slot are rejected.
func New(name string, studentIDs []shared.StudentID, lessons []lesson.Lesson) (ModuleClass, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModuleClass{}, shared.ErrInvalidClassName
	}
	if err := checkDistinctLessons(lessons); err != nil {
		return ModuleClass{}, err
	}

	ids := make(map[shared.StudentID]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if id.IsNil() {
			return ModuleClass{}, shared.ErrInvalidStudentID
		}
		ids[id] = struct{}{}
	}

	return ModuleClass{
		name:       name,
		studentIDs: ids,
		lessons:    cloneLessons(lessons),
	}, nil
}

// Name returns the class name.
func (c ModuleClass) Name() string { return c.name }

// StudentIDs returns the enrolled students in a stable order.
func (c ModuleClass) StudentIDs() []shared.StudentID {
	ids := make([]shared.StudentID, 0, len(c.studentIDs))
	for id := range c.studentIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// HasStudent reports whether the student is enrolled.
func (c ModuleClass) HasStudent(id shared.StudentID) bool {
	_, ok := c.studentIDs[id]
	return ok
}

// StudentCount returns the number of enrolled students.
func (c ModuleClass) StudentCount() int { return len(c.studentIDs) }

// Lessons returns the lessons in order.
func (c ModuleClass) Lessons() []lesson.Lesson {
	return append([]lesson.Lesson(nil), c.lessons...)
}

// LessonCount returns the number of lessons.
func (c ModuleClass) LessonCount() int { return len(c.lessons) }

// Lesson returns the lesson at a 0-based index.
func (c ModuleClass) Lesson(index int) (lesson.Lesson, error) {
	if index < 0 || index >= len(c.lessons) {
		return lesson.Lesson{}, shared.ErrLessonNotFound
	}
	return c.lessons[index], nil
}

// ReferencedStudentIDs returns every student ID the class refers to, from the
// enrolment set and from attendance records.
func (c ModuleClass) ReferencedStudentIDs() []shared.StudentID {
	seen := make(map[shared.StudentID]struct{}, len(c.studentIDs))
	for id := range c.studentIDs {
		seen[id] = struct{}{}
	}
	for _, l := range c.lessons {
		for _, id := range l.Attendance().StudentIDs() {
			seen[id] = struct{}{}
		}
	}
	out := make([]shared.StudentID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// IsSame reports whether both classes have the same name.
func (c ModuleClass) IsSame(other ModuleClass) bool {
	return c.name == other.name
}

// Equal reports whether name, enrolment and lessons all match.
func (c ModuleClass) Equal(other ModuleClass) bool {
	if c.name != other.name || len(c.studentIDs) != len(other.studentIDs) || len(c.lessons) != len(other.lessons) {
		return false
	}
	for id := range c.studentIDs {
		if _, ok := other.studentIDs[id]; !ok {
			return false
		}
	}
	for i := range c.lessons {
		if !c.lessons[i].Equal(other.lessons[i]) {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Copy-on-write edits
// ─────────────────────────────────────────────────────────────────────────────

// WithName returns the class renamed.
func (c ModuleClass) WithName(name string) (ModuleClass, error) {
	return New(name, c.StudentIDs(), c.lessons)
}

// WithStudent returns the class with the student enrolled.
func (c ModuleClass) WithStudent(id shared.StudentID) ModuleClass {
	next := c.Clone()
	next.studentIDs[id] = struct{}{}
	return next
}

// WithoutStudentID returns the class with the student removed from the
// enrolment set only. Lessons are left as they are.
func (c ModuleClass) WithoutStudentID(id shared.StudentID) ModuleClass {
	next := c.Clone()
	delete(next.studentIDs, id)
	return next
}

// WithoutStudent returns the class with the student unenrolled and every one
// of the student's attendance entries removed.
func (c ModuleClass) WithoutStudent(id shared.StudentID) ModuleClass {
	lessons := make([]lesson.Lesson, len(c.lessons))
	for i, l := range c.lessons {
		lessons[i] = l.WithoutStudent(id)
	}
	return c.WithoutStudentID(id).WithLessonList(lessons)
}

// WithoutAnyStudent returns the class with nobody enrolled and all attendance cleared.
func (c ModuleClass) WithoutAnyStudent() ModuleClass {
	lessons := make([]lesson.Lesson, len(c.lessons))
	for i, l := range c.lessons {
		lessons[i] = l.WithClearedAttendance()
	}
	return ModuleClass{
		name:       c.name,
		studentIDs: map[shared.StudentID]struct{}{},
		lessons:    lessons,
	}
}

// WithLessonList returns the class with its lessons replaced wholesale.
func (c ModuleClass) WithLessonList(lessons []lesson.Lesson) ModuleClass {
	next := c.Clone()
	next.lessons = cloneLessons(lessons)
	return next
}

// AddLesson returns the class with the lesson appended.
func (c ModuleClass) AddLesson(l lesson.Lesson) (ModuleClass, error) {
	for _, existing := range c.lessons {
		if existing.IsSame(l) {
			return c, shared.ErrDuplicateLesson
		}
	}
	lessons := append(c.Lessons(), l)
	return c.WithLessonList(lessons), nil
}

// SetLesson returns the class with the lesson at index replaced.
func (c ModuleClass) SetLesson(index int, l lesson.Lesson) (ModuleClass, error) {
	if index < 0 || index >= len(c.lessons) {
		return c, shared.ErrLessonNotFound
	}
	for i, existing := range c.lessons {
		if i != index && existing.IsSame(l) {
			return c, shared.ErrDuplicateLesson
		}
	}
	lessons := c.Lessons()
	lessons[index] = l
	return c.WithLessonList(lessons), nil
}

// DeleteLesson returns the class without the lesson at index.
func (c ModuleClass) DeleteLesson(index int) (ModuleClass, error) {
	if index < 0 || index >= len(c.lessons) {
		return c, shared.ErrLessonNotFound
	}
	lessons := c.Lessons()
	lessons = append(lessons[:index], lessons[index+1:]...)
	return c.WithLessonList(lessons), nil
}

// Clone returns an independently owned deep copy.
func (c ModuleClass) Clone() ModuleClass {
	ids := make(map[shared.StudentID]struct{}, len(c.studentIDs))
	for id := range c.studentIDs {
		ids[id] = struct{}{}
	}
	return ModuleClass{
		name:       c.name,
		studentIDs: ids,
		lessons:    cloneLessons(c.lessons),
	}
}

// String returns the class name.
func (c ModuleClass) String() string {
	return c.name
}

func cloneLessons(in []lesson.Lesson) []lesson.Lesson {
	out := make([]lesson.Lesson, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}

func checkDistinctLessons(lessons []lesson.Lesson) error {
	for i := range lessons {
		for j := i + 1; j < len(lessons); j++ {
			if lessons[i].IsSame(lessons[j]) {
				return shared.ErrDuplicateLesson
			}
		}
	}
	return nil
}
