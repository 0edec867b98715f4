package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

func newStudent(t *testing.T, name, phone, email string) student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{Name: name, Phone: phone, Email: email})
	require.NoError(t, err)
	return s
}

func newClass(t *testing.T, name string, ids []shared.StudentID, lessons ...lesson.Lesson) moduleclass.ModuleClass {
	t.Helper()
	c, err := moduleclass.New(name, ids, lessons)
	require.NoError(t, err)
	return c
}

func newLesson(t *testing.T, occurrences int) lesson.Lesson {
	t.Helper()
	l, err := lesson.New(lesson.Schedule{
		Day:         time.Wednesday,
		Start:       lesson.Clock(14 * 60),
		End:         lesson.Clock(16 * 60),
		Venue:       "COM1-0210",
		Occurrences: occurrences,
	})
	require.NoError(t, err)
	return l
}

// populated returns a roster where alice and bob are enrolled in CS101 and
// both have attendance recorded.
func populated(t *testing.T) (*Roster, student.Student, student.Student) {
	t.Helper()
	alice := newStudent(t, "Alice", "94351253", "alice@example.com")
	bob := newStudent(t, "Bob", "98765432", "bob@example.com")

	l := newLesson(t, 3)
	var err error
	l, err = l.AddAttendance(alice.ID, 1, shared.MustAttendance(80))
	require.NoError(t, err)
	l, err = l.AddAttendance(bob.ID, 1, shared.MustAttendance(60))
	require.NoError(t, err)
	l, err = l.AddAttendance(alice.ID, 3, shared.MustAttendance(90))
	require.NoError(t, err)

	r := New()
	require.NoError(t, r.AddStudent(alice))
	require.NoError(t, r.AddStudent(bob))
	require.NoError(t, r.AddModuleClass(newClass(t, "CS101", []shared.StudentID{alice.ID, bob.ID}, l)))
	require.NoError(t, r.AddModuleClass(newClass(t, "CS102", []shared.StudentID{alice.ID})))
	return r, alice, bob
}

type rawData struct {
	students []student.Student
	classes  []moduleclass.ModuleClass
}

func (d rawData) Students() []student.Student             { return d.students }
func (d rawData) ModuleClasses() []moduleclass.ModuleClass { return d.classes }

func TestRoster_AddStudentRejectsDuplicates(t *testing.T) {
	r := New()
	alice := newStudent(t, "Alice", "94351253", "alice@example.com")
	require.NoError(t, r.AddStudent(alice))

	sameContact := newStudent(t, "Alice", "11111111", "alice@example.com")
	assert.True(t, r.HasStudent(sameContact))
	assert.ErrorIs(t, r.AddStudent(sameContact), shared.ErrDuplicateStudent)

	other := newStudent(t, "Alice", "11111111", "other@example.com")
	require.NoError(t, r.AddStudent(other))
	assert.Len(t, r.Students(), 2)
}

func TestRoster_SetStudent(t *testing.T) {
	r, alice, bob := populated(t)

	p := alice.Params()
	p.Phone = "81234567"
	edited, err := student.Restore(alice.ID, p)
	require.NoError(t, err)
	require.NoError(t, r.SetStudent(alice, edited))
	assert.Equal(t, "81234567", r.Students()[0].Phone)

	// Editing into a clash with another student is rejected.
	clash, err := student.Restore(edited.ID, bob.Params())
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetStudent(edited, clash), shared.ErrDuplicateStudent)

	// The stale version is no longer in the roster.
	assert.ErrorIs(t, r.SetStudent(alice, edited), shared.ErrStudentNotFound)
}

func TestRoster_DeleteStudentCascades(t *testing.T) {
	r, alice, bob := populated(t)

	require.NoError(t, r.DeleteStudent(alice))

	assert.Len(t, r.Students(), 1)
	for _, c := range r.ModuleClasses() {
		assert.False(t, c.HasStudent(alice.ID), c.Name())
		assert.NotContains(t, c.ReferencedStudentIDs(), alice.ID, c.Name())
	}

	cs101, err := r.ModuleClassByName("CS101")
	require.NoError(t, err)
	assert.True(t, cs101.HasStudent(bob.ID))
	l, err := cs101.Lesson(0)
	require.NoError(t, err)
	score, err := l.GetAttendance(bob.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(60), score)
	assert.Equal(t, 3, l.Attendance().Len())

	assert.ErrorIs(t, r.DeleteStudent(alice), shared.ErrStudentNotFound)
}

func TestRoster_DeleteAllStudentsKeepsClasses(t *testing.T) {
	r, _, _ := populated(t)

	r.DeleteAllStudents()

	assert.Empty(t, r.Students())
	classes := r.ModuleClasses()
	require.Len(t, classes, 2)
	for _, c := range classes {
		assert.Zero(t, c.StudentCount())
		assert.Empty(t, c.ReferencedStudentIDs())
	}
}

func TestRoster_ModuleClassReferencesMustExist(t *testing.T) {
	r := New()
	stranger := shared.NewStudentID()

	err := r.AddModuleClass(newClass(t, "CS101", []shared.StudentID{stranger}))
	assert.ErrorIs(t, err, shared.ErrUnknownStudentRef)
	assert.True(t, shared.IsValidation(err))
	assert.Empty(t, r.ModuleClasses())
}

func TestRoster_RejectsOutOfRangeScores(t *testing.T) {
	r, alice, _ := populated(t)
	before := r.Clone()

	schedule := newLesson(t, 2).Schedule()
	scores := lesson.AttendanceRecordListOf(
		lesson.AttendanceRecordOf(map[shared.StudentID]shared.Attendance{alice.ID: 250}),
		lesson.NewAttendanceRecord(),
	)
	l, err := lesson.NewWithAttendance(schedule, scores)
	require.NoError(t, err)
	bad := newClass(t, "CS200", []shared.StudentID{alice.ID}, l)

	assert.ErrorIs(t, r.AddModuleClass(bad), shared.ErrInvalidAttendance)

	cs102, err := r.ModuleClassByName("CS102")
	require.NoError(t, err)
	renamed, err := bad.WithName("CS102")
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetModuleClass(cs102, renamed), shared.ErrInvalidAttendance)

	assert.ErrorIs(t, r.ResetData(rawData{students: r.Students(), classes: []moduleclass.ModuleClass{bad}}), shared.ErrInvalidAttendance)
	assert.True(t, r.Equal(before))
}

func TestRoster_ModuleClassCRUD(t *testing.T) {
	r, alice, _ := populated(t)

	assert.ErrorIs(t, r.AddModuleClass(newClass(t, "CS101", nil)), shared.ErrDuplicateModuleClass)

	cs102, err := r.ModuleClassByName("CS102")
	require.NoError(t, err)
	renamed, err := cs102.WithName("CS101")
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetModuleClass(cs102, renamed), shared.ErrDuplicateModuleClass)

	require.NoError(t, r.DeleteModuleClass(cs102))
	_, err = r.ModuleClassByName("CS102")
	assert.ErrorIs(t, err, shared.ErrModuleClassNotFound)

	// Deleting a class leaves students alone.
	_, err = r.StudentByID(alice.ID)
	assert.NoError(t, err)

	r.DeleteAllModuleClasses()
	assert.Empty(t, r.ModuleClasses())
	assert.Len(t, r.Students(), 2)
}

func TestRoster_ResetDataIsAtomic(t *testing.T) {
	r, _, _ := populated(t)
	before := r.Clone()

	carol := newStudent(t, "Carol", "123", "carol@example.com")
	twin := newStudent(t, "Carol", "123", "other@example.com")
	bad := rawData{students: []student.Student{carol, twin}}

	assert.ErrorIs(t, r.ResetData(bad), shared.ErrDuplicateStudent)
	assert.True(t, r.Equal(before))

	dangling := rawData{classes: []moduleclass.ModuleClass{
		newClass(t, "CS999", []shared.StudentID{shared.NewStudentID()}),
	}}
	assert.ErrorIs(t, r.ResetData(dangling), shared.ErrUnknownStudentRef)
	assert.True(t, r.Equal(before))
}

func TestRoster_CloneIsIndependent(t *testing.T) {
	r, alice, _ := populated(t)
	c := r.Clone()
	require.True(t, r.Equal(c))

	require.NoError(t, c.DeleteStudent(alice))
	assert.False(t, r.Equal(c))
	_, err := r.StudentByID(alice.ID)
	assert.NoError(t, err)

	students := r.Students()
	students[0].Name = "Mallory"
	assert.Equal(t, "Alice", r.Students()[0].Name)
}
