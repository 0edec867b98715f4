package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

func TestModel_Filters(t *testing.T) {
	data := roster.New()
	alex, err := student.NewStudent(student.NewStudentParams{Name: "Alex Yeoh", Phone: "87438807", Email: "alexyeoh@example.com"})
	require.NoError(t, err)
	david, err := student.NewStudent(student.NewStudentParams{Name: "David Li", Phone: "91031282", Email: "lidavid@example.com"})
	require.NoError(t, err)
	require.NoError(t, data.AddStudent(alex))
	require.NoError(t, data.AddStudent(david))
	class, err := moduleclass.New("CS2103T", []shared.StudentID{david.ID}, nil)
	require.NoError(t, err)
	require.NoError(t, data.AddModuleClass(class))

	m := New(data, "")
	_, labels := m.Roster().History()
	assert.Equal(t, []string{roster.DefaultInitialLabel}, labels)
	assert.Len(t, m.FilteredStudents(), 2)

	m.UpdateStudentFilter(NameContainsKeywords([]string{"li", "nobody"}))
	require.Len(t, m.FilteredStudents(), 1)
	assert.Equal(t, "David Li", m.FilteredStudents()[0].Name)

	m.UpdateStudentFilter(m.EnrolledIn(class.Name()))
	require.Len(t, m.FilteredStudents(), 1)
	assert.Equal(t, david.ID, m.FilteredStudents()[0].ID)

	m.UpdateModuleClassFilter(ClassNameContainsKeywords([]string{"cs2101"}))
	assert.Empty(t, m.FilteredModuleClasses())

	m.UpdateStudentFilter(nil)
	m.UpdateModuleClassFilter(nil)
	assert.Len(t, m.FilteredStudents(), 2)
	assert.Len(t, m.FilteredModuleClasses(), 1)
}

func TestModel_ViewsFollowUndo(t *testing.T) {
	m := New(roster.New(), "loaded")
	s, err := student.NewStudent(student.NewStudentParams{Name: "Irfan Ibrahim", Phone: "92492021", Email: "irfan@example.com"})
	require.NoError(t, err)
	require.NoError(t, m.Roster().AddStudent(s))
	m.Roster().Commit("add irfan")
	assert.Len(t, m.FilteredStudents(), 1)

	_, err = m.Roster().Undo()
	require.NoError(t, err)
	assert.Empty(t, m.FilteredStudents())
}

func TestModel_EnrolledInFollowsWorkingCopy(t *testing.T) {
	data := roster.New()
	alice, err := student.NewStudent(student.NewStudentParams{Name: "Alice Pauline", Phone: "94351253", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NoError(t, data.AddStudent(alice))
	class, err := moduleclass.New("CS2103T", []shared.StudentID{alice.ID}, nil)
	require.NoError(t, err)
	require.NoError(t, data.AddModuleClass(class))

	m := New(data, "")
	m.UpdateStudentFilter(m.EnrolledIn("CS2103T"))
	require.Len(t, m.FilteredStudents(), 1)

	current, err := m.Roster().ModuleClassByName("CS2103T")
	require.NoError(t, err)
	require.NoError(t, m.Roster().SetModuleClass(current, current.WithoutStudent(alice.ID)))
	m.Roster().Commit("unenrol alice")
	assert.Empty(t, m.FilteredStudents(), "unenrolled students leave the view")

	_, err = m.Roster().Undo()
	require.NoError(t, err)
	assert.Len(t, m.FilteredStudents(), 1, "undo brings them back")

	current, err = m.Roster().ModuleClassByName("CS2103T")
	require.NoError(t, err)
	require.NoError(t, m.Roster().DeleteModuleClass(current))
	assert.Empty(t, m.FilteredStudents())
}
