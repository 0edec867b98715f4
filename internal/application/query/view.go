package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW CLASS
// ══════════════════════════════════════════════════════════════════════════════

// ViewModuleClass narrows the student list to one class and describes its lessons.
type ViewModuleClass struct {
	Index int
}

// Execute filters students by enrolment.
func (q ViewModuleClass) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	class, err := classAt(m, q.Index)
	if err != nil {
		return command.Result{}, fmt.Errorf("view_class: %w", err)
	}
	m.UpdateStudentFilter(m.EnrolledIn(class.Name()))

	var b strings.Builder
	fmt.Fprintf(&b, "Viewing %s: %d students enrolled", class.Name(), class.StudentCount())
	for i, l := range class.Lessons() {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, l)
	}
	return command.Result{Feedback: b.String()}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// ViewAttendance prints the attendance of one lesson week by week.
type ViewAttendance struct {
	ClassIndex  int
	LessonIndex int
}

// Execute renders the attendance table.
func (q ViewAttendance) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	class, err := classAt(m, q.ClassIndex)
	if err != nil {
		return command.Result{}, fmt.Errorf("view_attendance: %w", err)
	}
	if q.LessonIndex < 1 || q.LessonIndex > class.LessonCount() {
		return command.Result{}, fmt.Errorf("view_attendance: %w", command.ErrInvalidLessonIndex)
	}
	l, err := class.Lesson(q.LessonIndex - 1)
	if err != nil {
		return command.Result{}, fmt.Errorf("view_attendance: %w", err)
	}

	names := make(map[shared.StudentID]string)
	for _, s := range m.Roster().Students() {
		names[s.ID] = s.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Attendance for %s, %s", class.Name(), l)
	for i, record := range l.Attendance().Records() {
		fmt.Fprintf(&b, "\n  Week %d:", i+1)
		if record.IsEmpty() {
			b.WriteString(" -")
			continue
		}
		for _, id := range record.StudentIDs() {
			score, _ := record.Get(id)
			fmt.Fprintf(&b, " %s=%d", names[id], score)
		}
	}
	return command.Result{Feedback: b.String()}, nil
}

func classAt(m *model.Model, index int) (moduleclass.ModuleClass, error) {
	list := m.FilteredModuleClasses()
	if index < 1 || index > len(list) {
		return moduleclass.ModuleClass{}, command.ErrInvalidClassIndex
	}
	return list[index-1], nil
}
