package command

import (
	"context"
	"fmt"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceTarget addresses one student in one week of one lesson.
type AttendanceTarget struct {
	ClassIndex   int
	LessonIndex  int
	StudentIndex int
	Week         int
}

type attendanceSlot struct {
	class   moduleclass.ModuleClass
	lesson  lesson.Lesson
	student student.Student
	week    shared.Week
}

func (t AttendanceTarget) resolve(m *model.Model) (attendanceSlot, error) {
	class, err := classAt(m, t.ClassIndex)
	if err != nil {
		return attendanceSlot{}, err
	}
	l, err := lessonAt(class, t.LessonIndex)
	if err != nil {
		return attendanceSlot{}, err
	}
	s, err := studentAt(m, t.StudentIndex)
	if err != nil {
		return attendanceSlot{}, err
	}
	if !class.HasStudent(s.ID) {
		return attendanceSlot{}, shared.ErrStudentNotEnrolled
	}
	return attendanceSlot{class: class, lesson: l, student: s, week: shared.Week(t.Week)}, nil
}

// save installs the edited lesson and commits.
func (slot attendanceSlot) save(m *model.Model, lessonIndex int, edited lesson.Lesson, feedback string) (Result, error) {
	next, err := slot.class.SetLesson(lessonIndex-1, edited)
	if err != nil {
		return Result{}, err
	}
	if err := m.Roster().SetModuleClass(slot.class, next); err != nil {
		return Result{}, err
	}
	return commit(m, feedback), nil
}

// AddAttendance records a score for a student who has none that week.
type AddAttendance struct {
	AttendanceTarget
	Score int
}

// Execute records the score and commits.
func (c AddAttendance) Execute(_ context.Context, m *model.Model) (Result, error) {
	score, err := shared.NewAttendance(c.Score)
	if err != nil {
		return Result{}, fmt.Errorf("add_attendance: %w", err)
	}
	slot, err := c.resolve(m)
	if err != nil {
		return Result{}, fmt.Errorf("add_attendance: %w", err)
	}
	edited, err := slot.lesson.AddAttendance(slot.student.ID, slot.week, score)
	if err != nil {
		return Result{}, fmt.Errorf("add_attendance: %w", err)
	}
	res, err := slot.save(m, c.LessonIndex, edited, fmt.Sprintf("Attendance added for %s in %s week %d: %d",
		slot.student.Name, slot.class.Name(), slot.week, score))
	if err != nil {
		return Result{}, fmt.Errorf("add_attendance: %w", err)
	}
	return res, nil
}

// EditAttendance replaces an existing score.
type EditAttendance struct {
	AttendanceTarget
	Score int
}

// Execute replaces the score and commits.
func (c EditAttendance) Execute(_ context.Context, m *model.Model) (Result, error) {
	score, err := shared.NewAttendance(c.Score)
	if err != nil {
		return Result{}, fmt.Errorf("edit_attendance: %w", err)
	}
	slot, err := c.resolve(m)
	if err != nil {
		return Result{}, fmt.Errorf("edit_attendance: %w", err)
	}
	edited, err := slot.lesson.EditAttendance(slot.student.ID, slot.week, score)
	if err != nil {
		return Result{}, fmt.Errorf("edit_attendance: %w", err)
	}
	res, err := slot.save(m, c.LessonIndex, edited, fmt.Sprintf("Attendance edited for %s in %s week %d: %d",
		slot.student.Name, slot.class.Name(), slot.week, score))
	if err != nil {
		return Result{}, fmt.Errorf("edit_attendance: %w", err)
	}
	return res, nil
}

// DeleteAttendance removes an existing score.
type DeleteAttendance struct {
	AttendanceTarget
}

// Execute removes the score and commits.
func (c DeleteAttendance) Execute(_ context.Context, m *model.Model) (Result, error) {
	slot, err := c.resolve(m)
	if err != nil {
		return Result{}, fmt.Errorf("delete_attendance: %w", err)
	}
	edited, err := slot.lesson.DeleteAttendance(slot.student.ID, slot.week)
	if err != nil {
		return Result{}, fmt.Errorf("delete_attendance: %w", err)
	}
	res, err := slot.save(m, c.LessonIndex, edited, fmt.Sprintf("Attendance deleted for %s in %s week %d",
		slot.student.Name, slot.class.Name(), slot.week))
	if err != nil {
		return Result{}, fmt.Errorf("delete_attendance: %w", err)
	}
	return res, nil
}
