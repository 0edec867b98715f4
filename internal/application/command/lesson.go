package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/lesson"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSONS
// Lessons are addressed by their 1-based position inside a class.
// ══════════════════════════════════════════════════════════════════════════════

// AddLesson appends a lesson to the class at ClassIndex.
type AddLesson struct {
	ClassIndex int
	Schedule   lesson.Schedule
}

// Execute creates the lesson and commits.
func (c AddLesson) Execute(_ context.Context, m *model.Model) (Result, error) {
	class, err := classAt(m, c.ClassIndex)
	if err != nil {
		return Result{}, fmt.Errorf("add_lesson: %w", err)
	}
	l, err := lesson.New(c.Schedule)
	if err != nil {
		return Result{}, fmt.Errorf("add_lesson: %w", err)
	}
	edited, err := class.AddLesson(l)
	if err != nil {
		return Result{}, fmt.Errorf("add_lesson: %w", err)
	}
	if err := m.Roster().SetModuleClass(class, edited); err != nil {
		return Result{}, fmt.Errorf("add_lesson: %w", err)
	}
	return commit(m, fmt.Sprintf("New lesson added to %s: %s", class.Name(), l)), nil
}

// LessonEdit holds optional schedule replacements. nil means "keep".
type LessonEdit struct {
	Day         *time.Weekday
	Start       *lesson.Clock
	End         *lesson.Clock
	Venue       *string
	Occurrences *int
}

// IsEmpty reports whether no field is set.
func (e LessonEdit) IsEmpty() bool {
	return e.Day == nil && e.Start == nil && e.End == nil && e.Venue == nil && e.Occurrences == nil
}

// Apply returns s with the set fields replaced.
func (e LessonEdit) Apply(s lesson.Schedule) lesson.Schedule {
	if e.Day != nil {
		s.Day = *e.Day
	}
	if e.Start != nil {
		s.Start = *e.Start
	}
	if e.End != nil {
		s.End = *e.End
	}
	if e.Venue != nil {
		s.Venue = *e.Venue
	}
	if e.Occurrences != nil {
		s.Occurrences = *e.Occurrences
	}
	return s
}

// EditLesson changes the schedule of a lesson. Changing the number of
// occurrences drops the attendance of removed weeks.
type EditLesson struct {
	ClassIndex  int
	LessonIndex int
	Edit        LessonEdit
}

// Execute replaces the lesson and commits.
func (c EditLesson) Execute(_ context.Context, m *model.Model) (Result, error) {
	if c.Edit.IsEmpty() {
		return Result{}, fmt.Errorf("edit_lesson: %w", ErrNothingToEdit)
	}
	class, err := classAt(m, c.ClassIndex)
	if err != nil {
		return Result{}, fmt.Errorf("edit_lesson: %w", err)
	}
	target, err := lessonAt(class, c.LessonIndex)
	if err != nil {
		return Result{}, fmt.Errorf("edit_lesson: %w", err)
	}
	edited, err := target.WithSchedule(c.Edit.Apply(target.Schedule()))
	if err != nil {
		return Result{}, fmt.Errorf("edit_lesson: %w", err)
	}
	next, err := class.SetLesson(c.LessonIndex-1, edited)
	if err != nil {
		return Result{}, fmt.Errorf("edit_lesson: %w", err)
	}
	if err := m.Roster().SetModuleClass(class, next); err != nil {
		return Result{}, fmt.Errorf("edit_lesson: %w", err)
	}
	return commit(m, fmt.Sprintf("Edited lesson in %s: %s", class.Name(), edited)), nil
}

// DeleteLesson removes a lesson and its attendance.
type DeleteLesson struct {
	ClassIndex  int
	LessonIndex int
}

// Execute deletes the lesson and commits.
func (c DeleteLesson) Execute(_ context.Context, m *model.Model) (Result, error) {
	class, err := classAt(m, c.ClassIndex)
	if err != nil {
		return Result{}, fmt.Errorf("delete_lesson: %w", err)
	}
	target, err := lessonAt(class, c.LessonIndex)
	if err != nil {
		return Result{}, fmt.Errorf("delete_lesson: %w", err)
	}
	next, err := class.DeleteLesson(c.LessonIndex - 1)
	if err != nil {
		return Result{}, fmt.Errorf("delete_lesson: %w", err)
	}
	if err := m.Roster().SetModuleClass(class, next); err != nil {
		return Result{}, fmt.Errorf("delete_lesson: %w", err)
	}
	return commit(m, fmt.Sprintf("Deleted lesson from %s: %s", class.Name(), target)), nil
}
