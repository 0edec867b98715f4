package command

import (
	"context"
	"fmt"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/student"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// AddStudent adds a new student to the roster.
type AddStudent struct {
	Params student.NewStudentParams
}

// Execute creates the student and commits.
func (c AddStudent) Execute(_ context.Context, m *model.Model) (Result, error) {
	s, err := student.NewStudent(c.Params)
	if err != nil {
		return Result{}, fmt.Errorf("add_student: %w", err)
	}
	if err := m.Roster().AddStudent(s); err != nil {
		return Result{}, fmt.Errorf("add_student: %w", err)
	}
	return commit(m, fmt.Sprintf("New student added: %s", s)), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EDIT STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// StudentEdit holds optional replacements. nil means "keep".
type StudentEdit struct {
	Name  *string
	Phone *string
	Email *string
	Tags  *[]string
}

// IsEmpty reports whether no field is set.
func (e StudentEdit) IsEmpty() bool {
	return e.Name == nil && e.Phone == nil && e.Email == nil && e.Tags == nil
}

// EditStudent replaces the student at Index in the displayed list.
type EditStudent struct {
	Index int
	Edit  StudentEdit
}

// Validate checks that something is being edited.
func (c EditStudent) Validate() error {
	if c.Edit.IsEmpty() {
		return ErrNothingToEdit
	}
	return nil
}

// Execute builds the edited student with the same ID and commits.
func (c EditStudent) Execute(_ context.Context, m *model.Model) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, fmt.Errorf("edit_student: %w", err)
	}
	target, err := studentAt(m, c.Index)
	if err != nil {
		return Result{}, fmt.Errorf("edit_student: %w", err)
	}

	params := target.Params()
	if c.Edit.Name != nil {
		params.Name = *c.Edit.Name
	}
	if c.Edit.Phone != nil {
		params.Phone = *c.Edit.Phone
	}
	if c.Edit.Email != nil {
		params.Email = *c.Edit.Email
	}
	if c.Edit.Tags != nil {
		params.Tags = *c.Edit.Tags
	}

	edited, err := student.Restore(target.ID, params)
	if err != nil {
		return Result{}, fmt.Errorf("edit_student: %w", err)
	}
	if err := m.Roster().SetStudent(target, edited); err != nil {
		return Result{}, fmt.Errorf("edit_student: %w", err)
	}
	return commit(m, fmt.Sprintf("Edited student: %s", edited)), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudent removes the student at Index together with every enrolment
// and attendance entry that refers to it.
type DeleteStudent struct {
	Index int
}

// Execute deletes the student and commits.
func (c DeleteStudent) Execute(ctx context.Context, m *model.Model) (Result, error) {
	target, err := studentAt(m, c.Index)
	if err != nil {
		return Result{}, fmt.Errorf("delete_student: %w", err)
	}
	enrolled := 0
	for _, class := range m.Roster().ModuleClasses() {
		if class.HasStudent(target.ID) {
			enrolled++
		}
	}
	if err := m.Roster().DeleteStudent(target); err != nil {
		return Result{}, fmt.Errorf("delete_student: %w", err)
	}
	logger.FromContext(ctx).Debug("student deleted",
		logger.StudentID(target.ID.String()),
		logger.Int("classes_cascaded", enrolled),
	)
	return commit(m, fmt.Sprintf("Deleted student: %s", target)), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLEAR STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// ClearStudents removes every student. Module classes are kept.
type ClearStudents struct{}

// Execute deletes all students and commits.
func (ClearStudents) Execute(ctx context.Context, m *model.Model) (Result, error) {
	n := len(m.Roster().Students())
	m.Roster().DeleteAllStudents()
	logger.FromContext(ctx).Debug("all students deleted", logger.Int("students", n))
	return commit(m, "All students have been deleted"), nil
}
