package command

import (
	"context"
	"fmt"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODULE CLASS CRUD
// ══════════════════════════════════════════════════════════════════════════════

// AddModuleClass adds an empty module class.
type AddModuleClass struct {
	Name string
}

// Execute creates the class and commits.
func (c AddModuleClass) Execute(_ context.Context, m *model.Model) (Result, error) {
	class, err := moduleclass.New(c.Name, nil, nil)
	if err != nil {
		return Result{}, fmt.Errorf("add_class: %w", err)
	}
	if err := m.Roster().AddModuleClass(class); err != nil {
		return Result{}, fmt.Errorf("add_class: %w", err)
	}
	return commit(m, fmt.Sprintf("New module class added: %s", class)), nil
}

// EditModuleClass renames the class at Index. Enrolment and lessons are kept.
type EditModuleClass struct {
	Index int
	Name  string
}

// Execute renames the class and commits.
func (c EditModuleClass) Execute(_ context.Context, m *model.Model) (Result, error) {
	target, err := classAt(m, c.Index)
	if err != nil {
		return Result{}, fmt.Errorf("edit_class: %w", err)
	}
	edited, err := target.WithName(c.Name)
	if err != nil {
		return Result{}, fmt.Errorf("edit_class: %w", err)
	}
	if err := m.Roster().SetModuleClass(target, edited); err != nil {
		return Result{}, fmt.Errorf("edit_class: %w", err)
	}
	return commit(m, fmt.Sprintf("Edited module class: %s", edited)), nil
}

// DeleteModuleClass removes the class at Index. Students are not affected.
type DeleteModuleClass struct {
	Index int
}

// Execute deletes the class and commits.
func (c DeleteModuleClass) Execute(ctx context.Context, m *model.Model) (Result, error) {
	target, err := classAt(m, c.Index)
	if err != nil {
		return Result{}, fmt.Errorf("delete_class: %w", err)
	}
	if err := m.Roster().DeleteModuleClass(target); err != nil {
		return Result{}, fmt.Errorf("delete_class: %w", err)
	}
	logger.FromContext(ctx).Debug("module class deleted",
		logger.ClassName(target.Name()),
		logger.Int("lessons", target.LessonCount()),
	)
	return commit(m, fmt.Sprintf("Deleted module class: %s", target)), nil
}

// ClearModuleClasses removes every module class.
type ClearModuleClasses struct{}

// Execute deletes all classes and commits.
func (ClearModuleClasses) Execute(_ context.Context, m *model.Model) (Result, error) {
	m.Roster().DeleteAllModuleClasses()
	return commit(m, "All module classes have been deleted"), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENROLMENT
// ══════════════════════════════════════════════════════════════════════════════

// Enrol adds the student at StudentIndex to the class at ClassIndex.
type Enrol struct {
	ClassIndex   int
	StudentIndex int
}

// Execute enrols the student and commits.
func (c Enrol) Execute(_ context.Context, m *model.Model) (Result, error) {
	class, err := classAt(m, c.ClassIndex)
	if err != nil {
		return Result{}, fmt.Errorf("enrol: %w", err)
	}
	s, err := studentAt(m, c.StudentIndex)
	if err != nil {
		return Result{}, fmt.Errorf("enrol: %w", err)
	}
	if class.HasStudent(s.ID) {
		return Result{}, fmt.Errorf("enrol: %w", shared.WrapError("moduleclass", "Enrol", shared.ErrAlreadyExists,
			s.Name+" is already enrolled in "+class.Name(), nil))
	}
	if err := m.Roster().SetModuleClass(class, class.WithStudent(s.ID)); err != nil {
		return Result{}, fmt.Errorf("enrol: %w", err)
	}
	return commit(m, fmt.Sprintf("Enrolled %s in %s", s.Name, class.Name())), nil
}

// Unenrol removes the student from the class together with the student's
// attendance in that class.
type Unenrol struct {
	ClassIndex   int
	StudentIndex int
}

// Execute unenrols the student and commits.
func (c Unenrol) Execute(ctx context.Context, m *model.Model) (Result, error) {
	class, err := classAt(m, c.ClassIndex)
	if err != nil {
		return Result{}, fmt.Errorf("unenrol: %w", err)
	}
	s, err := studentAt(m, c.StudentIndex)
	if err != nil {
		return Result{}, fmt.Errorf("unenrol: %w", err)
	}
	if !class.HasStudent(s.ID) {
		return Result{}, fmt.Errorf("unenrol: %w", shared.ErrStudentNotEnrolled)
	}
	if err := m.Roster().SetModuleClass(class, class.WithoutStudent(s.ID)); err != nil {
		return Result{}, fmt.Errorf("unenrol: %w", err)
	}
	logger.FromContext(ctx).Debug("student unenrolled",
		logger.StudentID(s.ID.String()),
		logger.ClassName(class.Name()),
	)
	return commit(m, fmt.Sprintf("Unenrolled %s from %s", s.Name, class.Name())), nil
}
