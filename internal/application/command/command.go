// Package command contains the operations a user can run against the roster.
//
// Every mutating command validates fully, applies its change to the working
// copy and commits exactly once with its feedback message as the history
// label. Read-only commands never commit.
package command

import (
	"context"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// Command is a parsed user action.
type Command interface {
	Execute(ctx context.Context, m *model.Model) (Result, error)
}

// Result is what a command reports back to the user.
type Result struct {
	// Feedback is the message shown to the user.
	Feedback string

	// Mutated is true when the working copy changed and needs saving.
	Mutated bool

	// Exit asks the front end to stop.
	Exit bool
}

// Index errors are reported when a 1-based index does not point into the
// currently displayed list.
var (
	ErrInvalidStudentIndex = shared.NewDomainError("command", "Resolve", shared.ErrNotFound, "the student index provided is invalid")
	ErrInvalidClassIndex   = shared.NewDomainError("command", "Resolve", shared.ErrNotFound, "the module class index provided is invalid")
	ErrInvalidLessonIndex  = shared.NewDomainError("command", "Resolve", shared.ErrNotFound, "the lesson index provided is invalid")
	ErrNothingToEdit       = shared.NewDomainError("command", "Validate", shared.ErrValidation, "at least one field to edit must be provided")
)

// commit records the change and builds the result.
func commit(m *model.Model, feedback string) Result {
	m.Roster().Commit(feedback)
	return Result{Feedback: feedback, Mutated: true}
}

// ══════════════════════════════════════════════════════════════════════════════
// INDEX RESOLUTION
// ══════════════════════════════════════════════════════════════════════════════

func studentAt(m *model.Model, index int) (student.Student, error) {
	list := m.FilteredStudents()
	if index < 1 || index > len(list) {
		return student.Student{}, ErrInvalidStudentIndex
	}
	return list[index-1], nil
}

func classAt(m *model.Model, index int) (moduleclass.ModuleClass, error) {
	list := m.FilteredModuleClasses()
	if index < 1 || index > len(list) {
		return moduleclass.ModuleClass{}, ErrInvalidClassIndex
	}
	return list[index-1], nil
}

func lessonAt(c moduleclass.ModuleClass, index int) (lesson.Lesson, error) {
	if index < 1 || index > c.LessonCount() {
		return lesson.Lesson{}, ErrInvalidLessonIndex
	}
	return c.Lesson(index - 1)
}
