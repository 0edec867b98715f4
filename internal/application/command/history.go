package command

import (
	"context"
	"fmt"

	"github.com/tutorspet/tutorspet/internal/application/model"
)

// Undo restores the state before the last committed command.
type Undo struct{}

// Execute steps the history back. It does not commit.
func (Undo) Execute(_ context.Context, m *model.Model) (Result, error) {
	label, err := m.Roster().Undo()
	if err != nil {
		return Result{}, fmt.Errorf("undo: %w", err)
	}
	m.UpdateStudentFilter(model.ShowAllStudents)
	m.UpdateModuleClassFilter(model.ShowAllModuleClasses)
	return Result{Feedback: fmt.Sprintf("Undone: %s", label), Mutated: true}, nil
}

// Redo reapplies the last undone command.
type Redo struct{}

// Execute steps the history forward. It does not commit.
func (Redo) Execute(_ context.Context, m *model.Model) (Result, error) {
	label, err := m.Roster().Redo()
	if err != nil {
		return Result{}, fmt.Errorf("redo: %w", err)
	}
	m.UpdateStudentFilter(model.ShowAllStudents)
	m.UpdateModuleClassFilter(model.ShowAllModuleClasses)
	return Result{Feedback: fmt.Sprintf("Redone: %s", label), Mutated: true}, nil
}
