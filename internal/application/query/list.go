// Package query contains read-only operations (CQRS - Queries). They change
// what the user sees but never the roster and never commit.
package query

import (
	"context"
	"fmt"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/model"
)

// List shows every student and every module class.
type List struct{}

// Execute clears both filters.
func (List) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	m.UpdateStudentFilter(model.ShowAllStudents)
	m.UpdateModuleClassFilter(model.ShowAllModuleClasses)
	return command.Result{Feedback: "Listed all students and module classes"}, nil
}

// FindStudents shows students whose name contains any of the keywords.
type FindStudents struct {
	Keywords []string
}

// Execute replaces the student filter.
func (q FindStudents) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	m.UpdateStudentFilter(model.NameContainsKeywords(q.Keywords))
	return command.Result{Feedback: fmt.Sprintf("%d students listed!", len(m.FilteredStudents()))}, nil
}

// FindModuleClasses shows module classes whose name contains any of the keywords.
type FindModuleClasses struct {
	Keywords []string
}

// Execute replaces the module class filter.
func (q FindModuleClasses) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	m.UpdateModuleClassFilter(model.ClassNameContainsKeywords(q.Keywords))
	return command.Result{Feedback: fmt.Sprintf("%d module classes listed!", len(m.FilteredModuleClasses()))}, nil
}

// Exit asks the front end to stop.
type Exit struct{}

// Execute returns an exit result.
func (Exit) Execute(context.Context, *model.Model) (command.Result, error) {
	return command.Result{Feedback: "Exiting TutorsPet as requested ...", Exit: true}, nil
}
