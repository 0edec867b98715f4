// Package model holds the in-memory state that commands operate on: the
// versioned roster plus the filters that decide what the user currently sees.
package model

import (
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// StudentPredicate selects students for the filtered view.
type StudentPredicate func(student.Student) bool

// ModuleClassPredicate selects module classes for the filtered view.
type ModuleClassPredicate func(moduleclass.ModuleClass) bool

// ShowAllStudents matches every student.
func ShowAllStudents(student.Student) bool { return true }

// ShowAllModuleClasses matches every module class.
func ShowAllModuleClasses(moduleclass.ModuleClass) bool { return true }

// Model owns the versioned roster. Views are computed on each call so they
// always reflect the working copy, including after undo and redo.
type Model struct {
	roster        *roster.VersionedRoster
	studentFilter StudentPredicate
	classFilter   ModuleClassPredicate
}

// New wraps data in a fresh history labelled initialLabel.
func New(data *roster.Roster, initialLabel string) *Model {
	if initialLabel == "" {
		initialLabel = roster.DefaultInitialLabel
	}
	return &Model{
		roster:        roster.NewVersionedRoster(data, initialLabel),
		studentFilter: ShowAllStudents,
		classFilter:   ShowAllModuleClasses,
	}
}

// Roster returns the versioned working copy.
func (m *Model) Roster() *roster.VersionedRoster {
	return m.roster
}

// FilteredStudents returns the students matching the current filter.
func (m *Model) FilteredStudents() []student.Student {
	all := m.roster.Students()
	out := make([]student.Student, 0, len(all))
	for _, s := range all {
		if m.studentFilter(s) {
			out = append(out, s)
		}
	}
	return out
}

// FilteredModuleClasses returns the module classes matching the current filter.
func (m *Model) FilteredModuleClasses() []moduleclass.ModuleClass {
	all := m.roster.ModuleClasses()
	out := make([]moduleclass.ModuleClass, 0, len(all))
	for _, c := range all {
		if m.classFilter(c) {
			out = append(out, c)
		}
	}
	return out
}

// UpdateStudentFilter replaces the student filter. A nil predicate shows all.
func (m *Model) UpdateStudentFilter(p StudentPredicate) {
	if p == nil {
		p = ShowAllStudents
	}
	m.studentFilter = p
}

// UpdateModuleClassFilter replaces the module class filter. A nil predicate
// shows all.
func (m *Model) UpdateModuleClassFilter(p ModuleClassPredicate) {
	if p == nil {
		p = ShowAllModuleClasses
	}
	m.classFilter = p
}
