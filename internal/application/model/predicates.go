package model

import (
	"strings"

	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// NameContainsKeywords matches students whose name contains any keyword as a
// whole word, ignoring case.
func NameContainsKeywords(keywords []string) StudentPredicate {
	return func(s student.Student) bool {
		return containsAnyWord(s.Name, keywords)
	}
}

// ClassNameContainsKeywords matches module classes whose name contains any
// keyword as a whole word, ignoring case.
func ClassNameContainsKeywords(keywords []string) ModuleClassPredicate {
	return func(c moduleclass.ModuleClass) bool {
		return containsAnyWord(c.Name(), keywords)
	}
}

// EnrolledIn matches students enrolled in the named class. The class is looked
// up in the working copy on every call, so enrolment changes and undo show up
// immediately. Nothing matches once the class is gone.
func (m *Model) EnrolledIn(className string) StudentPredicate {
	return func(s student.Student) bool {
		c, err := m.roster.ModuleClassByName(className)
		return err == nil && c.HasStudent(s.ID)
	}
}

func containsAnyWord(text string, keywords []string) bool {
	words := strings.Fields(text)
	for _, k := range keywords {
		for _, w := range words {
			if strings.EqualFold(w, k) {
				return true
			}
		}
	}
	return false
}
