// Package sampledata builds the roster shown on first start, when storage
// holds nothing yet.
package sampledata

import (
	"fmt"
	"time"

	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

var students = []student.NewStudentParams{
	{Name: "Alex Yeoh", Phone: "87438807", Email: "alexyeoh@example.com", Tags: []string{"friends"}},
	{Name: "Bernice Yu", Phone: "99272758", Email: "berniceyu@example.com", Tags: []string{"colleagues", "friends"}},
	{Name: "Charlotte Oliveiro", Phone: "93210283", Email: "charlotte@example.com", Tags: []string{"neighbours"}},
	{Name: "David Li", Phone: "91031282", Email: "lidavid@example.com", Tags: []string{"family"}},
	{Name: "Irfan Ibrahim", Phone: "92492021", Email: "irfan@example.com", Tags: []string{"classmates"}},
	{Name: "Roy Balakrishnan", Phone: "92624417", Email: "royb@example.com", Tags: []string{"colleagues"}},
}

type classSpec struct {
	name     string
	enrolled []int
	lessons  []lesson.Schedule
}

var classes = []classSpec{
	{
		name:     "CS2103T",
		enrolled: []int{0, 1, 2},
		lessons: []lesson.Schedule{
			{Day: time.Monday, Start: 10 * 60, End: 12 * 60, Venue: "COM1-B103", Occurrences: 13},
			{Day: time.Thursday, Start: 14 * 60, End: 15 * 60, Venue: "Zoom", Occurrences: 13},
		},
	},
	{
		name:     "CS2100",
		enrolled: []int{3, 4},
		lessons: []lesson.Schedule{
			{Day: time.Wednesday, Start: 9 * 60, End: 10 * 60, Venue: "COM1-0210", Occurrences: 10},
		},
	},
	{
		name:     "CS1101S",
		enrolled: []int{5},
	},
}

// Roster returns a freshly built sample roster. Each call generates new
// student IDs.
func Roster() (*roster.Roster, error) {
	r := roster.New()

	ids := make([]shared.StudentID, 0, len(students))
	for _, p := range students {
		s, err := student.NewStudent(p)
		if err != nil {
			return nil, fmt.Errorf("sample student %q: %w", p.Name, err)
		}
		if err := r.AddStudent(s); err != nil {
			return nil, fmt.Errorf("sample student %q: %w", p.Name, err)
		}
		ids = append(ids, s.ID)
	}

	for _, def := range classes {
		enrolled := make([]shared.StudentID, 0, len(def.enrolled))
		for _, i := range def.enrolled {
			enrolled = append(enrolled, ids[i])
		}
		lessons := make([]lesson.Lesson, 0, len(def.lessons))
		for _, sched := range def.lessons {
			l, err := lesson.New(sched)
			if err != nil {
				return nil, fmt.Errorf("sample lesson in %s: %w", def.name, err)
			}
			lessons = append(lessons, l)
		}

		c, err := moduleclass.New(def.name, enrolled, lessons)
		if err != nil {
			return nil, fmt.Errorf("sample class %s: %w", def.name, err)
		}
		if err := r.AddModuleClass(c); err != nil {
			return nil, fmt.Errorf("sample class %s: %w", def.name, err)
		}
	}
	return r, nil
}
