package snapshot

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

var validate = validator.New()

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER -> DOCUMENT
// ══════════════════════════════════════════════════════════════════════════════

// FromRoster builds the stored form of data. Collections keep their order;
// enrolment and attendance entries are sorted by student ID.
func FromRoster(data roster.ReadOnlyRoster) Document {
	students := data.Students()
	classes := data.ModuleClasses()

	doc := Document{
		Students: make([]StudentRecord, 0, len(students)),
		Classes:  make([]ClassRecord, 0, len(classes)),
	}
	for _, s := range students {
		doc.Students = append(doc.Students, StudentRecord{
			ID:    s.ID.String(),
			Name:  s.Name,
			Phone: s.Phone,
			Email: s.Email,
			Tags:  append([]string{}, s.Tags...),
		})
	}
	for _, c := range classes {
		doc.Classes = append(doc.Classes, fromModuleClass(c))
	}
	return doc
}

func fromModuleClass(c moduleclass.ModuleClass) ClassRecord {
	ids := c.StudentIDs()
	rec := ClassRecord{
		Name:       c.Name(),
		StudentIDs: make([]string, 0, len(ids)),
		Lessons:    make([]LessonRecord, 0, c.LessonCount()),
	}
	for _, id := range ids {
		rec.StudentIDs = append(rec.StudentIDs, id.String())
	}
	for _, l := range c.Lessons() {
		rec.Lessons = append(rec.Lessons, fromLesson(l))
	}
	return rec
}

func fromLesson(l lesson.Lesson) LessonRecord {
	rec := LessonRecord{
		Start:           l.Start().String(),
		End:             l.End().String(),
		Day:             strings.ToUpper(l.Day().String()),
		OccurrenceCount: l.Occurrences(),
		Venue:           l.Venue(),
		Attendance:      []WeekRecord{},
	}
	for i, record := range l.Attendance().Records() {
		if record.IsEmpty() {
			continue
		}
		week := WeekRecord{Week: i + 1}
		for _, id := range record.StudentIDs() {
			score, _ := record.Get(id)
			week.Entries = append(week.Entries, EntryRecord{StudentID: id.String(), Score: score.Int()})
		}
		rec.Attendance = append(rec.Attendance, week)
	}
	return rec
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT -> ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// ToRoster rebuilds a roster from its stored form. Every field and every
// cross reference is validated again; any failure is reported as
// shared.ErrCorruptData.
func (d Document) ToRoster() (*roster.Roster, error) {
	if err := validate.Struct(d); err != nil {
		return nil, corrupt("record failed validation", err)
	}

	data := loaded{}
	for i, rec := range d.Students {
		s, err := rec.toStudent()
		if err != nil {
			return nil, corrupt(fmt.Sprintf("student %d", i+1), err)
		}
		data.students = append(data.students, s)
	}
	for _, rec := range d.Classes {
		c, err := rec.toModuleClass()
		if err != nil {
			return nil, corrupt(fmt.Sprintf("module class %q", rec.Name), err)
		}
		data.classes = append(data.classes, c)
	}

	r, err := roster.NewFrom(data)
	if err != nil {
		return nil, corrupt("roster constraints", err)
	}
	return r, nil
}

func (rec StudentRecord) toStudent() (student.Student, error) {
	id, err := shared.ParseStudentID(rec.ID)
	if err != nil {
		return student.Student{}, err
	}
	return student.Restore(id, student.NewStudentParams{
		Name:  rec.Name,
		Phone: rec.Phone,
		Email: rec.Email,
		Tags:  rec.Tags,
	})
}

func (rec ClassRecord) toModuleClass() (moduleclass.ModuleClass, error) {
	ids := make([]shared.StudentID, 0, len(rec.StudentIDs))
	for _, raw := range rec.StudentIDs {
		id, err := shared.ParseStudentID(raw)
		if err != nil {
			return moduleclass.ModuleClass{}, err
		}
		ids = append(ids, id)
	}

	lessons := make([]lesson.Lesson, 0, len(rec.Lessons))
	for i, lr := range rec.Lessons {
		l, err := lr.toLesson()
		if err != nil {
			return moduleclass.ModuleClass{}, fmt.Errorf("lesson %d: %w", i+1, err)
		}
		lessons = append(lessons, l)
	}
	return moduleclass.New(rec.Name, ids, lessons)
}

func (rec LessonRecord) toLesson() (lesson.Lesson, error) {
	day, err := lesson.ParseDay(rec.Day)
	if err != nil {
		return lesson.Lesson{}, err
	}
	start, err := lesson.ParseClock(rec.Start)
	if err != nil {
		return lesson.Lesson{}, err
	}
	end, err := lesson.ParseClock(rec.End)
	if err != nil {
		return lesson.Lesson{}, err
	}
	schedule := lesson.Schedule{
		Day:         day,
		Start:       start,
		End:         end,
		Venue:       rec.Venue,
		Occurrences: rec.OccurrenceCount,
	}
	if err := schedule.Validate(); err != nil {
		return lesson.Lesson{}, err
	}

	records := make([]lesson.AttendanceRecord, rec.OccurrenceCount)
	for i := range records {
		records[i] = lesson.NewAttendanceRecord()
	}
	seen := make(map[int]bool, len(rec.Attendance))
	for _, w := range rec.Attendance {
		if w.Week < 1 || w.Week > rec.OccurrenceCount {
			return lesson.Lesson{}, shared.ErrInvalidWeek
		}
		if seen[w.Week] {
			return lesson.Lesson{}, fmt.Errorf("week %d listed twice: %w", w.Week, shared.ErrDuplicateAttendance)
		}
		seen[w.Week] = true

		entries := make(map[shared.StudentID]shared.Attendance, len(w.Entries))
		for _, e := range w.Entries {
			id, err := shared.ParseStudentID(e.StudentID)
			if err != nil {
				return lesson.Lesson{}, err
			}
			score, err := shared.NewAttendance(e.Score)
			if err != nil {
				return lesson.Lesson{}, err
			}
			if _, dup := entries[id]; dup {
				return lesson.Lesson{}, shared.ErrDuplicateAttendance
			}
			entries[id] = score
		}
		records[w.Week-1] = lesson.AttendanceRecordOf(entries)
	}

	return lesson.NewWithAttendance(schedule, lesson.AttendanceRecordListOf(records...))
}

type loaded struct {
	students []student.Student
	classes  []moduleclass.ModuleClass
}

func (l loaded) Students() []student.Student             { return l.students }
func (l loaded) ModuleClasses() []moduleclass.ModuleClass { return l.classes }

func corrupt(what string, err error) error {
	return shared.WrapError("storage", "Load", shared.ErrCorruptData, what, err)
}
