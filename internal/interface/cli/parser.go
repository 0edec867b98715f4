package cli

import (
	"strings"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/query"
	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrUnknownCommand = shared.NewDomainError("parser", "Parse", shared.ErrInvalidFormat, "unknown command")
	ErrInvalidIndex   = shared.NewDomainError("parser", "Parse", shared.ErrInvalidFormat, "index must be a positive integer")
	ErrInvalidNumber  = shared.NewDomainError("parser", "Parse", shared.ErrInvalidFormat, "value must be an integer")
)

func usageError(usage string) error {
	return shared.NewDomainError("parser", "Parse", shared.ErrInvalidFormat, "invalid command format\n"+usage)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARSER
// ══════════════════════════════════════════════════════════════════════════════

type parseFunc func(args string) (command.Command, error)

type route struct {
	usage string
	parse parseFunc
}

// Parser maps a command word to the function that parses its arguments.
type Parser struct {
	routes map[string]route
	order  []string
}

// NewParser returns a parser that knows every roster command.
func NewParser() *Parser {
	p := &Parser{routes: make(map[string]route)}

	p.register("add_student", "add_student n/NAME p/PHONE e/EMAIL [t/TAG]...", parseAddStudent)
	p.register("edit_student", "edit_student INDEX [n/NAME] [p/PHONE] [e/EMAIL] [t/TAG]...", parseEditStudent)
	p.register("delete_student", "delete_student INDEX", indexOnly(func(i int) command.Command { return command.DeleteStudent{Index: i} }))
	p.register("clear_student", "clear_student", noArgs(command.ClearStudents{}))
	p.register("find_student", "find_student KEYWORD [MORE_KEYWORDS]...", parseFindStudents)

	p.register("add_class", "add_class n/NAME", parseAddClass)
	p.register("edit_class", "edit_class INDEX n/NAME", parseEditClass)
	p.register("delete_class", "delete_class INDEX", indexOnly(func(i int) command.Command { return command.DeleteModuleClass{Index: i} }))
	p.register("clear_class", "clear_class", noArgs(command.ClearModuleClasses{}))
	p.register("find_class", "find_class KEYWORD [MORE_KEYWORDS]...", parseFindClasses)
	p.register("view_class", "view_class INDEX", indexOnly(func(i int) command.Command { return query.ViewModuleClass{Index: i} }))
	p.register("enrol", "enrol c/CLASS_INDEX s/STUDENT_INDEX", parseEnrolment(true))
	p.register("unenrol", "unenrol c/CLASS_INDEX s/STUDENT_INDEX", parseEnrolment(false))

	p.register("add_lesson", "add_lesson c/CLASS_INDEX d/DAY st/START en/END v/VENUE o/OCCURRENCES", parseAddLesson)
	p.register("edit_lesson", "edit_lesson c/CLASS_INDEX l/LESSON_INDEX [d/DAY] [st/START] [en/END] [v/VENUE] [o/OCCURRENCES]", parseEditLesson)
	p.register("delete_lesson", "delete_lesson c/CLASS_INDEX l/LESSON_INDEX", parseDeleteLesson)

	p.register("add_attendance", "add_attendance c/CLASS_INDEX l/LESSON_INDEX s/STUDENT_INDEX w/WEEK a/SCORE", parseAttendance("add"))
	p.register("edit_attendance", "edit_attendance c/CLASS_INDEX l/LESSON_INDEX s/STUDENT_INDEX w/WEEK a/SCORE", parseAttendance("edit"))
	p.register("delete_attendance", "delete_attendance c/CLASS_INDEX l/LESSON_INDEX s/STUDENT_INDEX w/WEEK", parseAttendance("delete"))
	p.register("view_attendance", "view_attendance c/CLASS_INDEX l/LESSON_INDEX", parseViewAttendance)

	p.register("list", "list", noArgs(query.List{}))
	p.register("undo", "undo", noArgs(command.Undo{}))
	p.register("redo", "redo", noArgs(command.Redo{}))
	p.register("history", "history", noArgs(query.History{}))
	p.register("exit", "exit", noArgs(query.Exit{}))
	p.register("help", "help", func(string) (command.Command, error) { return Help{Usages: p.Usages()}, nil })

	return p
}

func (p *Parser) register(word, usage string, parse parseFunc) {
	p.routes[word] = route{usage: usage, parse: parse}
	p.order = append(p.order, word)
}

// Parse turns one input line into a command.
func (p *Parser) Parse(line string) (command.Command, error) {
	word, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	r, ok := p.routes[strings.ToLower(word)]
	if !ok {
		return nil, ErrUnknownCommand
	}
	cmd, err := r.parse(args)
	if err != nil {
		if err == errUsage {
			return nil, usageError(r.usage)
		}
		return nil, err
	}
	return cmd, nil
}

// Usages lists every command format in registration order.
func (p *Parser) Usages() []string {
	out := make([]string, 0, len(p.order))
	for _, word := range p.order {
		out = append(out, p.routes[word].usage)
	}
	return out
}

// errUsage is replaced by the route's usage message in Parse.
var errUsage = usageError("")

// ══════════════════════════════════════════════════════════════════════════════
// ARGUMENT PARSERS
// ══════════════════════════════════════════════════════════════════════════════

func noArgs(cmd command.Command) parseFunc {
	return func(args string) (command.Command, error) {
		if strings.TrimSpace(args) != "" {
			return nil, errUsage
		}
		return cmd, nil
	}
}

func indexOnly(build func(int) command.Command) parseFunc {
	return func(args string) (command.Command, error) {
		if strings.TrimSpace(args) == "" {
			return nil, errUsage
		}
		i, err := ParseIndex(args)
		if err != nil {
			return nil, err
		}
		return build(i), nil
	}
}

func parseAddStudent(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixTag)
	if m.Preamble() != "" || !m.HasAll(PrefixName, PrefixPhone, PrefixEmail) {
		return nil, errUsage
	}
	name, _ := m.Value(PrefixName)
	phone, _ := m.Value(PrefixPhone)
	email, _ := m.Value(PrefixEmail)
	return command.AddStudent{Params: student.NewStudentParams{
		Name:  name,
		Phone: phone,
		Email: email,
		Tags:  tags(m.All(PrefixTag)),
	}}, nil
}

func parseEditStudent(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixTag)
	if m.Preamble() == "" {
		return nil, errUsage
	}
	index, err := ParseIndex(m.Preamble())
	if err != nil {
		return nil, err
	}

	var edit command.StudentEdit
	if v, ok := m.Value(PrefixName); ok {
		edit.Name = &v
	}
	if v, ok := m.Value(PrefixPhone); ok {
		edit.Phone = &v
	}
	if v, ok := m.Value(PrefixEmail); ok {
		edit.Email = &v
	}
	if m.Has(PrefixTag) {
		// A lone empty "t/" clears every tag.
		t := tags(m.All(PrefixTag))
		edit.Tags = &t
	}
	return command.EditStudent{Index: index, Edit: edit}, nil
}

func tags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFindStudents(args string) (command.Command, error) {
	keywords := strings.Fields(args)
	if len(keywords) == 0 {
		return nil, errUsage
	}
	return query.FindStudents{Keywords: keywords}, nil
}

func parseFindClasses(args string) (command.Command, error) {
	keywords := strings.Fields(args)
	if len(keywords) == 0 {
		return nil, errUsage
	}
	return query.FindModuleClasses{Keywords: keywords}, nil
}

func parseAddClass(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName)
	name, ok := m.Value(PrefixName)
	if !ok || m.Preamble() != "" {
		return nil, errUsage
	}
	return command.AddModuleClass{Name: name}, nil
}

func parseEditClass(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName)
	name, ok := m.Value(PrefixName)
	if !ok || m.Preamble() == "" {
		return nil, errUsage
	}
	index, err := ParseIndex(m.Preamble())
	if err != nil {
		return nil, err
	}
	return command.EditModuleClass{Index: index, Name: name}, nil
}

func parseEnrolment(enrol bool) parseFunc {
	return func(args string) (command.Command, error) {
		m := Tokenize(args, PrefixClass, PrefixStudent)
		if m.Preamble() != "" || !m.HasAll(PrefixClass, PrefixStudent) {
			return nil, errUsage
		}
		classIndex, studentIndex, err := indexPair(m, PrefixClass, PrefixStudent)
		if err != nil {
			return nil, err
		}
		if enrol {
			return command.Enrol{ClassIndex: classIndex, StudentIndex: studentIndex}, nil
		}
		return command.Unenrol{ClassIndex: classIndex, StudentIndex: studentIndex}, nil
	}
}

func indexPair(m ArgMap, a, b Prefix) (int, int, error) {
	av, _ := m.Value(a)
	bv, _ := m.Value(b)
	first, err := ParseIndex(av)
	if err != nil {
		return 0, 0, err
	}
	second, err := ParseIndex(bv)
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

var lessonPrefixes = []Prefix{PrefixClass, PrefixLesson, PrefixDay, PrefixStart, PrefixEnd, PrefixVenue, PrefixOccurrences}

func parseAddLesson(args string) (command.Command, error) {
	m := Tokenize(args, lessonPrefixes...)
	if m.Preamble() != "" || !m.HasAll(PrefixClass, PrefixDay, PrefixStart, PrefixEnd, PrefixVenue, PrefixOccurrences) {
		return nil, errUsage
	}
	cv, _ := m.Value(PrefixClass)
	classIndex, err := ParseIndex(cv)
	if err != nil {
		return nil, err
	}
	edit, err := lessonEdit(m)
	if err != nil {
		return nil, err
	}
	return command.AddLesson{ClassIndex: classIndex, Schedule: edit.Apply(lesson.Schedule{})}, nil
}

func parseEditLesson(args string) (command.Command, error) {
	m := Tokenize(args, lessonPrefixes...)
	if m.Preamble() != "" || !m.HasAll(PrefixClass, PrefixLesson) {
		return nil, errUsage
	}
	classIndex, lessonIndex, err := indexPair(m, PrefixClass, PrefixLesson)
	if err != nil {
		return nil, err
	}
	edit, err := lessonEdit(m)
	if err != nil {
		return nil, err
	}
	return command.EditLesson{ClassIndex: classIndex, LessonIndex: lessonIndex, Edit: edit}, nil
}

func lessonEdit(m ArgMap) (command.LessonEdit, error) {
	var edit command.LessonEdit
	if v, ok := m.Value(PrefixDay); ok {
		day, err := lesson.ParseDay(v)
		if err != nil {
			return edit, err
		}
		edit.Day = &day
	}
	if v, ok := m.Value(PrefixStart); ok {
		start, err := lesson.ParseClock(v)
		if err != nil {
			return edit, err
		}
		edit.Start = &start
	}
	if v, ok := m.Value(PrefixEnd); ok {
		end, err := lesson.ParseClock(v)
		if err != nil {
			return edit, err
		}
		edit.End = &end
	}
	if v, ok := m.Value(PrefixVenue); ok {
		edit.Venue = &v
	}
	if v, ok := m.Value(PrefixOccurrences); ok {
		n, err := parseNumber(v)
		if err != nil {
			return edit, err
		}
		edit.Occurrences = &n
	}
	return edit, nil
}

func parseDeleteLesson(args string) (command.Command, error) {
	m := Tokenize(args, PrefixClass, PrefixLesson)
	if m.Preamble() != "" || !m.HasAll(PrefixClass, PrefixLesson) {
		return nil, errUsage
	}
	classIndex, lessonIndex, err := indexPair(m, PrefixClass, PrefixLesson)
	if err != nil {
		return nil, err
	}
	return command.DeleteLesson{ClassIndex: classIndex, LessonIndex: lessonIndex}, nil
}

func parseViewAttendance(args string) (command.Command, error) {
	m := Tokenize(args, PrefixClass, PrefixLesson)
	if m.Preamble() != "" || !m.HasAll(PrefixClass, PrefixLesson) {
		return nil, errUsage
	}
	classIndex, lessonIndex, err := indexPair(m, PrefixClass, PrefixLesson)
	if err != nil {
		return nil, err
	}
	return query.ViewAttendance{ClassIndex: classIndex, LessonIndex: lessonIndex}, nil
}

func parseAttendance(action string) parseFunc {
	return func(args string) (command.Command, error) {
		m := Tokenize(args, PrefixClass, PrefixLesson, PrefixStudent, PrefixWeek, PrefixScore)
		required := []Prefix{PrefixClass, PrefixLesson, PrefixStudent, PrefixWeek}
		if action != "delete" {
			required = append(required, PrefixScore)
		}
		if m.Preamble() != "" || !m.HasAll(required...) {
			return nil, errUsage
		}

		classIndex, lessonIndex, err := indexPair(m, PrefixClass, PrefixLesson)
		if err != nil {
			return nil, err
		}
		sv, _ := m.Value(PrefixStudent)
		studentIndex, err := ParseIndex(sv)
		if err != nil {
			return nil, err
		}
		wv, _ := m.Value(PrefixWeek)
		week, err := parseNumber(wv)
		if err != nil {
			return nil, err
		}
		target := command.AttendanceTarget{
			ClassIndex:   classIndex,
			LessonIndex:  lessonIndex,
			StudentIndex: studentIndex,
			Week:         week,
		}
		if action == "delete" {
			return command.DeleteAttendance{AttendanceTarget: target}, nil
		}

		av, _ := m.Value(PrefixScore)
		score, err := parseNumber(av)
		if err != nil {
			return nil, err
		}
		if action == "add" {
			return command.AddAttendance{AttendanceTarget: target, Score: score}, nil
		}
		return command.EditAttendance{AttendanceTarget: target, Score: score}, nil
	}
}
