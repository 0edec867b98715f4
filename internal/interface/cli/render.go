package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// HELP
// ══════════════════════════════════════════════════════════════════════════════

// Help lists every command format.
type Help struct {
	Usages []string
}

// Execute returns the command list as feedback.
func (h Help) Execute(context.Context, *model.Model) (command.Result, error) {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, u := range h.Usages {
		b.WriteString("\n  ")
		b.WriteString(u)
	}
	return command.Result{Feedback: b.String()}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RENDERER
// ══════════════════════════════════════════════════════════════════════════════

// Renderer writes command output for a terminal.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Prompt writes the input prompt.
func (r *Renderer) Prompt() {
	fmt.Fprint(r.w, "> ")
}

// Result writes the feedback of a successful command.
func (r *Renderer) Result(res command.Result) {
	fmt.Fprintln(r.w, res.Feedback)
}

// Error writes a failed command's message. Only the message of the innermost
// domain error is shown; the wrapping context is for logs.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, UserMessage(err))
}

// Lists writes the currently displayed students and module classes.
func (r *Renderer) Lists(m *model.Model) {
	students := m.FilteredStudents()
	classes := m.FilteredModuleClasses()

	fmt.Fprintf(r.w, "Students (%d)\n", len(students))
	for i, s := range students {
		fmt.Fprintln(r.w, FormatStudent(i+1, s))
	}
	fmt.Fprintf(r.w, "Module classes (%d)\n", len(classes))
	for i, c := range classes {
		fmt.Fprintln(r.w, FormatModuleClass(i+1, c))
	}
}

// FormatStudent renders one row of the student list.
func FormatStudent(index int, s student.Student) string {
	line := fmt.Sprintf("%3d. %s  phone: %s  email: %s", index, s.Name, s.Phone, s.Email)
	if len(s.Tags) > 0 {
		line += "  [" + strings.Join(s.Tags, ", ") + "]"
	}
	return line
}

// FormatModuleClass renders one row of the module class list.
func FormatModuleClass(index int, c moduleclass.ModuleClass) string {
	return fmt.Sprintf("%3d. %s  %s, %s",
		index, c.Name(),
		plural(c.StudentCount(), "student"),
		plural(c.LessonCount(), "lesson"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// UserMessage extracts the message meant for the user from err.
func UserMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		if errors.Is(err, shared.ErrPersistence) {
			return "Could not save data: " + de.Message
		}
		msg := de.Message
		if len(msg) > 0 {
			msg = strings.ToUpper(msg[:1]) + msg[1:]
		}
		return msg
	}
	return err.Error()
}
