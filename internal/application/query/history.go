package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/model"
)

// History lists every history label and marks the current one.
type History struct{}

// Execute renders the history.
func (History) Execute(_ context.Context, m *model.Model) (command.Result, error) {
	cursor, labels := m.Roster().History()

	var b strings.Builder
	b.WriteString("History:")
	for i, label := range labels {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "\n%s%d. %s", marker, i, label)
	}
	return command.Result{Feedback: b.String()}, nil
}
