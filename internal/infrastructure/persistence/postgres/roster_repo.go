package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/snapshot"
	"github.com/tutorspet/tutorspet/pkg/logger"
	"github.com/tutorspet/tutorspet/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER STORE
// ══════════════════════════════════════════════════════════════════════════════

// RosterStore implements roster.Storage. Every save rewrites all roster
// tables in one transaction; a save whose content digest matches the last
// one written is skipped.
type RosterStore struct {
	conn       *Connection
	log        *logger.Logger
	lastDigest string
}

// NewRosterStore creates a RosterStore. The schema must already be migrated.
func NewRosterStore(conn *Connection, log *logger.Logger) *RosterStore {
	return &RosterStore{conn: conn, log: log.With(logger.Backend("postgres"))}
}

// Load reads every roster table inside one read-only snapshot transaction.
func (s *RosterStore) Load(ctx context.Context) (*roster.Roster, error) {
	var (
		rows   tableRows
		digest string
	)
	err := s.conn.WithTx(ctx, SnapshotTxOptions(), func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT digest FROM roster_meta WHERE id = 1`).Scan(&digest)
		if IsNoRows(err) {
			return shared.ErrNoData
		}
		if err != nil {
			return err
		}
		rows, err = selectRows(ctx, tx)
		return err
	})
	if errors.Is(err, shared.ErrNoData) {
		return nil, err
	}
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrPersistence, "read roster tables", err)
	}

	r, err := rows.document().ToRoster()
	if err != nil {
		return nil, err
	}
	s.lastDigest = digest
	return r, nil
}

// Save replaces the stored roster with data.
func (s *RosterStore) Save(ctx context.Context, data roster.ReadOnlyRoster) error {
	digest, err := snapshot.Digest(data)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "digest", err)
	}
	if digest == s.lastDigest {
		s.log.Debug("roster unchanged, skipping save")
		return nil
	}

	rows := rowsFromRoster(data)
	start := time.Now()
	err = retry.SavePolicy().Do(ctx, func(ctx context.Context) error {
		err := s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			return writeRows(ctx, tx, rows, digest)
		})
		if IsConnectionError(err) {
			return retry.Retryable(err)
		}
		return err
	})
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "write roster tables", err)
	}

	s.lastDigest = digest
	s.log.Debug("roster saved",
		logger.Int("students", len(rows.students)),
		logger.Int("classes", len(rows.classes)),
		logger.Latency(time.Since(start)),
	)
	return nil
}

// writeRows replaces every roster table with rows and records digest.
func writeRows(ctx context.Context, tx pgx.Tx, rows tableRows, digest string) error {
	if _, err := tx.Exec(ctx, `TRUNCATE roster_attendance, roster_lessons, roster_enrolments, roster_classes, roster_students`); err != nil {
		return err
	}
	if err := rows.copyInto(ctx, tx); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO roster_meta (id, digest, saved_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET digest = EXCLUDED.digest, saved_at = EXCLUDED.saved_at`, digest)
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// ROW MAPPING
// ══════════════════════════════════════════════════════════════════════════════

type studentRow struct {
	id       uuid.UUID
	position int
	name     string
	phone    string
	email    string
	tags     []string
}

type classRow struct {
	name     string
	position int
}

type enrolmentRow struct {
	className string
	studentID uuid.UUID
}

type lessonRow struct {
	className   string
	position    int
	day         int
	start       int
	end         int
	venue       string
	occurrences int
}

type attendanceRow struct {
	className      string
	lessonPosition int
	week           int
	studentID      uuid.UUID
	score          int
}

// tableRows is the roster flattened into the five roster tables.
type tableRows struct {
	students   []studentRow
	classes    []classRow
	enrolments []enrolmentRow
	lessons    []lessonRow
	attendance []attendanceRow
}

func rowsFromRoster(data roster.ReadOnlyRoster) tableRows {
	var t tableRows
	for i, s := range data.Students() {
		t.students = append(t.students, studentRow{
			id: uuid.UUID(s.ID), position: i, name: s.Name, phone: s.Phone, email: s.Email,
			tags: append([]string{}, s.Tags...),
		})
	}
	for i, c := range data.ModuleClasses() {
		t.classes = append(t.classes, classRow{name: c.Name(), position: i})
		for _, id := range c.StudentIDs() {
			t.enrolments = append(t.enrolments, enrolmentRow{className: c.Name(), studentID: uuid.UUID(id)})
		}
		for j, l := range c.Lessons() {
			t.lessons = append(t.lessons, lessonRow{
				className: c.Name(), position: j, day: int(l.Day()),
				start: int(l.Start()), end: int(l.End()), venue: l.Venue(), occurrences: l.Occurrences(),
			})
			for w, record := range l.Attendance().Records() {
				for _, id := range record.StudentIDs() {
					score, _ := record.Get(id)
					t.attendance = append(t.attendance, attendanceRow{
						className: c.Name(), lessonPosition: j, week: w + 1,
						studentID: uuid.UUID(id), score: score.Int(),
					})
				}
			}
		}
	}
	return t
}

// document rebuilds the stored record so loading goes through the same
// validation as every other backend. Rows must be ordered by position.
func (t tableRows) document() snapshot.Document {
	doc := snapshot.Document{
		Students: make([]snapshot.StudentRecord, 0, len(t.students)),
		Classes:  make([]snapshot.ClassRecord, 0, len(t.classes)),
	}
	for _, s := range t.students {
		doc.Students = append(doc.Students, snapshot.StudentRecord{
			ID: s.id.String(), Name: s.name, Phone: s.phone, Email: s.email, Tags: s.tags,
		})
	}

	classIndex := make(map[string]int, len(t.classes))
	for i, c := range t.classes {
		classIndex[c.name] = i
		doc.Classes = append(doc.Classes, snapshot.ClassRecord{Name: c.name, StudentIDs: []string{}, Lessons: []snapshot.LessonRecord{}})
	}
	for _, e := range t.enrolments {
		if i, ok := classIndex[e.className]; ok {
			doc.Classes[i].StudentIDs = append(doc.Classes[i].StudentIDs, e.studentID.String())
		}
	}

	type lessonKey struct {
		class    string
		position int
	}
	lessonIndex := make(map[lessonKey]int, len(t.lessons))
	for _, l := range t.lessons {
		i, ok := classIndex[l.className]
		if !ok {
			continue
		}
		lessonIndex[lessonKey{l.className, l.position}] = len(doc.Classes[i].Lessons)
		doc.Classes[i].Lessons = append(doc.Classes[i].Lessons, snapshot.LessonRecord{
			Start:           clockString(l.start),
			End:             clockString(l.end),
			Day:             strings.ToUpper(time.Weekday(l.day).String()),
			OccurrenceCount: l.occurrences,
			Venue:           l.venue,
			Attendance:      []snapshot.WeekRecord{},
		})
	}

	for _, a := range t.attendance {
		ci, ok := classIndex[a.className]
		if !ok {
			continue
		}
		li, ok := lessonIndex[lessonKey{a.className, a.lessonPosition}]
		if !ok {
			continue
		}
		lr := &doc.Classes[ci].Lessons[li]
		if n := len(lr.Attendance); n == 0 || lr.Attendance[n-1].Week != a.week {
			lr.Attendance = append(lr.Attendance, snapshot.WeekRecord{Week: a.week})
		}
		last := &lr.Attendance[len(lr.Attendance)-1]
		last.Entries = append(last.Entries, snapshot.EntryRecord{StudentID: a.studentID.String(), Score: a.score})
	}
	return doc
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ══════════════════════════════════════════════════════════════════════════════
// SQL
// ══════════════════════════════════════════════════════════════════════════════

func (t tableRows) copyInto(ctx context.Context, tx pgx.Tx) error {
	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"roster_students", []string{"id", "position", "name", "phone", "email", "tags"}, mapRows(t.students, func(s studentRow) []any {
			return []any{s.id, s.position, s.name, s.phone, s.email, s.tags}
		})},
		{"roster_classes", []string{"name", "position"}, mapRows(t.classes, func(c classRow) []any {
			return []any{c.name, c.position}
		})},
		{"roster_enrolments", []string{"class_name", "student_id"}, mapRows(t.enrolments, func(e enrolmentRow) []any {
			return []any{e.className, e.studentID}
		})},
		{"roster_lessons", []string{"class_name", "position", "day", "start_minute", "end_minute", "venue", "occurrences"}, mapRows(t.lessons, func(l lessonRow) []any {
			return []any{l.className, l.position, int16(l.day), int16(l.start), int16(l.end), l.venue, int16(l.occurrences)}
		})},
		{"roster_attendance", []string{"class_name", "lesson_position", "week", "student_id", "score"}, mapRows(t.attendance, func(a attendanceRow) []any {
			return []any{a.className, a.lessonPosition, int16(a.week), a.studentID, int16(a.score)}
		})},
	}

	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("copy into %s: %w", c.table, err)
		}
	}
	return nil
}

func mapRows[T any](in []T, fn func(T) []any) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func selectRows(ctx context.Context, q Querier) (tableRows, error) {
	var t tableRows
	var err error

	t.students, err = collect(ctx, q, `SELECT id, position, name, phone, email, tags FROM roster_students ORDER BY position`,
		func(row pgx.CollectableRow) (studentRow, error) {
			var s studentRow
			err := row.Scan(&s.id, &s.position, &s.name, &s.phone, &s.email, &s.tags)
			return s, err
		})
	if err != nil {
		return t, err
	}

	t.classes, err = collect(ctx, q, `SELECT name, position FROM roster_classes ORDER BY position`,
		func(row pgx.CollectableRow) (classRow, error) {
			var c classRow
			err := row.Scan(&c.name, &c.position)
			return c, err
		})
	if err != nil {
		return t, err
	}

	t.enrolments, err = collect(ctx, q, `SELECT class_name, student_id FROM roster_enrolments ORDER BY class_name, student_id`,
		func(row pgx.CollectableRow) (enrolmentRow, error) {
			var e enrolmentRow
			err := row.Scan(&e.className, &e.studentID)
			return e, err
		})
	if err != nil {
		return t, err
	}

	t.lessons, err = collect(ctx, q, `
		SELECT class_name, position, day, start_minute, end_minute, venue, occurrences
		FROM roster_lessons ORDER BY class_name, position`,
		func(row pgx.CollectableRow) (lessonRow, error) {
			var l lessonRow
			err := row.Scan(&l.className, &l.position, &l.day, &l.start, &l.end, &l.venue, &l.occurrences)
			return l, err
		})
	if err != nil {
		return t, err
	}

	t.attendance, err = collect(ctx, q, `
		SELECT class_name, lesson_position, week, student_id, score
		FROM roster_attendance ORDER BY class_name, lesson_position, week, student_id`,
		func(row pgx.CollectableRow) (attendanceRow, error) {
			var a attendanceRow
			err := row.Scan(&a.className, &a.lessonPosition, &a.week, &a.studentID, &a.score)
			return a, err
		})
	return t, err
}

func collect[T any](ctx context.Context, q Querier, sql string, fn pgx.RowToFunc[T]) ([]T, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, fn)
}
