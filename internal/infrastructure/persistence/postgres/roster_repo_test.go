package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/lesson"
	"github.com/tutorspet/tutorspet/internal/domain/moduleclass"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/domain/student"
)

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	var students []student.Student
	for _, p := range []student.NewStudentParams{
		{Name: "Alex Yeoh", Phone: "87438807", Email: "alexyeoh@example.com", Tags: []string{"friends"}},
		{Name: "Bernice Yu", Phone: "99272758", Email: "berniceyu@example.com", Tags: []string{"colleagues", "friends"}},
		{Name: "David Li", Phone: "91031282", Email: "lidavid@example.com"},
	} {
		s, err := student.NewStudent(p)
		require.NoError(t, err)
		students = append(students, s)
	}

	mon, err := lesson.New(lesson.Schedule{Day: time.Monday, Start: 600, End: 720, Venue: "COM1-B103", Occurrences: 4})
	require.NoError(t, err)
	fri, err := lesson.New(lesson.Schedule{Day: time.Friday, Start: 840, End: 900, Venue: "Zoom", Occurrences: 2})
	require.NoError(t, err)
	mon, err = mon.AddAttendance(students[0].ID, 1, shared.MustAttendance(90))
	require.NoError(t, err)
	mon, err = mon.AddAttendance(students[1].ID, 1, shared.MustAttendance(80))
	require.NoError(t, err)
	mon, err = mon.AddAttendance(students[1].ID, 4, shared.MustAttendance(0))
	require.NoError(t, err)
	fri, err = fri.AddAttendance(students[0].ID, 2, shared.MustAttendance(65))
	require.NoError(t, err)

	cs2103, err := moduleclass.New("CS2103T", []shared.StudentID{students[0].ID, students[1].ID}, []lesson.Lesson{mon, fri})
	require.NoError(t, err)
	cs2101, err := moduleclass.New("CS2101", []shared.StudentID{students[2].ID}, nil)
	require.NoError(t, err)

	r := roster.New()
	for _, s := range students {
		require.NoError(t, r.AddStudent(s))
	}
	require.NoError(t, r.AddModuleClass(cs2103))
	require.NoError(t, r.AddModuleClass(cs2101))
	return r
}

func TestTableRows_RoundTrip(t *testing.T) {
	r := testRoster(t)
	rows := rowsFromRoster(r)

	assert.Len(t, rows.students, 3)
	assert.Len(t, rows.classes, 2)
	assert.Len(t, rows.enrolments, 3)
	assert.Len(t, rows.lessons, 2)
	assert.Len(t, rows.attendance, 4)

	back, err := rows.document().ToRoster()
	require.NoError(t, err)
	assert.True(t, r.Equal(back))
}

func TestTableRows_DanglingAttendanceIsCorrupt(t *testing.T) {
	rows := rowsFromRoster(testRoster(t))
	rows.students = rows.students[:1]

	_, err := rows.document().ToRoster()
	assert.ErrorIs(t, err, shared.ErrCorruptData)
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "00:00", clockString(0))
	assert.Equal(t, "09:05", clockString(545))
	assert.Equal(t, "23:59", clockString(1439))
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t,
		"host=localhost port=5432 dbname=tutorspet user=postgres password=secret sslmode=disable connect_timeout=5",
		cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/tutorspet"
	assert.Equal(t, cfg.URL, cfg.DSN())

	pc, err := cfg.PoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(4), pc.MaxConns)
}

func TestGetMigrations_Ordered(t *testing.T) {
	migrations := GetMigrations()
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL, m.Name)
	}
}

func TestPendingMigrations(t *testing.T) {
	migrations := GetMigrations()

	assert.Equal(t, migrations, pending(migrations, nil))
	assert.Equal(t, migrations[1:], pending(migrations, map[int]bool{1: true}))
	assert.Empty(t, pending(migrations, map[int]bool{1: true, 2: true}))
}

func TestPoolConfig_InvalidURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "postgres://%zz"

	_, err := cfg.PoolConfig()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// unreachableConnection returns a pool that never connected, aimed at a
// port nothing listens on.
func unreachableConnection(t *testing.T) *Connection {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MinConns = 0
	cfg.ConnectTimeout = time.Second

	pc, err := cfg.PoolConfig()
	require.NoError(t, err)
	pool, err := pgxpool.NewWithConfig(context.Background(), pc)
	require.NoError(t, err)
	conn := &Connection{pool: pool}
	t.Cleanup(conn.Close)
	return conn
}

func TestWithTx_BeginFailureIsConnectionError(t *testing.T) {
	conn := unreachableConnection(t)

	called := false
	err := conn.WithTx(context.Background(), DefaultTxOptions(), func(pgx.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.True(t, IsConnectionError(err), "a refused connection must stay recognisable: %v", err)
}

func TestWithTx_ClosedPool(t *testing.T) {
	conn := unreachableConnection(t)
	conn.Close()

	err := conn.WithTx(context.Background(), DefaultTxOptions(), func(pgx.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrConnectionClosed)
}
