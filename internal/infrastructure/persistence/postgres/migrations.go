package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tutorspet/tutorspet/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

const migrationTable = "schema_migrations"

// Migrator applies the embedded migrations in version order.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	log        *logger.Logger
}

// NewMigrator creates a migrator for the roster schema.
func NewMigrator(conn *Connection, log *logger.Logger) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		log:        log.With(logger.Component("migrator")),
	}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationTable+` (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrMigrationFailed, migrationTable, err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.conn.Query(ctx, "SELECT version FROM "+migrationTable)
	if err != nil {
		return nil, fmt.Errorf("%w: query applied versions: %w", ErrMigrationFailed, err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("%w: scan applied versions: %w", ErrMigrationFailed, err)
	}

	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Migrate applies every pending migration, each in its own transaction, and
// returns how many it applied.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range pending(m.migrations, applied) {
		err := m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO "+migrationTable+" (version, name) VALUES ($1, $2)", mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%w: version %d (%s): %w", ErrMigrationFailed, mig.Version, mig.Name, err)
		}
		m.log.Info("migration applied", logger.Int("version", mig.Version), logger.String("name", mig.Name))
		count++
	}
	return count, nil
}

// pending returns the migrations whose version is not in applied, in order.
func pending(migrations []Migration, applied map[int]bool) []Migration {
	var out []Migration
	for _, mig := range migrations {
		if !applied[mig.Version] {
			out = append(out, mig)
		}
	}
	return out
}

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_roster", UpSQL: migration001Up},
		{Version: 2, Name: "create_roster_meta", UpSQL: migration002Up},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: ROSTER TABLES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS roster_students (
    id UUID PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL,
    tags TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS roster_classes (
    name TEXT PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS roster_enrolments (
    class_name TEXT NOT NULL REFERENCES roster_classes(name) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES roster_students(id) ON DELETE CASCADE,
    PRIMARY KEY (class_name, student_id)
);

CREATE TABLE IF NOT EXISTS roster_lessons (
    class_name TEXT NOT NULL REFERENCES roster_classes(name) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    day SMALLINT NOT NULL,
    start_minute SMALLINT NOT NULL,
    end_minute SMALLINT NOT NULL,
    venue TEXT NOT NULL,
    occurrences SMALLINT NOT NULL,
    PRIMARY KEY (class_name, position),

    CONSTRAINT valid_day CHECK (day BETWEEN 0 AND 6),
    CONSTRAINT valid_time_range CHECK (start_minute >= 0 AND start_minute < end_minute AND end_minute < 1440),
    CONSTRAINT valid_occurrences CHECK (occurrences BETWEEN 1 AND 52)
);

CREATE TABLE IF NOT EXISTS roster_attendance (
    class_name TEXT NOT NULL,
    lesson_position INTEGER NOT NULL,
    week SMALLINT NOT NULL,
    student_id UUID NOT NULL REFERENCES roster_students(id) ON DELETE CASCADE,
    score SMALLINT NOT NULL,
    PRIMARY KEY (class_name, lesson_position, week, student_id),
    FOREIGN KEY (class_name, lesson_position) REFERENCES roster_lessons(class_name, position) ON DELETE CASCADE,

    CONSTRAINT valid_week CHECK (week BETWEEN 1 AND 52),
    CONSTRAINT valid_score CHECK (score BETWEEN 0 AND 100)
);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: SAVE METADATA
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS roster_meta (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    digest TEXT NOT NULL,
    saved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT single_row CHECK (id = 1)
);
`
