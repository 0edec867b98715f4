package logic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/interface/cli"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// memoryStorage keeps the last saved roster and can be told to fail.
type memoryStorage struct {
	saved   *roster.Roster
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryStorage) Load(context.Context) (*roster.Roster, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.saved == nil {
		return nil, shared.ErrNoData
	}
	return s.saved.Clone(), nil
}

func (s *memoryStorage) Save(_ context.Context, data roster.ReadOnlyRoster) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	r, err := roster.NewFrom(data)
	if err != nil {
		return err
	}
	s.saved = r
	s.saves++
	return nil
}

func discard() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func newManager(storage *memoryStorage) *Manager {
	return NewManager(model.New(roster.New(), ""), cli.NewParser(), storage, discard())
}

func TestManager_SavesAfterMutation(t *testing.T) {
	storage := &memoryStorage{}
	mgr := newManager(storage)
	ctx := context.Background()

	res, err := mgr.Execute(ctx, "add_student n/Alex Yeoh p/87438807 e/alexyeoh@example.com t/friends")
	require.NoError(t, err)
	assert.True(t, res.Mutated)
	assert.Equal(t, 1, storage.saves)
	assert.True(t, mgr.Model().Roster().Equal(storage.saved))

	_, err = mgr.Execute(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, 1, storage.saves, "read-only commands are not saved")
}

func TestManager_FailedCommandIsNotSaved(t *testing.T) {
	storage := &memoryStorage{}
	mgr := newManager(storage)

	_, err := mgr.Execute(context.Background(), "delete_student 1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Zero(t, storage.saves)

	_, err = mgr.Execute(context.Background(), "fly_away")
	assert.ErrorIs(t, err, cli.ErrUnknownCommand)
}

func TestManager_SaveFailureKeepsChange(t *testing.T) {
	storage := &memoryStorage{saveErr: errors.New("disk full")}
	mgr := newManager(storage)

	res, err := mgr.Execute(context.Background(), "add_class n/CS2103T")
	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.True(t, shared.IsPersistence(err))
	assert.Contains(t, res.Feedback, "CS2103T")
	assert.Len(t, mgr.Model().FilteredModuleClasses(), 1, "the in-memory change survives a failed save")
}

func TestManager_UndoIsSaved(t *testing.T) {
	storage := &memoryStorage{}
	mgr := newManager(storage)
	ctx := context.Background()

	_, err := mgr.Execute(ctx, "add_class n/CS2100")
	require.NoError(t, err)
	_, err = mgr.Execute(ctx, "undo")
	require.NoError(t, err)

	assert.Equal(t, 2, storage.saves)
	assert.Empty(t, storage.saved.ModuleClasses())
}

func TestManager_LogsLabelsAndCascades(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelDebug})
	mgr := NewManager(model.New(roster.New(), ""), cli.NewParser(), &memoryStorage{}, log)
	ctx := context.Background()

	for _, line := range []string{
		"add_student n/Alex Yeoh p/87438807 e/alexyeoh@example.com",
		"add_class n/CS2103T",
		"enrol c/1 s/1",
		"delete_student 1",
		"undo",
	} {
		_, err := mgr.Execute(ctx, line)
		require.NoError(t, err, line)
	}

	out := buf.String()
	assert.Contains(t, out, `"label":"Enrolled Alex Yeoh in CS2103T"`)
	assert.Contains(t, out, `"message":"student deleted"`)
	assert.Contains(t, out, `"classes_cascaded":1`)
	assert.Contains(t, out, `"student_id":"`)
	assert.Contains(t, out, `"command":"undo"`)
}

func TestLoadRoster(t *testing.T) {
	ctx := context.Background()

	r, err := LoadRoster(ctx, &memoryStorage{}, LoadOptions{}, discard())
	require.NoError(t, err)
	assert.Empty(t, r.Students())

	r, err = LoadRoster(ctx, &memoryStorage{}, LoadOptions{SampleOnMissing: true}, discard())
	require.NoError(t, err)
	assert.NotEmpty(t, r.Students())

	corrupt := shared.WrapError("storage", "Load", shared.ErrCorruptData, "bad", errors.New("x"))
	r, err = LoadRoster(ctx, &memoryStorage{loadErr: corrupt}, LoadOptions{SampleOnMissing: true}, discard())
	require.NoError(t, err)
	assert.Empty(t, r.Students(), "corrupt data never falls back to samples")

	broken := shared.WrapError("storage", "Load", shared.ErrPersistence, "unreachable", errors.New("x"))
	_, err = LoadRoster(ctx, &memoryStorage{loadErr: broken}, LoadOptions{}, discard())
	assert.ErrorIs(t, err, shared.ErrPersistence)
}
