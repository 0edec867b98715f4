// Package logic runs one command line at a time: parse, execute, save.
package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tutorspet/tutorspet/internal/application/command"
	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// Parser turns an input line into a command.
type Parser interface {
	Parse(line string) (command.Command, error)
}

// Manager owns the model and writes it to storage after every change.
type Manager struct {
	model   *model.Model
	parser  Parser
	storage roster.Storage
	log     *logger.Logger
}

// NewManager creates a Manager.
func NewManager(m *model.Model, parser Parser, storage roster.Storage, log *logger.Logger) *Manager {
	return &Manager{
		model:   m,
		parser:  parser,
		storage: storage,
		log:     log.With(logger.Component("logic")),
	}
}

// Model returns the model the manager executes against.
func (m *Manager) Model() *model.Model {
	return m.model
}

// Execute parses and runs line. When the command changed the roster it is
// saved; if only the save fails the change stays in memory, the result is
// still returned and the error wraps shared.ErrPersistence.
func (m *Manager) Execute(ctx context.Context, line string) (command.Result, error) {
	word, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	log := m.log.With(logger.Command(word))

	cmd, err := m.parser.Parse(line)
	if err != nil {
		log.Debug("parse failed", logger.Err(err))
		return command.Result{}, err
	}

	start := time.Now()
	res, err := cmd.Execute(logger.WithContext(ctx, log), m.model)
	if err != nil {
		log.Debug("command failed", logger.Err(err))
		return command.Result{}, err
	}
	log.Debug("command executed",
		logger.Bool("mutated", res.Mutated),
		logger.Latency(time.Since(start)),
	)

	if !res.Mutated {
		return res, nil
	}
	log.Info("roster changed", logger.Label(m.currentLabel()))
	if err := m.storage.Save(ctx, m.model.Roster()); err != nil {
		log.Error("save failed", logger.Err(err))
		return res, wrapSave(err)
	}
	return res, nil
}

func wrapSave(err error) error {
	if errors.Is(err, shared.ErrPersistence) {
		return err
	}
	return shared.WrapError("storage", "Save", shared.ErrPersistence, "changes are kept in memory but were not written to storage", err)
}

// currentLabel is the history label of the state now in the working copy.
func (m *Manager) currentLabel() string {
	cursor, labels := m.model.Roster().History()
	return labels[cursor]
}
