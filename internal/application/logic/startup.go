package logic

import (
	"context"
	"errors"

	"github.com/tutorspet/tutorspet/internal/application/sampledata"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// LoadOptions controls what LoadRoster falls back to.
type LoadOptions struct {
	// SampleOnMissing starts from sample data when storage holds nothing.
	SampleOnMissing bool
}

// LoadRoster reads the starting roster. Missing data yields sample data or
// an empty roster; corrupt data yields an empty roster and a warning. Any
// other storage failure is returned.
func LoadRoster(ctx context.Context, storage roster.Storage, opts LoadOptions, log *logger.Logger) (*roster.Roster, error) {
	log = log.With(logger.Component("startup"))

	r, err := storage.Load(ctx)
	switch {
	case err == nil:
		log.Info("roster loaded",
			logger.Int("students", len(r.Students())),
			logger.Int("classes", len(r.ModuleClasses())),
		)
		return r, nil

	case errors.Is(err, shared.ErrNoData):
		if !opts.SampleOnMissing {
			log.Info("no stored roster, starting empty")
			return roster.New(), nil
		}
		log.Info("no stored roster, starting with sample data")
		return sampledata.Roster()

	case errors.Is(err, shared.ErrCorruptData):
		log.Warn("stored roster is invalid, starting empty", logger.Err(err))
		return roster.New(), nil

	default:
		return nil, err
	}
}
