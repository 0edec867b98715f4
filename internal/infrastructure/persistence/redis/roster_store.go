package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/snapshot"
	"github.com/tutorspet/tutorspet/pkg/logger"
)

// RosterStore implements roster.Storage on a single Redis hash.
type RosterStore struct {
	client     redis.Cmdable
	key        string
	log        *logger.Logger
	lastDigest string
}

// NewRosterStore creates a RosterStore writing under prefix.
func NewRosterStore(client redis.Cmdable, prefix string, log *logger.Logger) *RosterStore {
	return &RosterStore{
		client: client,
		key:    RosterKey(prefix),
		log:    log.With(logger.Backend("redis")),
	}
}

// Load reads the stored snapshot. A missing key is reported as shared.ErrNoData.
func (s *RosterStore) Load(ctx context.Context) (*roster.Roster, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrPersistence, "read "+s.key, err)
	}
	raw, ok := fields[fieldDocument]
	if !ok {
		return nil, shared.ErrNoData
	}

	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		return nil, err
	}
	r, err := doc.ToRoster()
	if err != nil {
		return nil, err
	}
	s.lastDigest = fields[fieldDigest]
	return r, nil
}

// Save writes data and its digest in one MULTI/EXEC block. Saving content
// identical to the last save or load is a no-op.
func (s *RosterStore) Save(ctx context.Context, data roster.ReadOnlyRoster) error {
	doc := snapshot.FromRoster(data)
	digest, err := doc.Digest()
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "digest", err)
	}
	if digest == s.lastDigest {
		s.log.Debug("roster unchanged, skipping save")
		return nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "encode",
			fmt.Errorf("%w: %v", ErrSerialization, err))
	}

	start := time.Now()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key,
			fieldDocument, payload,
			fieldDigest, digest,
			fieldSavedAt, time.Now().UTC().Format(time.RFC3339),
		)
		return nil
	})
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "write "+s.key, err)
	}

	s.lastDigest = digest
	s.log.Debug("roster saved",
		logger.Int("bytes", len(payload)),
		logger.Latency(time.Since(start)),
	)
	return nil
}

func decodeDocument(raw []byte) (snapshot.Document, error) {
	var doc snapshot.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return snapshot.Document{}, shared.WrapError("storage", "Load", shared.ErrCorruptData,
			"stored roster is not valid JSON", fmt.Errorf("%w: %v", ErrSerialization, err))
	}
	return doc, nil
}
