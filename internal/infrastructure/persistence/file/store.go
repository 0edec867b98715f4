// Package file stores the roster as a single JSON or YAML document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/snapshot"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml". An empty value is inferred
// from the file extension of path, defaulting to JSON.
func ParseFormat(value, path string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		v = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if v != "yaml" && v != "yml" {
			v = "json"
		}
	}
	switch v {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("file: unknown format %q", value)
	}
}

// Store implements roster.Storage on a local file.
type Store struct {
	path   string
	format Format
}

// NewStore creates a store for path.
func NewStore(path string, format Format) *Store {
	return &Store{path: path, format: format}
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the document. A missing file is shared.ErrNoData.
func (s *Store) Load(_ context.Context) (*roster.Roster, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrNoData
	}
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrPersistence, "read "+s.path, err)
	}

	var doc snapshot.Document
	if err := s.decode(data, &doc); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrCorruptData, "decode "+s.path, err)
	}
	return doc.ToRoster()
}

// Save writes the document through a temporary file and a rename, so a
// failed write never truncates the previous data.
func (s *Store) Save(_ context.Context, data roster.ReadOnlyRoster) error {
	encoded, err := s.encode(snapshot.FromRoster(data))
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "encode", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "create "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "write "+tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "close "+tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrPersistence, "replace "+s.path, err)
	}
	return nil
}

func (s *Store) encode(doc snapshot.Document) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (s *Store) decode(data []byte, doc *snapshot.Document) error {
	if s.format == FormatYAML {
		return yaml.Unmarshal(data, doc)
	}
	return json.Unmarshal(data, doc)
}
