package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/article-comments-api/internal/config"
	"github.com/article-comments-api/internal/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Store persists the whole comment corpus as a single YAML document.
// Every Save rewrites the full file; every Load reads it back.
type Store struct {
	path string
	log  zerolog.Logger
	// initMu guards creation of the empty document
	initMu sync.Mutex
}

// New opens the comment document at cfg.Path, creating an empty one if absent
func New(cfg *config.StoreConfig, log zerolog.Logger) (*Store, error) {
	path := filepath.Clean(cfg.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for %s", path)
	}

	s := &Store{
		path: path,
		log:  log.With().Str("component", "document_store").Logger(),
	}

	if err := s.ensureExists(); err != nil {
		return nil, err
	}

	s.log.Info().Str("path", path).Msg("Comment document ready")
	return s, nil
}

// Path returns the location of the document on disk
func (s *Store) Path() string {
	return s.path
}

// Load reads the full corpus for read paths. A missing document is
// recreated empty; an unreadable or unparsable one is logged and treated
// as empty.
func (s *Store) Load(ctx context.Context) models.Corpus {
	corpus, err := s.LoadStrict(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Error loading comments, serving empty corpus")
		return models.Corpus{}
	}
	return corpus
}

// LoadStrict reads the full corpus for write paths. A missing document is
// recreated and yields an empty corpus; read and parse failures are returned.
func (s *Store) LoadStrict(ctx context.Context) (models.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.ensureExists(); err != nil {
			s.log.Error().Err(err).Msg("Failed to recreate comment document")
		}
		return models.Corpus{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}

	return decode(data)
}

// Save serializes the corpus and atomically replaces the document
func (s *Store) Save(ctx context.Context, corpus models.Corpus) error {
	data, err := encode(corpus)
	if err != nil {
		s.log.Error().Err(err).Msg("Error encoding comments")
		return err
	}

	if err := s.writeAtomic(data); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Error saving comments")
		return err
	}

	s.log.Debug().Int("articles", len(corpus)).Int("bytes", len(data)).Msg("Comments saved")
	return nil
}

// HealthCheck verifies the document is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return errors.Wrap(err, "comment document unavailable")
	}
	if info.IsDir() {
		return errors.Errorf("comment document %s is a directory", s.path)
	}
	return nil
}

func (s *Store) ensureExists() error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to stat %s", s.path)
	}

	data, err := encode(models.Corpus{})
	if err != nil {
		return err
	}
	return s.writeAtomic(data)
}

// writeAtomic writes to a temp file in the same directory and renames it over
// the document, so readers see either the old or the new content.
func (s *Store) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrap(err, "failed to set document permissions")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, "failed to replace comment document")
	}
	committed = true
	return nil
}

func encode(corpus models.Corpus) ([]byte, error) {
	if corpus == nil {
		corpus = models.Corpus{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(corpus); err != nil {
		return nil, errors.Wrap(err, "failed to marshal comments")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush comments")
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (models.Corpus, error) {
	corpus := models.Corpus{}
	if len(bytes.TrimSpace(data)) == 0 {
		return corpus, nil
	}
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal comments")
	}
	if corpus == nil {
		corpus = models.Corpus{}
	}
	return corpus, nil
}
