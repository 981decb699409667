package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KaramelBytes/spendlens/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Entry is one stored blob.
type Entry struct {
	ID        string    `json:"id"`
	Value     []byte    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type document struct {
	Entries map[string]*Entry `json:"entries"`
}

// FileStore keeps every entry in a single JSON document that is rewritten
// atomically on each change.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  logrus.FieldLogger
	doc  document
}

// OpenFile loads the document at path, starting empty if it does not exist.
func OpenFile(path string, log logrus.FieldLogger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: path not set")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &FileStore{path: path, log: log.WithField("store", DriverFile), doc: document{Entries: map[string]*Entry{}}}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.WithField("path", path).Debug("store file not found, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(b, &s.doc); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	if s.doc.Entries == nil {
		s.doc.Entries = map[string]*Entry{}
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.doc.Entries[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	out := make([]byte, len(e.Value))
	copy(out, e.Value)
	return out, nil
}

func (s *FileStore) Put(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	e, ok := s.doc.Entries[key]
	var prev Entry
	if ok {
		prev = *e
	} else {
		e = &Entry{ID: uuid.NewString(), CreatedAt: now}
		s.doc.Entries[key] = e
	}
	e.Value = append([]byte(nil), blob...)
	e.UpdatedAt = now
	if err := s.save(); err != nil {
		// Keep memory in step with the file on disk.
		if ok {
			*e = prev
		} else {
			delete(s.doc.Entries, key)
		}
		return err
	}
	s.log.WithFields(logrus.Fields{"key": key, "id": e.ID, "bytes": len(blob)}).Debug("put")
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.doc.Entries[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	delete(s.doc.Entries, key)
	if err := s.save(); err != nil {
		s.doc.Entries[key] = e
		return err
	}
	s.log.WithField("key", key).Debug("delete")
	return nil
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.doc.Entries))
	for k := range s.doc.Entries {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Entry returns a copy of the stored metadata for key.
func (s *FileStore) Entry(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.doc.Entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (s *FileStore) Close() error { return nil }

// save must be called with mu held.
func (s *FileStore) save() error {
	if err := utils.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(s.doc)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(s.path, data)
}
