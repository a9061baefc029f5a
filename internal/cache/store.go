package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// entryFileExtension is the file extension used for cache entries.
const entryFileExtension = ".json"

// DefaultMaxAge is the default entry lifetime (one day).
const DefaultMaxAge = 24 * time.Hour

// ErrEmptyDirectory is returned when a FileStore is constructed without a
// cache directory.
var ErrEmptyDirectory = errors.New("cache directory cannot be empty")

// Store is the cache contract shared by the file and Redis backends.
// Reads are fail-soft: any absent, expired, or unreadable entry is a miss.
type Store interface {
	// Get returns the cached value for key, or false on any kind of miss.
	Get(ctx context.Context, key string) (json.RawMessage, bool)

	// Set stores value under key, replacing any previous entry and
	// resetting its age. A returned error is never fatal to the caller's
	// workflow; it means the value simply was not cached.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the entry for key. Removing an absent entry is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry in the cache.
	Clear(ctx context.Context) error

	// ClearExpired removes all stale (and unreadable) entries and returns
	// the number removed.
	ClearExpired(ctx context.Context) int
}

// FileStore is a file-per-entry cache. Each entry lives in its own JSON
// file named by the SHA-256 digest of its key. Designed for sequential
// single-process use; there is no cross-process locking.
type FileStore struct {
	dir    string
	maxAge time.Duration
	logger zerolog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed cache rooted at dir, creating the
// directory if needed. Entries older than maxAge read as misses. This is
// the one place a cache failure is fatal: without a writable directory the
// cache cannot function at all.
func NewFileStore(dir string, maxAge time.Duration, logger zerolog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, ErrEmptyDirectory
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	logger.Debug().Str("dir", dir).Dur("max_age", maxAge).Msg("cache initialized")
	return &FileStore{
		dir:    dir,
		maxAge: maxAge,
		logger: logger,
	}, nil
}

// Get retrieves the value stored under key. Expired entries are reported
// as misses but left on disk for ClearExpired to reclaim; reading never
// extends an entry's lifetime.
func (s *FileStore) Get(_ context.Context, key string) (json.RawMessage, bool) {
	path := s.entryPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("corrupt cache entry, treating as miss")
		return nil, false
	}

	if entry.Expired(s.maxAge) {
		s.logger.Debug().Str("key", key).Msg("cache entry expired")
		return nil, false
	}

	s.logger.Debug().Str("key", key).Msg("cache hit")
	return entry.Data, true
}

// Set serializes value and writes it under key, overwriting any previous
// entry. The write goes to a temp file first and is renamed into place so
// a crash mid-write cannot leave a truncated entry behind.
func (s *FileStore) Set(_ context.Context, key string, value any) error {
	entry, err := NewEntry(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache serialization failed")
		return fmt.Errorf("serializing cache entry: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache serialization failed")
		return fmt.Errorf("serializing cache entry: %w", err)
	}

	path := s.entryPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		return fmt.Errorf("committing cache entry: %w", err)
	}

	s.logger.Debug().Str("key", key).Msg("cached")
	return nil
}

// Delete removes the entry for key if present.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.entryPath(key))
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry file in the cache directory. The first
// deletion failure aborts the remaining sweep.
func (s *FileStore) Clear(_ context.Context) error {
	paths, err := s.entryFiles()
	if err != nil {
		s.logger.Warn().Err(err).Msg("cache clear failed")
		return err
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("cache clear failed")
			return fmt.Errorf("removing cache entry %s: %w", filepath.Base(path), err)
		}
	}

	s.logger.Debug().Int("entries", len(paths)).Msg("cache cleared")
	return nil
}

// ClearExpired scans every entry and removes the stale ones. Unlike Get,
// which tolerates corrupt files, the sweep reclaims them: an entry that
// cannot be parsed at all is deleted and counted. Returns the number of
// entries removed; a directory-level failure returns the count so far.
func (s *FileStore) ClearExpired(_ context.Context) int {
	paths, err := s.entryFiles()
	if err != nil {
		s.logger.Warn().Err(err).Msg("expiry sweep failed to list cache directory")
		return 0
	}

	removed := 0
	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			if os.Remove(path) == nil {
				removed++
			}
			continue
		}

		var entry Entry
		if json.Unmarshal(data, &entry) != nil || entry.Expired(s.maxAge) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}

	s.logger.Debug().Int("removed", removed).Msg("expiry sweep complete")
	return removed
}

// Count returns the number of entry files currently in the cache,
// including stale ones.
func (s *FileStore) Count() (int, error) {
	paths, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// Size returns the total on-disk size of all entry files in bytes.
func (s *FileStore) Size() (int64, error) {
	paths, err := s.entryFiles()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, path := range paths {
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// Dir returns the cache directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// MaxAge returns the configured entry lifetime.
func (s *FileStore) MaxAge() time.Duration {
	return s.maxAge
}

func (s *FileStore) entryPath(key string) string {
	return filepath.Join(s.dir, Digest(key)+entryFileExtension)
}

func (s *FileStore) entryFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != entryFileExtension {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, de.Name()))
	}
	return paths, nil
}
