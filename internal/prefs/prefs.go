// Package prefs is a small durable key-value store for per-user
// generation preferences. Reads never fail: a missing file, a corrupt
// file or an absent key all fall back to the caller's default, because
// preferences are a convenience and must never block a generation.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/looplj/mediahub/internal/log"
)

// Preference keys. The negative prompt is deliberately not among them;
// it is request-scoped input, not a setting.
const (
	KeyAutoSaveEnabled        = "auto_save_enabled"
	KeyPreferredDirectoryName = "preferred_directory_name"
	KeyLastUsedSeed           = "last_used_seed"
)

// Config locates the preference file.
type Config struct {
	Path string `conf:"path" yaml:"path" json:"path"`
}

// DefaultConfig returns the default preference file location.
func DefaultConfig() Config {
	return Config{Path: "./prefs.json"}
}

// Store holds preferences in memory and mirrors every write to a JSON
// file. The in-memory copy is authoritative after Open.
type Store struct {
	fs   afero.Fs
	path string

	mu    sync.Mutex
	cache *gocache.Cache
}

// Open loads the preference file from fs. A missing or unreadable file
// yields an empty store, not an error; only a broken filesystem setup
// fails.
func Open(ctx context.Context, fs afero.Fs, config Config) (*Store, error) {
	if config.Path == "" {
		config = DefaultConfig()
	}

	s := &Store{
		fs:    fs,
		path:  config.Path,
		cache: gocache.New(gocache.NoExpiration, 0),
	}

	data, err := afero.ReadFile(fs, s.path)
	if err != nil {
		log.Debug(ctx, "no preference file, starting empty", log.String("path", s.path))
		return s, nil
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		log.Warn(ctx, "preference file is corrupt, starting empty",
			log.String("path", s.path),
			log.Cause(err),
		)

		return s, nil
	}

	for k, v := range values {
		s.cache.Set(k, v, gocache.NoExpiration)
	}

	return s, nil
}

// Read returns the raw stored value for key.
func (s *Store) Read(key string) (any, bool) {
	return s.cache.Get(key)
}

// Bool reads key as a boolean, falling back to def.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.cache.Get(key)
	if !ok {
		return def
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}

	return b
}

// String reads key as a string, falling back to def.
func (s *Store) String(key, def string) string {
	v, ok := s.cache.Get(key)
	if !ok {
		return def
	}

	str, err := cast.ToStringE(v)
	if err != nil {
		return def
	}

	return str
}

// Int64 reads key as an int64. The second return reports presence.
func (s *Store) Int64(key string) (int64, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return 0, false
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Write stores key and flushes the whole store to disk. Callers treat
// failures as warnings; a preference that did not stick is not a
// request failure.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, value, gocache.NoExpiration)

	if err := s.flush(); err != nil {
		return fmt.Errorf("failed to persist preference %q: %w", key, err)
	}

	log.Debug(ctx, "preference saved", log.String("key", key), log.Any("value", value))

	return nil
}

// Close flushes the store one last time.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flush()
}

func (s *Store) flush() error {
	items := s.cache.Items()

	values := make(map[string]any, len(items))
	for k, item := range items {
		values[k] = item.Object
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	if dir := path.Dir(s.path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return afero.WriteFile(s.fs, s.path, data, 0o644)
}
