package settings

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	settingsVersion   = 1
	DefaultStorefront = "auto"

	// SwatchHost leaves the host's own accent in place for that target.
	SwatchHost = "cider"
)

var (
	ErrSettingsCorrupt = errors.New("settings corrupt")
	ErrInvalidValue    = errors.New("invalid settings value")
)

type Algorithm string

const (
	AlgorithmSwatch  Algorithm = "swatch"
	AlgorithmVibrant Algorithm = "vibrant"
)

type Scheme string

const (
	SchemeMatch Scheme = "match"
	SchemeFlip  Scheme = "flip"
)

// Swatches lists the artwork descriptor fields a target can read from.
var Swatches = []string{"textColor1", "textColor2", "textColor3", "textColor4", "bgColor"}

type Config struct {
	Frozen        bool
	Algorithm     Algorithm
	KeyColor      string
	MusicKeyColor string
	Scheme        Scheme
}

func Defaults() Config {
	return Config{
		Frozen:        false,
		Algorithm:     AlgorithmSwatch,
		KeyColor:      "textColor1",
		MusicKeyColor: "textColor4",
		Scheme:        SchemeMatch,
	}
}

func (c Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmSwatch, AlgorithmVibrant:
	default:
		return fmt.Errorf("%w: algorithm %q", ErrInvalidValue, c.Algorithm)
	}
	switch c.Scheme {
	case SchemeMatch, SchemeFlip:
	default:
		return fmt.Errorf("%w: scheme %q", ErrInvalidValue, c.Scheme)
	}
	if !validSwatch(c.KeyColor) {
		return fmt.Errorf("%w: keyColor %q", ErrInvalidValue, c.KeyColor)
	}
	if !validSwatch(c.MusicKeyColor) {
		return fmt.Errorf("%w: musicKeyColor %q", ErrInvalidValue, c.MusicKeyColor)
	}
	return nil
}

func validSwatch(name string) bool {
	return name == SwatchHost || lo.Contains(Swatches, name)
}

type record struct {
	Version    uint8
	Config     Config
	Storefront string
}

// Store keeps the plugin configuration in memory and mirrors every change to
// a gob file. A store without a path is memory only.
type Store struct {
	path string
	mu   sync.RWMutex
	rec  record
	subs []chan Config
}

// Open loads the store at path, falling back to defaults when the file is
// missing or from an older format.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		rec:  record{Version: settingsVersion, Config: Defaults(), Storefront: DefaultStorefront},
	}
	if path == "" {
		return s, nil
	}

	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}

	rec, err := readFromDisk(path)
	switch {
	case err == nil:
		s.rec = *rec
	case errors.Is(err, os.ErrNotExist), errors.Is(err, ErrSettingsCorrupt):
		// keep defaults
	default:
		return nil, err
	}

	return s, nil
}

// NewMemory returns a store that never touches disk.
func NewMemory(cfg Config) *Store {
	return &Store{rec: record{Version: settingsVersion, Config: cfg, Storefront: DefaultStorefront}}
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Config
}

func (s *Store) Storefront() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec.Storefront == "" {
		return DefaultStorefront
	}
	return s.rec.Storefront
}

func (s *Store) SetStorefront(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultStorefront
	}
	return s.mutate(func(r *record) error {
		r.Storefront = id
		return nil
	})
}

// Update applies fn to a copy of the configuration and stores it if valid.
func (s *Store) Update(fn func(*Config)) error {
	return s.mutate(func(r *record) error {
		cfg := r.Config
		fn(&cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		r.Config = cfg
		return nil
	})
}

func (s *Store) Reset() error {
	return s.mutate(func(r *record) error {
		r.Config = Defaults()
		r.Storefront = DefaultStorefront
		return nil
	})
}

// Reload rereads the file, picking up changes made by another process.
// Subscribers are notified when the configuration differs.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	rec, err := readFromDisk(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.rec.Config != rec.Config
	s.rec = *rec
	subs := append([]chan Config(nil), s.subs...)
	s.mu.Unlock()

	if changed {
		notify(subs, rec.Config)
	}
	return nil
}

func notify(subs []chan Config, cfg Config) {
	for _, ch := range subs {
		select {
		case ch <- cfg:
		default:
		}
	}
}

// Subscribe returns a channel that receives the configuration after every
// change. Slow readers miss intermediate values.
func (s *Store) Subscribe() <-chan Config {
	ch := make(chan Config, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) mutate(fn func(*record) error) error {
	s.mu.Lock()
	next := s.rec
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.Version = settingsVersion
	s.rec = next
	subs := append([]chan Config(nil), s.subs...)
	s.mu.Unlock()

	notify(subs, next.Config)

	if s.path == "" {
		return nil
	}
	return writeToDisk(s.path, &next)
}

func readFromDisk(path string) (*record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rec record
	err = gob.NewDecoder(file).Decode(&rec)
	if err != nil {
		return nil, ErrSettingsCorrupt
	}

	// version mismatch means stale format
	if rec.Version != settingsVersion {
		return nil, ErrSettingsCorrupt
	}
	if rec.Config.Validate() != nil {
		return nil, ErrSettingsCorrupt
	}

	return &rec, nil
}

func writeToDisk(path string, rec *record) error {
	// write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(rec)
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Sync()
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
