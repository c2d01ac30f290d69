package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/portfolio/internal/schemas"
)

// ErrInvalid is returned when a document does not match its schema.
var ErrInvalid = errors.New("invalid document")

const (
	settingsFile = "settings.json"
	profileFile  = "profile.json"
)

// Store reads and writes the documents under one directory.
type Store struct {
	dir          string
	defaultEmail string
	logger       *slog.Logger

	mu sync.RWMutex
}

// NewStore creates the directory if needed. defaultEmail seeds the profile
// returned before one is saved.
func NewStore(dir, defaultEmail string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, defaultEmail: defaultEmail, logger: logger}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Settings returns the saved settings, or the defaults when none are saved or
// the saved file is unreadable.
func (s *Store) Settings() Settings {
	var out Settings
	if !s.read(settingsFile, schemas.Settings, &out) {
		return DefaultSettings()
	}
	return out
}

// SaveSettings validates and writes the settings.
func (s *Store) SaveSettings(v Settings) error {
	return s.write(settingsFile, schemas.Settings, v)
}

// Profile returns the saved profile, or the default one.
func (s *Store) Profile() Profile {
	var out Profile
	if !s.read(profileFile, schemas.Profile, &out) {
		return DefaultProfile(s.defaultEmail)
	}
	return out
}

// SaveProfile validates and writes the profile.
func (s *Store) SaveProfile(v Profile) error {
	return s.write(profileFile, schemas.Profile, v)
}

// DecodeSettings parses a settings document, rejecting keys the schema does
// not allow.
func DecodeSettings(data []byte) (Settings, error) {
	var v Settings
	err := decode(data, schemas.Settings, &v)
	return v, err
}

// DecodeProfile parses a profile document.
func DecodeProfile(data []byte) (Profile, error) {
	var v Profile
	err := decode(data, schemas.Profile, &v)
	return v, err
}

func decode(data []byte, name schemas.Name, v any) error {
	if err := schemas.Validate(name, data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (s *Store) read(file string, name schemas.Name, v any) bool {
	s.mu.RLock()
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	s.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		s.logger.Warn("failed to read document", "file", file, "error", err)
		return false
	}
	if err := decode(data, name, v); err != nil {
		s.logger.Warn("ignoring invalid document", "file", file, "error", err)
		return false
	}
	return true
}

func (s *Store) write(file string, name schemas.Name, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := schemas.Validate(name, jsonBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, file+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(jsonBytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, file)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", file, err)
	}
	return nil
}
