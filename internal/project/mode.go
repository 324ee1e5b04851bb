package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// ModeKey is the key the UI mode is stored under in the UI state file.
const ModeKey = "ui_mode"

// DefaultUIStatePath returns ~/.glassquote/ui-state.json.
func DefaultUIStatePath() string {
	return filepath.Join(DefaultConfigDir(), "ui-state.json")
}

// ModeStore reads and writes the persisted UI mode. Other keys in the state
// file are preserved.
type ModeStore struct {
	mu   sync.Mutex
	path string
}

// NewModeStore returns a store backed by path.
func NewModeStore(path string) *ModeStore {
	return &ModeStore{path: path}
}

// Load returns the stored mode. A missing file, missing key or unknown value
// yields model.DefaultMode.
func (s *ModeStore) Load() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		return model.DefaultMode
	}
	var raw string
	if err := json.Unmarshal(state[ModeKey], &raw); err != nil {
		return model.DefaultMode
	}
	mode, ok := model.ParseMode(raw)
	if !ok {
		return model.DefaultMode
	}
	return mode
}

// Save writes mode under ModeKey.
func (s *ModeStore) Save(mode model.Mode) error {
	if _, ok := model.ParseMode(string(mode)); !ok {
		return fmt.Errorf("unknown mode %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.read()
	if err != nil {
		state = map[string]json.RawMessage{}
	}
	raw, _ := json.Marshal(string(mode))
	state[ModeKey] = raw
	return writeJSON(s.path, state)
}

func (s *ModeStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state == nil {
		state = map[string]json.RawMessage{}
	}
	return state, nil
}
