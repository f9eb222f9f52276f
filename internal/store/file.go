package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	stateFilePermissions = 0o640
	stateDirPermissions  = 0o750
)

// ErrCorruptState indicates the state file is malformed JSON.
var ErrCorruptState = errors.New("state file is corrupted")

// FileStorage implements state persistence using the filesystem.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new file-based state storage.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save writes the state to the filesystem.
func (s *FileStorage) Save(state *State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, stateDirPermissions); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(s.path, data, stateFilePermissions); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}

	return nil
}

// Load reads the state from the filesystem. Returns empty state if the file
// doesn't exist. A corrupt file is moved aside rather than deleted.
func (s *FileStorage) Load() (*State, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return &State{Version: 1}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		corruptPath := fmt.Sprintf("%s.corrupt.%d", s.path, time.Now().UTC().UnixNano())
		if renameErr := os.Rename(s.path, corruptPath); renameErr != nil {
			return &State{Version: 1}, fmt.Errorf("%w: %w (also failed to move file: %w)", ErrCorruptState, err, renameErr)
		}
		return &State{Version: 1}, fmt.Errorf("%w: %w (moved to %s)", ErrCorruptState, err, corruptPath)
	}

	if state.Version == 0 {
		state.Version = 1
	}

	return &state, nil
}
