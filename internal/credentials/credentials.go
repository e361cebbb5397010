// Package credentials persists the client's session tokens between runs.
package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o700
	filePerms = 0o600
)

// Credentials are the tokens a session survives on: the bearer access token
// and the refresh token the backend hands out as a cookie.
type Credentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Store loads and saves Credentials.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// File keeps credentials in a JSON file readable only by the owner.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Load returns empty credentials when the file does not exist.
func (f *File) Load() (Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials %s: %w", f.path, err)
	}
	return creds, nil
}

func (f *File) Save(creds Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), dirPerms); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(f.path, filePerms); err != nil {
		return fmt.Errorf("failed to set credentials permissions: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Memory is a Store that lives for the life of the process.
type Memory struct {
	mu    sync.Mutex
	creds Credentials
}

func (m *Memory) Load() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *Memory) Save(creds Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	return nil
}
