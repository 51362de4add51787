package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ikkim/hotel-admin-backend/pkg/console"
)

// sessionFile persists the console session between invocations
type sessionFile struct {
	path string
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hotelctl", "session.json")
}

// Load returns an empty session when no file exists yet
func (f *sessionFile) Load() (*console.Session, error) {
	session := console.NewSession()
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var st console.SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", f.path, err)
	}
	session.Restore(st)
	return session, nil
}

// Save writes the session, or removes the file once the session is cleared
func (f *sessionFile) Save(session *console.Session) error {
	st := session.State()
	if st.Token == "" {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}
