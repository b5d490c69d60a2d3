package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// savedCookie is the on-disk form of a session cookie.
type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
}

type sessionFile struct {
	Backend string        `json:"backend"`
	SavedAt time.Time     `json:"saved_at"`
	Cookies []savedCookie `json:"cookies"`
}

// SaveCookies writes the backend session cookies to path, readable by the
// owner only. Saving no cookies removes the file.
func SaveCookies(path, backend string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return RemoveCookies(path)
	}
	f := sessionFile{Backend: backend, SavedAt: time.Now().UTC()}
	for _, c := range cookies {
		f.Cookies = append(f.Cookies, savedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadCookies reads cookies saved for backend. A missing file, a file saved
// for another backend and expired cookies all yield nothing.
func LoadCookies(path, backend string) ([]*http.Cookie, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	if f.Backend != backend {
		logger.Info("ignoring session saved for another backend", "saved", f.Backend, "backend", backend)
		return nil, nil
	}

	now := time.Now()
	var cookies []*http.Cookie
	for _, c := range f.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", Expires: c.Expires})
	}
	return cookies, nil
}

// RemoveCookies deletes the session file if present.
func RemoveCookies(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
