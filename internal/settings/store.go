package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Mask replaces secret values on read; a write carrying the mask means
// "leave unchanged".
const Mask = "***"

// secretKeys are masked on read and never echoed back.
var secretKeys = map[string]bool{
	"ADMIN_PASSWORD":    true,
	"NOTION_API_KEY":    true,
	"STRIPE_SECRET_KEY": true,
	"UPS_API_KEY":       true,
	"UPS_PASSWORD":      true,
}

// IsSecret reports whether the key's value must be masked on read.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// Store reads and writes a flat key=value settings file.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns all keys with secret values masked.
func (s *Store) Read() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.readFile()
	if err != nil {
		return nil, err
	}
	for key := range env {
		if IsSecret(key) {
			env[key] = Mask
		}
	}
	return env, nil
}

// Get returns the raw (unmasked) value for one key. Used internally for
// credential lookups, never exposed over HTTP.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.readFile()
	if err != nil {
		return "", err
	}
	return env[key], nil
}

// Write merges updates into the file. A blank or masked value means
// "unchanged" for secret keys; a blank value deletes a non-secret key.
func (s *Store) Write(updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.readFile()
	if err != nil {
		return err
	}

	for key, value := range updates {
		if value == Mask {
			continue
		}
		if value == "" {
			if !IsSecret(key) {
				delete(env, key)
			}
			continue
		}
		env[key] = value
	}

	return s.writeFile(env)
}

func (s *Store) readFile() (map[string]string, error) {
	env := make(map[string]string)

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			continue
		}
		env[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return env, nil
}

// writeFile rewrites the settings file atomically via temp + rename so a
// crash mid-write never leaves a truncated credentials file.
func (s *Store) writeFile(env map[string]string) error {
	keys := make([]string, 0, len(env))
	for key, value := range env {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, env[key])
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
