// Package auth stores the bearer token that protects the HTTP API of
// `tasks serve`.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	EnvToken     = "TASKS_TOKEN"
)

// TokenInfo is a token and where it came from.
type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Dir is the directory holding the credentials file. Tests override it.
var Dir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tasks"), nil
}

func credFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Get returns the configured token, or nil when there is none.
// The environment variable wins over the file.
func Get() (*TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: StripBearer(env), Source: "env"}, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = StripBearer(ti.Token)
	ti.Source = "file"
	if ti.Token == "" {
		return nil, nil
	}
	return &ti, nil
}

// Set saves token to the credentials file with owner-only permissions.
func Set(token string) error {
	token = StripBearer(strings.TrimSpace(token))
	if token == "" {
		return errors.New("empty token")
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the credentials file. A missing file is not an error.
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// StripBearer removes a leading "Bearer " (any case).
func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "bearer") {
		return ""
	}
	if len(s) >= 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
