// Package manifest records what a build produced: the inputs it saw, the
// transforms it ran and a fingerprint per page.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Build status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type BuildManifest struct {
	ID        string    `json:"id"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Plan      Plan      `json:"plan"`
	Pages     []Page    `json:"pages"`
	Assets    int       `json:"assets"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

type Inputs struct {
	ConfigHash  string `json:"config_hash"`
	ContentHash string `json:"content_hash"`
}

type Plan struct {
	BaseURL    string   `json:"base_url"`
	BasePath   string   `json:"base_path"`
	Transforms []string `json:"transforms"`
}

// Page describes one rendered document.
type Page struct {
	Slug          string     `json:"slug"`
	Source        string     `json:"source"`
	Output        string     `json:"output"`
	Fingerprint   string     `json:"fingerprint"`
	ExternalLinks int        `json:"external_links"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

// NewBuildID returns a fresh random build identifier.
func NewBuildID() string {
	return uuid.NewString()
}

func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash identifies the build inputs and plan. Two builds with the same hash
// rendered the same content with the same configuration.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		Inputs Inputs `json:"inputs"`
		Plan   Plan   `json:"plan"`
	}{m.Inputs, m.Plan}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write stores the manifest as indented JSON at path.
func (m *BuildManifest) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode build manifest").Build()
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write build manifest").
			WithContext("path", path).
			Build()
	}
	return nil
}

// Read loads a manifest written by Write.
func Read(path string) (*BuildManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read build manifest").
			WithContext("path", path).
			Build()
	}
	return FromJSON(data)
}
