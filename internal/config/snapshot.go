package config

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Snapshot computes a stable hash of the normalized configuration. Builds
// record it in the manifest so a changed configuration is detectable.
// Filesystem locations are excluded; they do not affect page content.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	cp := c.clone()
	cp.Content.Dir = ""
	cp.Output.Directory = ""
	cp.Build.HistoryDB = ""
	data, err := yaml.Marshal(cp)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
