// Package files lists the coefficient artifacts persisted in the data
// directory.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// artifactPattern matches persisted coefficient artifact names.
var artifactPattern = regexp.MustCompile(`^custom_cost_coefficients_(\d{8}_\d{6})\.csv$`)

// Artifact describes one persisted coefficient table.
type Artifact struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// ListArtifacts returns the coefficient artifacts in dataDir, newest
// first. Files that do not match the artifact naming scheme are
// ignored.
func ListArtifacts(dataDir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := artifactPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		createdAt, err := time.Parse("20060102_150405", m[1])
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:      entry.Name(),
			CreatedAt: createdAt,
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

// ArtifactPath resolves an artifact name inside dataDir, rejecting
// names that are not valid artifacts or that escape the directory.
func ArtifactPath(dataDir, name string) (string, error) {
	if !artifactPattern.MatchString(name) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(dataDir, name), nil
}
