package mcp

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolveDataPath validates a caller-supplied CSV path against the server's
// data directory. Relative paths are resolved within it; anything escaping
// the directory is rejected.
func resolveDataPath(dataDir, pathValue string) (string, error) {
	if strings.TrimSpace(pathValue) == "" {
		return "", fmt.Errorf("data path is required")
	}

	baseAbs, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	target := pathValue
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseAbs, target)
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path must be within the data directory")
	}
	return targetAbs, nil
}
