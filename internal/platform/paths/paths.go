// Package paths resolves where the application database lives.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDirName is the directory created under the user's config root.
const appDirName = "nexus"

// ResolveDatabase picks the database file location. Priority order: an
// explicit override, an existing file in the working directory, an existing
// file next to the executable, and finally the per-user config directory.
// The config-directory fallback is created on demand; when the file does not
// exist there yet and a template is provided, the template is written first
// so a bundled database ships with the application.
func ResolveDatabase(explicit, filename string, template []byte) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}
	if filename == "" {
		return "", fmt.Errorf("database filename is required")
	}

	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, filename)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), filename)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	configRoot, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(configRoot, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	candidate := filepath.Join(dir, filename)
	if !fileExists(candidate) && len(template) > 0 {
		if err := os.WriteFile(candidate, template, 0o644); err != nil {
			return "", fmt.Errorf("seed database template: %w", err)
		}
	}
	return candidate, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
