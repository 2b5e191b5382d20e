package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Version information (set via -ldflags during build)
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"

	versionOnce sync.Once
)

// GetVersion returns the current version string. A .version file next to
// the executable overrides the compiled-in value.
func GetVersion() string {
	versionOnce.Do(loadVersionFile)
	return Version
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", GetVersion(), Build, GitCommit)
}

func loadVersionFile() {
	exePath, err := os.Executable()
	if err != nil {
		return
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(exePath), ".version"))
	if err != nil {
		return
	}

	if version := strings.TrimSpace(string(data)); version != "" {
		Version = version
	}
}
