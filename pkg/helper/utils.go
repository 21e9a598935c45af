package helper

import (
	"os"
	"path/filepath"
	"strings"
)

// FilterFilesByExt returns the files whose extension is in the known list.
// Extensions are compared without the leading dot, case-insensitively.
func FilterFilesByExt(sourceFiles []string, knownExts []string) []string {
	known := make(map[string]bool, len(knownExts))
	for _, ext := range knownExts {
		known[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var matched []string
	for _, file := range sourceFiles {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
		if known[ext] {
			matched = append(matched, file)
		}
	}
	return matched
}

// FirstExistingDir iterates over the list of paths and returns the first one
// that exists and is a directory, or "" when none qualifies
func FirstExistingDir(paths []string) string {
	for _, path := range paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}
