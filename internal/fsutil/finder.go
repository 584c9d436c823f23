// Package fsutil provides file system helpers for locating workflow files.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNoExtension is returned when FindFilesByExtension is called without an extension.
var ErrNoExtension = errors.New("extension must not be empty")

// FindFilesByExtension walks rootPath and returns every regular file whose
// name ends with extension, compared case-insensitively. Hidden directories
// (".git", ".cache", ...) are skipped. Paths are returned in lexical walk order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		return nil, ErrNoExtension
	}
	extension = strings.ToLower(extension)

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(strings.ToLower(d.Name()), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
