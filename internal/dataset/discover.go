package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// webSuffix is appended to dataset names submitted through the web form.
const webSuffix = "-out1.csv"

// ErrInvalidName is returned for dataset names that would escape the
// datasets directory.
var ErrInvalidName = errors.New("invalid dataset name")

// Discover expands pattern to the CSV files it matches, sorted by path.
// Both single-level (*) and recursive (**) wildcards are supported; a
// pattern without wildcards matches itself if the file exists.
func Discover(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, m := range matches {
		if strings.EqualFold(filepath.Ext(m), ".csv") {
			files = append(files, m)
		}
	}
	sort.Strings(files)

	return files, nil
}

// Name derives a dataset name from a file path: the base name without its
// extension and without the web form suffix.
func Name(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, webSuffix) {
		return strings.TrimSuffix(base, webSuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WebPath resolves a dataset name submitted through the web form to
// {dir}/{name}-out1.csv.
func WebPath(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(dir, name+webSuffix), nil
}
