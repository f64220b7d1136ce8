package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/pystyle/pkg/safeconv"
)

// ErrTooLarge is returned when a file exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// Load reads the file at path. A maxSize of zero disables the size check.
func Load(path string, maxSize uint64) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	size := safeconv.SizeToUint64(info.Size())
	if maxSize > 0 && size > maxSize {
		return nil, fmt.Errorf("%w: %s is %s (limit %s)", ErrTooLarge, path,
			humanize.IBytes(size), humanize.IBytes(maxSize))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return New(path, content)
}

// Collect expands paths into the list of files to analyze. Files are kept
// as given so that New can reject wrong extensions. Directories are walked
// for Python files, skipping dot paths and vendored trees.
func Collect(paths []string) ([]string, error) {
	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return fmt.Errorf("relative path for %s: %w", path, relErr)
			}

			if rel == "." {
				return nil
			}

			if skipPath(rel, entry.IsDir()) {
				if entry.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if !entry.IsDir() && filepath.Ext(path) == Extension {
				files = append(files, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("collect %s: %w", root, walkErr)
		}
	}

	return files, nil
}

func skipPath(rel string, isDir bool) bool {
	if enry.IsDotFile(rel) {
		return true
	}

	if isDir {
		rel += "/"
	}

	return enry.IsVendor(rel)
}
