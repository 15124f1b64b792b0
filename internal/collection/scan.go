package collection

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the audio file extensions picked up by a folder scan
var DefaultExtensions = []string{".wav"}

// ScanAudioFiles walks dir recursively and returns the absolute paths of every
// regular file whose extension matches one of exts, sorted.
func ScanAudioFiles(dir string, exts []string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, NewError("scan", ErrCodeScan, "failed to resolve directory", err).withPath(dir)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, NewError("scan", ErrCodeScan, "directory is not accessible", err).withPath(absDir)
	}
	if !info.IsDir() {
		return nil, NewError("scan", ErrCodeScan, "not a directory", nil).withPath(absDir)
	}

	wanted := normalizeExtensions(exts)

	var files []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if MatchesExtension(path, wanted) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewError("scan", ErrCodeScan, "failed to walk directory", err).withPath(absDir)
	}

	sort.Strings(files)
	return files, nil
}

// MatchesExtension reports whether path ends in one of exts, ignoring case.
// exts must already be normalized by normalizeExtensions.
func MatchesExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// DisplayName renders a path the way the organizer lists it:
// the containing folder padded to 15 columns, then the file name without extension.
func DisplayName(path string) string {
	folder := filepath.Base(filepath.Dir(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%-15s %s", folder, name)
}
