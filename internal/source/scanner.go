package source

import (
	"os"
	"path/filepath"
	"strings"
)

// formatOf maps a file name to its statement format.
func formatOf(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonl":
		return FormatJSONL, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// ScanDir discovers statement files under root. root may also name a
// single file. Hidden files and directories are skipped. Paths are returned
// absolute so the same file is recognized however it was named.
func ScanDir(root string) ([]DiscoveredFile, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		format, ok := formatOf(info.Name())
		if !ok {
			return nil, nil
		}
		return []DiscoveredFile{{Path: root, Format: format, Account: accountOf(filepath.Dir(root))}}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format, ok := formatOf(name)
		if !ok {
			return nil
		}

		account := accountOf(root)
		if rel, err := filepath.Rel(root, filepath.Dir(path)); err == nil && rel != "." {
			account = filepath.ToSlash(rel)
		}

		files = append(files, DiscoveredFile{Path: path, Format: format, Account: account})
		return nil
	})

	return files, err
}

// accountOf names an account after its directory.
func accountOf(dir string) string {
	return filepath.Base(dir)
}

// CountAccounts returns the number of unique accounts in a set of discovered files.
func CountAccounts(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Account] = struct{}{}
	}
	return len(seen)
}
