package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/mm15146-Mahad/summit/internal/source"
	"github.com/mm15146-Mahad/summit/internal/store"
)

// IncrementalResult extends LoadResult with import-history metadata.
type IncrementalResult struct {
	LoadResult
	Unchanged int // files skipped because they were imported as they are now
	Reparsed  int
}

// LoadNew discovers statement files, diffs them against the store's import
// history, and parses only new or changed files.
func LoadNew(root string, st *store.Store, progressFn ProgressFunc) (*IncrementalResult, error) {
	files, err := source.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	result := &IncrementalResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			AccountCount: source.CountAccounts(files),
		},
	}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := st.ImportedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading import history: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toParse []source.DiscoveredFile
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		prev, ok := tracked[f.Path]
		if ok && prev.MtimeNs == info.ModTime().UnixNano() && prev.SizeBytes == info.Size() {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
	}
	result.Reparsed = len(toParse)

	if len(toParse) > 0 {
		parseInto(&result.LoadResult, toParse, result.Unchanged, progressFn)
		sortRecords(result.Records)
	}
	return result, nil
}

// MarkLoaded records every parsed file of res in the import history.
func MarkLoaded(st *store.Store, res *LoadResult, at time.Time) error {
	if len(res.Parsed) == 0 {
		return nil
	}
	files := make([]store.ImportedFile, len(res.Parsed))
	for i, p := range res.Parsed {
		files[i] = store.ImportedFile{
			Path:       p.Path,
			SizeBytes:  p.SizeBytes,
			MtimeNs:    p.MtimeNs,
			Records:    p.Records,
			ImportedAt: at,
		}
	}
	return st.MarkImported(files)
}
