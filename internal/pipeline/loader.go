// Package pipeline loads statement files in parallel and replays them
// through the tracker in date order.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mm15146-Mahad/summit/internal/source"
)

// ParsedFile describes one file that parsed without a file-level error.
type ParsedFile struct {
	Path      string
	SizeBytes int64
	MtimeNs   int64
	Records   int
}

// LoadResult holds the output of the statement loading pipeline.
type LoadResult struct {
	Records      []source.Record // sorted by date, then file and line
	Parsed       []ParsedFile
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	AccountCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every statement file under root.
// It uses a bounded worker pool for parallel parsing.
func Load(root string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	result := &LoadResult{
		TotalFiles:   len(files),
		AccountCount: source.CountAccounts(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	parseInto(result, files, 0, progressFn)
	sortRecords(result.Records)
	return result, nil
}

// parseInto parses files with a bounded worker pool and folds the results
// into result. done is added to the progress count.
func parseInto(result *LoadResult, files []source.DiscoveredFile, done int, progressFn ProgressFunc) {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	// Feed work
	for i := range files {
		work <- i
	}
	close(work)

	// Spawn workers
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	// Collect results
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Records = append(result.Records, pr.Records...)

		pf := ParsedFile{Path: files[i].Path, Records: len(pr.Records)}
		if info, err := os.Stat(files[i].Path); err == nil {
			pf.SizeBytes = info.Size()
			pf.MtimeNs = info.ModTime().UnixNano()
		}
		result.Parsed = append(result.Parsed, pf)
	}
}

// sortRecords orders records chronologically. Same-instant records keep
// their file order so a statement replays as written.
func sortRecords(recs []source.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}
