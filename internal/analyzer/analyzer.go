// Package analyzer wires the pipeline together: each raw line flows
// reader → parser → window filter → aggregator, and the merged result
// is handed back as a single AnalysisResult.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alogtools/alog/internal/aggregators"
	"github.com/alogtools/alog/internal/filters"
	"github.com/alogtools/alog/internal/logreader"
	"github.com/alogtools/alog/internal/parser"
	"github.com/alogtools/alog/pkg/models"
)

// Options configures an analysis run.
type Options struct {
	Window models.TimeWindow
	// Filter holds optional entry-level filters beyond the time window.
	Filter *filters.LogFilter
	// Strict makes an unreadable file fatal for the whole run. The
	// default skips the file and records it in the result, matching the
	// per-file error contract: never silent, but the rest of the input
	// still gets analyzed.
	Strict bool
}

// Analyzer runs the parse-filter-aggregate pipeline over input files.
type Analyzer struct {
	reader *logreader.LogReader
	parser *parser.LogParser
	opts   Options
}

// New creates an analyzer with the given options.
func New(opts Options) *Analyzer {
	return &Analyzer{
		reader: logreader.NewLogReader(),
		parser: parser.NewLogParser(),
		opts:   opts,
	}
}

type fileResult struct {
	agg      *aggregators.Aggregator
	report   models.FileReport
	skipPath string
	skipErr  error
}

// Run processes every path and returns the merged result. Files are
// processed concurrently, one aggregator per file, merged at the end;
// final counts are independent of scheduling order.
func (a *Analyzer) Run(ctx context.Context, paths []string) (*models.AnalysisResult, error) {
	results := make([]fileResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i] = a.runFile(ctx, path)
		}(i, path)
	}
	wg.Wait()

	total := aggregators.NewAggregator()
	var reports []models.FileReport
	var skipped []string
	reasons := make(map[string]string)

	for _, fr := range results {
		if fr.skipErr != nil {
			skipped = append(skipped, fr.skipPath)
			reasons[fr.skipPath] = skipReason(fr.skipErr)
			continue
		}
		total.Merge(fr.agg)
		reports = append(reports, fr.report)
	}

	sort.Strings(skipped)
	if a.opts.Strict && len(skipped) > 0 {
		return nil, fmt.Errorf("unreadable input %s: %s", skipped[0], reasons[skipped[0]])
	}

	result := total.Result()
	result.Files = reports
	result.SkippedFiles = skipped
	result.SkipReasons = reasons
	return result, nil
}

// skipReason unwraps to the root cause so warnings built from a path
// and its reason do not repeat the path.
func skipReason(err error) string {
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		err = cause
	}
	return err.Error()
}

// runFile pushes one file through the pipeline with its own aggregator.
func (a *Analyzer) runFile(ctx context.Context, path string) fileResult {
	agg := aggregators.NewAggregator()

	lines, errc, err := a.reader.ReadLines(ctx, path)
	if err != nil {
		return fileResult{skipPath: path, skipErr: err}
	}

	for raw := range lines {
		entry, err := a.parser.Parse(raw)
		if err != nil {
			agg.RecordParseFailure()
			continue
		}
		if !filters.InWindow(entry.Timestamp, a.opts.Window) {
			agg.RecordFilteredOut()
			continue
		}
		if a.opts.Filter != nil && !a.opts.Filter.ShouldInclude(entry) {
			agg.RecordFilteredOut()
			continue
		}
		agg.Update(entry)
	}

	if err := <-errc; err != nil {
		return fileResult{skipPath: path, skipErr: err}
	}

	valid, parseFailed, filteredOut := agg.Counts()
	return fileResult{
		agg: agg,
		report: models.FileReport{
			Path:        path,
			Valid:       valid,
			ParseFailed: parseFailed,
			FilteredOut: filteredOut,
		},
	}
}
