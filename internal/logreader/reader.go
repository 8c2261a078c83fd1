package logreader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alogtools/alog/internal/parser"
	"github.com/alogtools/alog/pkg/models"
)

// StdinPath is the pseudo-path that selects standard input.
const StdinPath = "-"

// LogReader streams raw lines out of log files
type LogReader struct{}

// NewLogReader creates a new log reader
func NewLogReader() *LogReader {
	return &LogReader{}
}

// ReadLines opens path and streams its lines, tagged with the source
// path and 1-based line number. The open error is returned synchronously
// so the caller can distinguish a file-level failure from anything that
// happens mid-stream; scan errors arrive on the error channel.
func (r *LogReader) ReadLines(ctx context.Context, path string) (<-chan models.RawLine, <-chan error, error) {
	var src io.ReadCloser
	if path == StdinPath {
		src = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		src = file
	}

	lineChan := make(chan models.RawLine, 100)
	errChan := make(chan error, 1)

	go func() {
		defer close(lineChan)
		defer close(errChan)
		defer src.Close()

		scanner := bufio.NewScanner(src)
		// Increase buffer size for large log lines
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		number := 0
		for scanner.Scan() {
			number++
			select {
			case <-ctx.Done():
				return
			case lineChan <- models.RawLine{Text: scanner.Text(), Source: path, Number: number}:
			}
		}

		if err := scanner.Err(); err != nil {
			errChan <- fmt.Errorf("error reading %s: %w", path, err)
		}
	}()

	return lineChan, errChan, nil
}

// FileInfo provides information about a log file
type FileInfo struct {
	Path       string
	Size       int64
	ModTime    time.Time
	LineCount  int64
	FirstEntry time.Time
	LastEntry  time.Time
}

// Inspect returns line counts and the timestamp span of a log file by
// scanning it once with the line parser.
func (r *LogReader) Inspect(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	info := &FileInfo{
		Path:    path,
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	p := parser.NewLogParser()
	var first, last *models.LogEntry

	for scanner.Scan() {
		info.LineCount++
		raw := models.RawLine{Text: scanner.Text(), Source: path, Number: int(info.LineCount)}
		if entry, err := p.Parse(raw); err == nil {
			if first == nil {
				first = entry
			}
			last = entry
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if first != nil {
		info.FirstEntry = first.Timestamp
	}
	if last != nil {
		info.LastEntry = last.Timestamp
	}

	return info, nil
}
