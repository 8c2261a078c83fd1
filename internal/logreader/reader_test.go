package logreader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alogtools/alog/pkg/models"
)

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0o644))

	r := NewLogReader()
	lines, errc, err := r.ReadLines(context.Background(), path)
	require.NoError(t, err)

	var got []models.RawLine
	for raw := range lines {
		got = append(got, raw)
	}
	require.NoError(t, <-errc)

	require.Len(t, got, 3)
	assert.Equal(t, models.RawLine{Text: "first", Source: path, Number: 1}, got[0])
	assert.Equal(t, models.RawLine{Text: "third", Source: path, Number: 3}, got[2])
}

func TestReadLinesMissingFile(t *testing.T) {
	r := NewLogReader()
	_, _, err := r.ReadLines(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.log")
}

func TestReadLinesCancellation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.log")
	content := ""
	for i := 0; i < 1000; i++ {
		content += "line\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	r := NewLogReader()
	lines, _, err := r.ReadLines(ctx, path)
	require.NoError(t, err)

	<-lines
	cancel()

	// The reader goroutine must stop and close the channel.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("reader did not stop after cancellation")
		}
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")
	content := `1.1.1.1 - - [10/Oct/2023:08:00:00 +0000] "GET /a HTTP/1.1" 200 10 "-" "-"
junk line
2.2.2.2 - - [10/Oct/2023:18:30:00 +0000] "GET /b HTTP/1.1" 200 10 "-" "-"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewLogReader()
	info, err := r.Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(3), info.LineCount)
	assert.True(t, info.FirstEntry.Equal(time.Date(2023, 10, 10, 8, 0, 0, 0, time.UTC)))
	assert.True(t, info.LastEntry.Equal(time.Date(2023, 10, 10, 18, 30, 0, 0, time.UTC)))
}

func TestInspectMissingFile(t *testing.T) {
	r := NewLogReader()
	_, err := r.Inspect(filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
}
