package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alogtools/alog/pkg/models"
)

func rawLine(text string) models.RawLine {
	return models.RawLine{Text: text, Source: "access.log", Number: 7}
}

func TestParseValidLine(t *testing.T) {
	p := NewLogParser()

	entry, err := p.Parse(rawLine(`192.168.1.10 - frank [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 2326 "http://example.com/start.html" "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"`))
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.10", entry.ClientAddr)
	assert.Equal(t, "frank", entry.UserID)
	assert.Equal(t, "GET", entry.Method)
	assert.Equal(t, "/index.html", entry.URI)
	assert.Equal(t, "HTTP/1.1", entry.Protocol)
	assert.Equal(t, 200, entry.Status)
	assert.True(t, entry.HasBytes)
	assert.Equal(t, int64(2326), entry.BytesSent)
	assert.Equal(t, "http://example.com/start.html", entry.Referer)
	assert.Equal(t, "access.log", entry.Source)
	assert.Equal(t, 7, entry.Line)

	want := time.Date(2023, time.October, 10, 13, 55, 36, 0, time.UTC)
	assert.True(t, entry.Timestamp.Equal(want), "Timestamp = %v, want %v", entry.Timestamp, want)
}

func TestParseAbsentBytes(t *testing.T) {
	p := NewLogParser()

	entry, err := p.Parse(rawLine(`1.1.1.1 - - [10/Oct/2023:13:56:00 +0000] "GET /a HTTP/1.1" 404 - "-" "-"`))
	require.NoError(t, err)

	// "-" stays absent, it is not coerced to zero bytes.
	assert.False(t, entry.HasBytes)
	assert.Equal(t, int64(0), entry.BytesSent)
	assert.Equal(t, "-", entry.Referer)
	assert.Equal(t, "-", entry.UserAgent)
	assert.Nil(t, entry.ParsedUA)
}

func TestParseNormalizesOffset(t *testing.T) {
	p := NewLogParser()

	plain, err := p.Parse(rawLine(`1.1.1.1 - - [10/Oct/2023:10:00:00 +0000] "GET /a HTTP/1.1" 200 1 "-" "-"`))
	require.NoError(t, err)
	ahead, err := p.Parse(rawLine(`1.1.1.1 - - [10/Oct/2023:12:00:00 +0200] "GET /a HTTP/1.1" 200 1 "-" "-"`))
	require.NoError(t, err)
	behind, err := p.Parse(rawLine(`1.1.1.1 - - [10/Oct/2023:05:30:00 -0430] "GET /a HTTP/1.1" 200 1 "-" "-"`))
	require.NoError(t, err)

	// Same instant expressed in three timezones.
	assert.True(t, plain.Timestamp.Equal(ahead.Timestamp))
	assert.True(t, plain.Timestamp.Equal(behind.Timestamp))
	assert.Equal(t, time.UTC, plain.Timestamp.Location())
}

func TestParseHostnameClientAddress(t *testing.T) {
	p := NewLogParser()

	// Client addresses are not validated as IPs; any non-space token works.
	entry, err := p.Parse(rawLine(`proxy.internal.example.com - - [01/Jan/2024:00:00:00 +0000] "HEAD /health HTTP/1.1" 204 - "-" "probe/1.0"`))
	require.NoError(t, err)
	assert.Equal(t, "proxy.internal.example.com", entry.ClientAddr)
}

func TestParseRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"garbage", "not a valid line"},
		{"empty", ""},
		{"missing request quotes", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] GET /a HTTP/1.1 200 100 "-" "-"`},
		{"two token request", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /a" 200 100 "-" "-"`},
		{"four token request", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /a /b HTTP/1.1" 200 100 "-" "-"`},
		{"unknown method", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] "YOINK /a HTTP/1.1" 200 100 "-" "-"`},
		{"unknown month", `1.1.1.1 - - [10/Foo/2023:13:55:36 +0000] "GET /a HTTP/1.1" 200 100 "-" "-"`},
		{"hour out of range", `1.1.1.1 - - [10/Oct/2023:25:55:36 +0000] "GET /a HTTP/1.1" 200 100 "-" "-"`},
		{"day out of range", `1.1.1.1 - - [32/Oct/2023:13:55:36 +0000] "GET /a HTTP/1.1" 200 100 "-" "-"`},
		{"day not in month", `1.1.1.1 - - [30/Feb/2023:12:00:00 +0000] "GET /a HTTP/1.1" 200 100 "-" "-"`},
		{"missing offset", `1.1.1.1 - - [10/Oct/2023:13:55:36] "GET /a HTTP/1.1" 200 100 "-" "-"`},
		{"negative bytes", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /a HTTP/1.1" 200 -100 "-" "-"`},
		{"missing user agent", `1.1.1.1 - - [10/Oct/2023:13:55:36 +0000] "GET /a HTTP/1.1" 200 100 "-"`},
	}

	p := NewLogParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(models.RawLine{Text: tt.line, Source: "bad.log", Number: 3})
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "bad.log", parseErr.Source)
			assert.Equal(t, 3, parseErr.Line)
			assert.Equal(t, tt.line, parseErr.Raw)
		})
	}
}

func TestParseBotDetection(t *testing.T) {
	p := NewLogParser()

	entry, err := p.Parse(rawLine(`66.249.66.1 - - [10/Oct/2023:13:55:36 +0000] "GET /robots.txt HTTP/1.1" 200 68 "-" "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"`))
	require.NoError(t, err)
	assert.True(t, entry.IsBot)

	entry, err = p.Parse(rawLine(`10.0.0.1 - - [10/Oct/2023:13:55:36 +0000] "GET / HTTP/1.1" 200 68 "-" "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"`))
	require.NoError(t, err)
	assert.False(t, entry.IsBot)
	require.NotNil(t, entry.ParsedUA)
	assert.NotEmpty(t, entry.ParsedUA.Browser)
}
