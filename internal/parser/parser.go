package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alogtools/alog/internal/config"
	"github.com/alogtools/alog/pkg/models"
	"github.com/mssola/useragent"
)

// linePattern matches the combined access-log format:
// 1.2.3.4 - frank [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 2326 "ref" "ua"
// The quoted request section must hold exactly method, URI and protocol;
// anything else fails the whole line.
var linePattern = regexp.MustCompile(
	`^(\S+)` + // client address
		`\s+-\s+` +
		`(\S+)` + // user id
		`\s+\[(\d{2})/([A-Za-z]{3})/(\d{4}):(\d{2}):(\d{2}):(\d{2})\s([+-]\d{4})\]` + // timestamp
		`\s+"(GET|POST|PUT|DELETE|HEAD|OPTIONS)\s([^"\s]+)\s(HTTP/\d\.\d)"` + // request
		`\s+(\d{3})` + // status
		`\s+(\d+|-)` + // bytes sent or "-"
		`\s+"([^"]*)"` + // referer
		`\s+"([^"]*)"$`, // user agent
)

// ParseError describes a line that did not match the log grammar. It is
// counted and skipped by the pipeline, never fatal.
type ParseError struct {
	Source string
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// LogParser parses and normalizes access-log lines
type LogParser struct {
	botSignatures map[string]bool
}

// NewLogParser creates a new log parser instance
func NewLogParser() *LogParser {
	return &LogParser{
		botSignatures: config.BotSignatures,
	}
}

// Parse parses a single raw line into a normalized log entry. On any
// grammar mismatch it returns a *ParseError carrying the line's origin
// and raw text.
func (p *LogParser) Parse(raw models.RawLine) (*models.LogEntry, error) {
	m := linePattern.FindStringSubmatch(raw.Text)
	if m == nil {
		return nil, p.fail(raw, "line does not match log format")
	}

	ts, err := Normalize(m[3], m[4], m[5], m[6], m[7], m[8], m[9])
	if err != nil {
		return nil, p.fail(raw, err.Error())
	}

	status, err := strconv.Atoi(m[13])
	if err != nil {
		return nil, p.fail(raw, "invalid status code")
	}

	entry := &models.LogEntry{
		ClientAddr: m[1],
		UserID:     m[2],
		Timestamp:  ts,
		Method:     m[10],
		URI:        m[11],
		Protocol:   m[12],
		Status:     status,
		Referer:    m[15],
		UserAgent:  m[16],
		Source:     raw.Source,
		Line:       raw.Number,
	}

	// "-" means the server did not record a byte count; carry it as
	// absent rather than zero.
	if m[14] != "-" {
		bytes, err := strconv.ParseInt(m[14], 10, 64)
		if err != nil {
			return nil, p.fail(raw, "invalid bytes sent")
		}
		entry.BytesSent = bytes
		entry.HasBytes = true
	}

	if entry.UserAgent != "" && entry.UserAgent != "-" {
		entry.ParsedUA = p.parseUserAgent(entry.UserAgent)
		entry.IsBot = p.isBot(entry.UserAgent)
	}

	return entry, nil
}

func (p *LogParser) fail(raw models.RawLine, reason string) *ParseError {
	return &ParseError{
		Source: raw.Source,
		Line:   raw.Number,
		Raw:    raw.Text,
		Reason: reason,
	}
}

// parseUserAgent parses user agent string
func (p *LogParser) parseUserAgent(uaStr string) *models.UserAgentInfo {
	ua := useragent.New(uaStr)

	browser, version := ua.Browser()
	browserStr := browser
	if version != "" {
		browserStr = fmt.Sprintf("%s %s", browser, version)
	}
	if browserStr == "" {
		browserStr = "Unknown"
	}

	device := "Desktop"
	if ua.Mobile() {
		device = "Mobile"
	} else if ua.Bot() {
		device = "Bot"
	}

	return &models.UserAgentInfo{
		Browser: browserStr,
		OS:      ua.OS(),
		Device:  device,
	}
}

// isBot detects if user agent is a bot
func (p *LogParser) isBot(uaStr string) bool {
	uaLower := strings.ToLower(uaStr)
	for signature := range p.botSignatures {
		if strings.Contains(uaLower, signature) {
			return true
		}
	}
	return false
}
