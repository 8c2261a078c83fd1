package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/alogtools/alog/internal/ranker"
	"github.com/alogtools/alog/pkg/models"
)

// ConsoleUI renders analysis results to the terminal
type ConsoleUI struct {
	writer io.Writer
	colors bool
}

// NewConsoleUI creates a new console UI
func NewConsoleUI(enableColors bool) *ConsoleUI {
	return &ConsoleUI{
		writer: os.Stdout,
		colors: enableColors,
	}
}

// NewConsoleUIWithWriter creates a console UI writing to w.
func NewConsoleUIWithWriter(w io.Writer, enableColors bool) *ConsoleUI {
	return &ConsoleUI{
		writer: w,
		colors: enableColors,
	}
}

// DisplayReport renders the full analysis report. Frequency tables are
// ordered through the ranker; reverseDNS may be nil.
func (u *ConsoleUI) DisplayReport(result *models.AnalysisResult, topN int, reverseDNS map[string]string) {
	u.printHeader("LOG ANALYSIS REPORT")

	u.printSection("Line Accounting")
	u.printKeyValue("Lines Processed", fmt.Sprintf("%d", result.TotalLines()))
	u.printKeyValue("Valid Requests", fmt.Sprintf("%d", result.TotalValid))
	u.printKeyValue("Parse Failures", fmt.Sprintf("%d", result.TotalParseFailures))
	u.printKeyValue("Filtered Out", fmt.Sprintf("%d", result.TotalFilteredOut))

	if result.TimeRange != nil {
		u.printSection("Time Range")
		u.printKeyValue("First Entry", result.TimeRange.Start.Format("2006-01-02 15:04:05 MST"))
		u.printKeyValue("Last Entry", result.TimeRange.End.Format("2006-01-02 15:04:05 MST"))
	}

	if result.TotalValid > 0 {
		botPct := float64(result.BotRequests) / float64(result.TotalValid) * 100
		u.printSection("Traffic")
		u.printKeyValue("Bot Requests", fmt.Sprintf("%d (%.1f%%)", result.BotRequests, botPct))
		u.printKeyValue("Human Requests", fmt.Sprintf("%d", result.HumanRequests))
	}

	if topIPs := ranker.TopN(result.IPCounts, topN); len(topIPs) > 0 {
		u.printSection(fmt.Sprintf("Top %d Client Addresses", len(topIPs)))
		u.printIPTable(topIPs, result.TotalValid, reverseDNS)
	}

	if topURIs := ranker.TopN(result.URICounts, topN); len(topURIs) > 0 {
		u.printSection(fmt.Sprintf("Top %d Requested URIs", len(topURIs)))
		u.printCountTable("URI", topURIs, result.TotalValid)
	}

	if dist := ranker.StatusDistribution(result.StatusCounts); len(dist) > 0 {
		u.printSection("Requests by Status Code")
		u.printStatusTable(dist, result.TotalValid)
	}

	if methods := ranker.TopN(result.MethodCounts, len(result.MethodCounts)); len(methods) > 0 {
		u.printSection("Requests by Method")
		u.printCountTable("Method", methods, result.TotalValid)
	}

	if result.ByteStats.Counted > 0 {
		u.printSection("Bytes Sent")
		u.printKeyValue("Total", fmt.Sprintf("%.2f MB", float64(result.ByteStats.TotalBytes)/1024/1024))
		u.printKeyValue("Mean", fmt.Sprintf("%.0f bytes", result.ByteStats.Mean))
		u.printKeyValue("Median", fmt.Sprintf("%.0f bytes", result.ByteStats.Median))
		u.printKeyValue("P95", fmt.Sprintf("%.0f bytes", result.ByteStats.P95))
		if result.ByteStats.Absent > 0 {
			u.printKeyValue("Unrecorded", fmt.Sprintf("%d requests", result.ByteStats.Absent))
		}
	}

	if browsers := ranker.TopN(result.BrowserCounts, 10); len(browsers) > 0 {
		u.printSection("Top Browsers")
		u.printCountTable("Browser", browsers, result.TotalValid)
	}

	if len(result.Files) > 1 {
		u.printSection("Per-File Accounting")
		u.printFileTable(result.Files)
	}
}

// DisplayFileInfo renders inspect output for one file.
func (u *ConsoleUI) DisplayFileInfo(path string, size, lineCount int64, first, last string) {
	u.printSection(path)
	u.printKeyValue("Size", fmt.Sprintf("%.2f KB", float64(size)/1024))
	u.printKeyValue("Lines", fmt.Sprintf("%d", lineCount))
	if first != "" {
		u.printKeyValue("First Entry", first)
		u.printKeyValue("Last Entry", last)
	}
}

// Print helper methods
func (u *ConsoleUI) printHeader(title string) {
	if u.colors {
		color.New(color.FgCyan, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgCyan).Fprintf(u.writer, "%s\n", strings.Repeat("═", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	}
}

func (u *ConsoleUI) printSection(title string) {
	if u.colors {
		color.New(color.FgYellow, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgYellow).Fprintf(u.writer, "%s\n", strings.Repeat("─", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
}

func (u *ConsoleUI) printKeyValue(key, value string) {
	if u.colors {
		color.New(color.FgWhite, color.Bold).Fprintf(u.writer, "%-20s", key+":")
		color.New(color.FgGreen).Fprintf(u.writer, "%s\n", value)
	} else {
		fmt.Fprintf(u.writer, "%-20s %s\n", key+":", value)
	}
}

func (u *ConsoleUI) printIPTable(ips []models.KeyCount, total int64, reverseDNS map[string]string) {
	table := tablewriter.NewWriter(u.writer)
	header := []string{"Client Address", "Requests", "Share"}
	if reverseDNS != nil {
		header = append(header, "Hostname")
	}
	table.SetHeader(header)

	for _, ip := range ips {
		row := []string{
			ip.Key,
			fmt.Sprintf("%d", ip.Count),
			sharePct(ip.Count, total),
		}
		if reverseDNS != nil {
			hostname := reverseDNS[ip.Key]
			if hostname == ip.Key {
				hostname = ""
			}
			row = append(row, truncate(hostname, 40))
		}
		table.Append(row)
	}

	table.Render()
}

func (u *ConsoleUI) printCountTable(label string, entries []models.KeyCount, total int64) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{label, "Requests", "Share"})

	for _, e := range entries {
		table.Append([]string{
			truncate(e.Key, 50),
			fmt.Sprintf("%d", e.Count),
			sharePct(e.Count, total),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printStatusTable(dist []models.StatusCount, total int64) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"Status", "Requests", "Share"})

	for _, sc := range dist {
		table.Append([]string{
			fmt.Sprintf("%d", sc.Status),
			fmt.Sprintf("%d", sc.Count),
			sharePct(sc.Count, total),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printFileTable(files []models.FileReport) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"File", "Valid", "Parse Failed", "Filtered"})

	for _, f := range files {
		table.Append([]string{
			truncate(f.Path, 50),
			fmt.Sprintf("%d", f.Valid),
			fmt.Sprintf("%d", f.ParseFailed),
			fmt.Sprintf("%d", f.FilteredOut),
		})
	}

	table.Render()
}

func sharePct(count, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
