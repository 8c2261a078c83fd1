package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alogtools/alog/internal/analyzer"
	"github.com/alogtools/alog/internal/config"
	"github.com/alogtools/alog/internal/dns"
	"github.com/alogtools/alog/internal/filters"
	"github.com/alogtools/alog/internal/logreader"
	"github.com/alogtools/alog/internal/ranker"
	"github.com/alogtools/alog/internal/tui"
	"github.com/alogtools/alog/internal/ui"
)

var (
	// Global flags
	topN    int
	noColor bool
)

// RootCmd is the root command
var RootCmd = &cobra.Command{
	Use:   "alog",
	Short: "Access log analyzer with time-window filtering",
	Long: `alog analyzes web-server access logs in the combined format.

It extracts structured fields from each line, optionally restricts the
set to a time window, and reports request totals, top client addresses,
the status-code distribution and top requested URIs. Unparsable lines
are counted, never silently dropped.`,
	Version: "1.0.0",
}

func init() {
	RootCmd.PersistentFlags().IntVarP(&topN, "top", "n", config.DefaultTopN, "Number of top results for addresses and URIs")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(inspectCmd)
}

// Execute runs the CLI
func Execute() error {
	return RootCmd.Execute()
}

var (
	startBound   string
	endBound     string
	statusFilter []int
	methodFilter []string
	excludeBots  bool
	resolveDNS   bool
	interactive  bool
	strict       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze access log files",
	Long: `Analyze one or more access log files and print an aggregate report.

Time bounds accept YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS and are inclusive;
a date-only --end covers that whole day. Bounds are compared against
log timestamps normalized to UTC. Use "-" to read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&startBound, "start", "", "Include entries from this time (inclusive)")
	analyzeCmd.Flags().StringVar(&endBound, "end", "", "Include entries up to this time (inclusive)")
	analyzeCmd.Flags().IntSliceVar(&statusFilter, "status", nil, "Only count these status codes")
	analyzeCmd.Flags().StringSliceVar(&methodFilter, "method", nil, "Only count these HTTP methods")
	analyzeCmd.Flags().BoolVar(&excludeBots, "exclude-bots", false, "Exclude bot traffic")
	analyzeCmd.Flags().BoolVar(&resolveDNS, "resolve", false, "Reverse-resolve top client addresses")
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the report in an interactive TUI")
	analyzeCmd.Flags().BoolVar(&strict, "strict", false, "Treat an unreadable file as fatal")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Show line counts and time spans of log files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Filter bounds fail fast, before any file is opened.
	window, err := filters.NewTimeWindow(startBound, endBound)
	if err != nil {
		return err
	}

	var entryFilter *filters.LogFilter
	if len(statusFilter) > 0 || len(methodFilter) > 0 || excludeBots {
		entryFilter = filters.NewLogFilter()
		entryFilter.AddStatusFilter(statusFilter)
		entryFilter.AddMethodFilter(methodFilter)
		entryFilter.SetExcludeBots(excludeBots)
	}

	a := analyzer.New(analyzer.Options{
		Window: window,
		Filter: entryFilter,
		Strict: strict,
	})

	result, err := a.Run(context.Background(), args)
	if err != nil {
		return err
	}

	for _, skipped := range result.SkippedFiles {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %s\n", skipped, result.SkipReasons[skipped])
	}

	if interactive {
		program := tea.NewProgram(tui.NewModel(result, topN), tea.WithAltScreen())
		_, err := program.Run()
		return err
	}

	var reverseDNS map[string]string
	if resolveDNS {
		topIPs := ranker.TopN(result.IPCounts, topN)
		addrs := make([]string, len(topIPs))
		for i, ip := range topIPs {
			addrs[i] = ip.Key
		}
		reverseDNS = dns.NewLookup().BulkReverse(addrs)
	}

	consoleUI := ui.NewConsoleUI(!noColor)
	consoleUI.DisplayReport(result, topN, reverseDNS)

	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	reader := logreader.NewLogReader()
	consoleUI := ui.NewConsoleUI(!noColor)

	for _, path := range args {
		info, err := reader.Inspect(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			continue
		}

		first, last := "", ""
		if !info.FirstEntry.IsZero() {
			first = info.FirstEntry.Format("2006-01-02 15:04:05 MST")
			last = info.LastEntry.Format("2006-01-02 15:04:05 MST")
		}
		consoleUI.DisplayFileInfo(info.Path, info.Size, info.LineCount, first, last)
	}

	return nil
}
