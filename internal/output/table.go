// Package output provides terminal output utilities for basketmine.
//
// This package includes:
//   - Table rendering for rules, mining rounds and stored datasets
//   - JSON and YAML encoding of mining reports
//   - A progress bar and a spinner for long-running commands
//
// Tables are plain text; ANSI colour is added only when stdout is a
// terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderRuleTable renders the display list of a report in its original
// order. Entries that are themselves frequent itemsets (rather than one of
// their subsets) are marked in the last column.
func RenderRuleTable(report *miner.Report) string {
	if len(report.Rules) == 0 {
		return "No frequent itemsets found.\n"
	}

	frequent := make(map[string]bool, len(report.Frequent))
	for _, f := range report.Frequent {
		frequent[f.Key()] = true
	}

	width := 7
	for _, r := range report.Rules {
		if n := utf8.RuneCountInString(r.Itemset.String()); n > width {
			width = n
		}
	}
	if width > 60 {
		width = 60
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-*s %-5s %-8s %s\n", "#", width, "Itemset", "Size", "Support", "Kind"))
	sb.WriteString(strings.Repeat("─", width+30))
	sb.WriteString("\n")

	for i, r := range report.Rules {
		kind := colorize(colorGray, "subset")
		if frequent[r.Itemset.Key()] {
			kind = colorize(colorGreen, "frequent")
		}
		sb.WriteString(fmt.Sprintf("%-5d %-*s %-5d %-8d %s\n",
			i+1,
			width,
			truncate(r.Itemset.String(), width),
			r.Itemset.Len(),
			r.Support,
			kind))
	}

	return sb.String()
}

// RenderRoundTable renders the per-round trace of a mining run.
func RenderRoundTable(rounds []miner.Round) string {
	if len(rounds) == 0 {
		return "No rounds executed.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-7s %-12s %-8s %s\n", "Round", "Candidates", "Pruned", "Frequent"))
	sb.WriteString(strings.Repeat("─", 38))
	sb.WriteString("\n")

	for _, r := range rounds {
		sb.WriteString(fmt.Sprintf("%-7d %-12d %-8d %d\n", r.Index, r.Candidates, r.Pruned, r.Frequent))
	}

	return sb.String()
}

// RenderSummary renders the one-line footer printed after the rule table.
func RenderSummary(report *miner.Report) string {
	return fmt.Sprintf("Total items: %d (%d frequent itemsets, %d transactions, min support %d, prune against %s)\n",
		len(report.Rules),
		len(report.Frequent),
		report.Transactions,
		report.MinSupport,
		report.Prune)
}

// RenderDatasetTable renders stored datasets.
func RenderDatasetTable(datasets []*store.Dataset) string {
	if len(datasets) == 0 {
		return "No datasets imported.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-20s %-13s %-15s %s\n", "Dataset", "Transactions", "Imported", "Source"))
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for _, ds := range datasets {
		sb.WriteString(fmt.Sprintf("%-20s %-13d %-15s %s\n",
			truncate(ds.Name, 20),
			ds.TransactionCount,
			formatRelativeTime(ds.ImportedAt),
			ds.Source))
	}

	return sb.String()
}

// formatRelativeTime converts a timestamp to a relative description.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/24/30), "month")
	default:
		return plural(int(diff.Hours()/24/365), "year")
	}
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
