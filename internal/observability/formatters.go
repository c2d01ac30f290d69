// Package observability provides logging setup and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/datasync"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens line to at most width runes, ending it with "...".
func truncate(line string, width int) string {
	if utf8.RuneCountInString(line) <= width {
		return line
	}
	return string([]rune(line)[:width-3]) + "..."
}

// PrintLoadReport outputs one line per collection of a bulk load.
func (p *Printer) PrintLoadReport(report datasync.LoadReport) {
	var sb strings.Builder
	for _, c := range report.Collections {
		if c.Err != nil {
			sb.WriteString(fmt.Sprintf("✗ %-14s %s\n", c.Collection, c.Error))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %-14s %d records\n", c.Collection, c.Count))
	}
	title := "CONTENT LOADED"
	if !report.OK() {
		title = fmt.Sprintf("CONTENT LOADED (%d failed)", len(report.Failed()))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCounts outputs record counts per collection in the fixed collection order.
func (p *Printer) PrintCounts(title string, counts map[content.Collection]int) {
	var sb strings.Builder
	for _, c := range content.Collections() {
		sb.WriteString(fmt.Sprintf("%-14s %d\n", c, counts[c]))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// MigrationRow is one migration as shown by PrintMigrations.
type MigrationRow struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// PrintMigrations outputs the state of each schema migration.
func (p *Printer) PrintMigrations(title string, rows []MigrationRow) {
	if len(rows) == 0 {
		p.printBox(title, "no migrations")
		return
	}
	var sb strings.Builder
	for _, row := range rows {
		state := "pending"
		if row.Applied {
			state = "applied"
			if !row.AppliedAt.IsZero() {
				state += " " + row.AppliedAt.UTC().Format(time.DateTime)
			}
		}
		sb.WriteString(fmt.Sprintf("%05d %-18s %s\n", row.Version, row.Name, state))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNotifications outputs the most recent notifications, newest first.
func (p *Printer) PrintNotifications(items []datasync.Notification) {
	if len(items) == 0 {
		return
	}
	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for _, n := range items[:count] {
		mark := "✓"
		if n.Level == datasync.LevelError {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, n.Message))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(items)-maxItemsToShow))
	}
	p.printBox("NOTIFICATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
