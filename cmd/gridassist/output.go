package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jgoulah/gridassist/internal/table"
)

const rule = "----------------------------------------"

// warnf prints a user-facing warning line
func warnf(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

// printHeading prints a section title underlined like the list output
func printHeading(title string) {
	fmt.Printf("\n%s\n%s\n", title, rule)
}

// printText prints a model response with a trailing blank line
func printText(text string) {
	fmt.Println(strings.TrimSpace(text))
	fmt.Println()
}

// printTable prints a table with aligned columns
func printTable(t *table.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Printf("(%d rows)\n", t.Len())
}
