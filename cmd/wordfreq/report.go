package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/joshuapare/wordfreq/wordcount"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#04B575")
	mutedColor   = lipgloss.Color("#666666")

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	countStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	percentStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// jsonReport is the --json output document.
type jsonReport struct {
	Files  []string   `json:"files"`
	Total  int        `json:"total"`
	Unique int        `json:"unique"`
	Top    []jsonWord `json:"top"`
}

type jsonWord struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// report prints the top words of c.
func report(c *wordcount.Counter, inputs []string, top int) error {
	words, err := c.Top(top)
	if err != nil {
		return fmt.Errorf("results: %w", err)
	}
	total := c.Total()

	if jsonOut {
		doc := jsonReport{
			Files:  inputs,
			Total:  total,
			Unique: c.Unique(),
			Top:    make([]jsonWord, 0, len(words)),
		}
		if doc.Files == nil {
			doc.Files = []string{}
		}
		for _, w := range words {
			doc.Top = append(doc.Top, jsonWord{Word: w.Word, Count: w.Count, Percent: percent(w.Count, total)})
		}
		return printJSON(doc)
	}

	if len(words) == 0 {
		fmt.Fprintln(os.Stderr, "No words found.")
		return nil
	}
	writeTable(os.Stdout, words, total, useColor())
	printInfo("\nTotal: %d  Unique: %d\n", total, c.Unique())
	printVerbose("Memory: %d bytes used", c.Stats().BytesUsed)
	if lim := c.Stats().BytesLimit; lim > 0 {
		printVerbose(" of %d", lim)
	}
	printVerbose(", %d arena block(s), %d slots\n", c.Stats().Blocks, c.Stats().Capacity)
	return nil
}

// writeTable renders the Count / Word / % table.
func writeTable(w io.Writer, words []wordcount.WordCount, total int, color bool) {
	width := 20
	for _, wc := range words {
		width = max(width, len(wc.Word))
	}

	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	header := fmt.Sprintf("%7s  %-*s  %6s", "Count", width, "Word", "%")
	fmt.Fprintln(w)
	fmt.Fprintln(w, style(tableHeaderStyle, header))
	fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", 7), strings.Repeat("-", width), strings.Repeat("-", 6))
	for _, wc := range words {
		fmt.Fprintf(w, "%s  %-*s  %s\n",
			style(countStyle, fmt.Sprintf("%7d", wc.Count)),
			width, printable(wc.Word),
			style(percentStyle, fmt.Sprintf("%6.2f", percent(wc.Count, total))))
	}
}

// printable escapes control bytes that Add may have stored verbatim.
func printable(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return s
	}
	q := fmt.Sprintf("%q", s)
	return q[1 : len(q)-1]
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// useColor reports whether table output should be styled.
func useColor() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
