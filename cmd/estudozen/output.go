package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
)

func success(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func warning(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func stateColor(state string) string {
	switch state {
	case "running":
		return green(state)
	case "paused":
		return yellow(state)
	case "completed":
		return cyan(state)
	default:
		return state
	}
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

func bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	return strings.Repeat("█", value*width/peak)
}
