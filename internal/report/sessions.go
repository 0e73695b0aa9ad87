// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package report renders discovery and evaluation output for humans: terminal
// tables and markdown session transcripts.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/elastic/agentwatch/internal/trace"
)

// WriteSessions formats and prints a discovery result as a table. Columns
// depend on the discovery method, as each method aggregates different stats.
func WriteSessions(w io.Writer, result *trace.DiscoveryResult) error {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	bold.Fprint(w, "Log group: ")
	cyan.Fprintln(w, result.LogGroup)
	bold.Fprint(w, "Time range: ")
	cyan.Fprintf(w, "%s - %s\n", result.TimeRangeStart.Format(time.RFC3339), result.TimeRangeEnd.Format(time.RFC3339))
	if evaluator := result.FilterCriteria["evaluator"]; evaluator != "" {
		bold.Fprint(w, "Evaluator: ")
		cyan.Fprintln(w, evaluator)
	}
	bold.Fprint(w, "Sessions: ")
	cyan.Fprintln(w, strconv.Itoa(len(result.Sessions)))

	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}

	if result.DiscoveryMethod == trace.DiscoveryScoreBased {
		writeScoredSessionsTable(w, result.Sessions)
		return nil
	}
	writeSessionsTable(w, result.Sessions)
	return nil
}

func writeSessionsTable(w io.Writer, sessions []trace.SessionInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Session ID", "First Seen", "Last Seen", "Duration", "Spans", "Traces"})
	table.SetHeaderColor(
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
	)
	table.SetColumnColor(
		twColor(tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}),
		tablewriter.Colors{},
		tablewriter.Colors{},
		tablewriter.Colors{},
		tablewriter.Colors{},
		tablewriter.Colors{},
	)
	table.SetRowLine(true)
	table.AppendBulk(formatSessionRows(sessions))
	table.Render()
}

func writeScoredSessionsTable(w io.Writer, sessions []trace.SessionInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Session ID", "Evaluations", "Avg Score", "Min Score", "Max Score", "Last Seen"})
	table.SetHeaderColor(
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
		twColor(tablewriter.Colors{tablewriter.Bold}),
	)
	table.SetColumnColor(
		twColor(tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}),
		tablewriter.Colors{},
		twColor(tablewriter.Colors{tablewriter.Bold, tablewriter.FgRedColor}),
		tablewriter.Colors{},
		tablewriter.Colors{},
		tablewriter.Colors{},
	)
	table.SetRowLine(true)
	table.AppendBulk(formatScoredSessionRows(sessions))
	table.Render()
}

// formatSessionRows returns rows of data for sessions found by activity.
func formatSessionRows(sessions []trace.SessionInfo) [][]string {
	var rows [][]string
	for _, info := range sessions {
		rows = append(rows, []string{
			info.SessionID,
			info.FirstSeen.Format(time.RFC3339),
			humanize.Time(info.LastSeen),
			info.Duration().Round(time.Second).String(),
			formatCount(info.SpanCount),
			formatCount(info.TraceCount),
		})
	}
	return rows
}

// formatScoredSessionRows returns rows of data for sessions found by
// recorded evaluation scores.
func formatScoredSessionRows(sessions []trace.SessionInfo) [][]string {
	var rows [][]string
	for _, info := range sessions {
		rows = append(rows, []string{
			info.SessionID,
			formatCount(info.EvaluationCount),
			formatScore(info, "avgScore"),
			formatScore(info, "minScore"),
			formatScore(info, "maxScore"),
			humanize.Time(info.LastSeen),
		})
	}
	return rows
}

func formatCount(count *int) string {
	if count == nil {
		return "-"
	}
	return strconv.Itoa(*count)
}

func formatScore(info trace.SessionInfo, stat string) string {
	score, found := info.Scores[stat]
	if !found {
		return "-"
	}
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// twColor no-ops the color setting if we don't want to colorize the output
func twColor(colors tablewriter.Colors) tablewriter.Colors {
	if color.NoColor {
		return tablewriter.Colors{}
	}
	return colors
}
