// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/elastic/agentwatch/internal/eval"
)

// RenderEvaluation formats an evaluation run in a human-readable format:
// evaluator failures first, then all the scores, then the run summary.
func RenderEvaluation(result *eval.Result) string {
	if len(result.Sessions) == 0 {
		return "No sessions evaluated"
	}

	var report strings.Builder

	headerPrinted := false
	for _, sessionResult := range result.Sessions {
		if len(sessionResult.Errors) == 0 {
			continue
		}

		if !headerPrinted {
			report.WriteString("EVALUATION ERRORS:\n")
			headerPrinted = true
		}

		for _, message := range sessionResult.Errors {
			report.WriteString(fmt.Sprintf("%s: %s\n", sessionResult.SessionID, message))
		}
	}
	if headerPrinted {
		report.WriteString("\n\n")
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Session ID", "Evaluator", "Score", "Rationale"})

	for _, sessionResult := range result.Sessions {
		for _, evaluation := range sessionResult.Evaluations {
			score := fmt.Sprintf("%.2f", evaluation.Score)
			t.AppendRow(table.Row{sessionResult.SessionID, evaluation.Evaluator, score, evaluation.Rationale})
		}
	}

	t.SetStyle(table.StyleRounded)

	report.WriteString(t.Render())
	if result.Summary != nil {
		report.WriteString("\n" + renderSummaryTable(result))
	}
	report.WriteString("\n")
	return report.String()
}

func renderSummaryTable(result *eval.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("run " + result.RunID)
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Number: 2,
			Align:  text.AlignRight,
		},
	})
	t.AppendRow(table.Row{"sessions", result.Summary.TotalSessions})
	t.AppendRow(table.Row{"failed sessions", result.Summary.FailedSessions})
	t.AppendRow(table.Row{"average score", fmt.Sprintf("%.2f", result.Summary.AverageScore)})
	t.AppendRow(table.Row{"duration", result.Duration.Round(time.Millisecond).String()})
	return t.Render()
}
