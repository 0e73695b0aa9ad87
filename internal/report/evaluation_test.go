// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elastic/agentwatch/internal/eval"
)

func TestRenderEvaluation(t *testing.T) {
	t.Run("scores and errors", func(t *testing.T) {
		result := &eval.Result{
			RunID:    "run_test",
			Duration: 1500 * time.Millisecond,
			Sessions: []*eval.SessionResult{
				{
					SessionID: "sess-1",
					Evaluations: []eval.Evaluation{
						{Evaluator: "tool-success", SessionID: "sess-1", Score: 10, Rationale: "2 of 2 tool executions succeeded"},
						{Evaluator: "llm-judge", SessionID: "sess-1", Score: 7.5, Rationale: "helpful answer"},
					},
				},
				{
					SessionID: "sess-2",
					Errors:    []string{"llm-judge: unexpected status code 500"},
				},
			},
			Summary: &eval.Summary{
				TotalSessions:  2,
				FailedSessions: 1,
				AverageScore:   8.75,
			},
		}

		out := RenderEvaluation(result)
		assert.Contains(t, out, "EVALUATION ERRORS:")
		assert.Contains(t, out, "sess-2: llm-judge: unexpected status code 500")
		assert.Contains(t, out, "tool-success")
		assert.Contains(t, out, "10.00")
		assert.Contains(t, out, "7.50")
		assert.Contains(t, out, "helpful answer")
		assert.Contains(t, out, "run run_test")
		assert.Contains(t, out, "8.75")
		assert.Contains(t, out, "1.5s")

		// Errors come before the score table.
		assert.Less(t, strings.Index(out, "EVALUATION ERRORS:"), strings.Index(out, "tool-success"))
	})

	t.Run("no errors section without errors", func(t *testing.T) {
		result := &eval.Result{
			RunID: "run_test",
			Sessions: []*eval.SessionResult{
				{
					SessionID: "sess-1",
					Evaluations: []eval.Evaluation{
						{Evaluator: "tool-success", SessionID: "sess-1", Score: 5, Rationale: "1 of 2 tool executions succeeded"},
					},
				},
			},
			Summary: &eval.Summary{TotalSessions: 1, AverageScore: 5},
		}

		out := RenderEvaluation(result)
		assert.NotContains(t, out, "EVALUATION ERRORS:")
		assert.Contains(t, out, "5.00")
	})

	t.Run("no sessions", func(t *testing.T) {
		out := RenderEvaluation(&eval.Result{RunID: "run_test"})
		assert.Equal(t, "No sessions evaluated", out)
	})
}
