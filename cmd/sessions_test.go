// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elastic/agentwatch/internal/trace"
)

func TestDescribeSession(t *testing.T) {
	t.Run("activity discovery", func(t *testing.T) {
		spanCount, traceCount := 12, 3
		description := describeSession(trace.SessionInfo{
			SessionID:  "sess-1",
			FirstSeen:  time.Now().Add(-time.Hour),
			LastSeen:   time.Now(),
			SpanCount:  &spanCount,
			TraceCount: &traceCount,
		})
		assert.Contains(t, description, "12 spans")
		assert.Contains(t, description, "3 traces")
		assert.Contains(t, description, "last seen")
	})

	t.Run("score discovery", func(t *testing.T) {
		evaluationCount := 4
		description := describeSession(trace.SessionInfo{
			SessionID:       "sess-2",
			LastSeen:        time.Now(),
			EvaluationCount: &evaluationCount,
			Scores:          map[string]float64{"avgScore": 6.5},
		})
		assert.Contains(t, description, "4 evaluations")
		assert.Contains(t, description, "avg score 6.50")
	})
}
