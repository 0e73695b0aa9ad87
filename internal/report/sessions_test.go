// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/agentwatch/internal/trace"
)

func withoutColor(t *testing.T) {
	t.Helper()

	initial := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = initial })
}

func count(n int) *int {
	return &n
}

func TestWriteSessions(t *testing.T) {
	withoutColor(t)

	firstSeen := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	lastSeen := firstSeen.Add(90 * time.Second)

	t.Run("time based table", func(t *testing.T) {
		result := &trace.DiscoveryResult{
			Sessions: []trace.SessionInfo{
				{
					SessionID:       "sess-1",
					FirstSeen:       firstSeen,
					LastSeen:        lastSeen,
					DiscoveryMethod: trace.DiscoveryTimeBased,
					SpanCount:       count(12),
					TraceCount:      count(3),
				},
				{
					SessionID:       "sess-2",
					FirstSeen:       firstSeen,
					LastSeen:        lastSeen,
					DiscoveryMethod: trace.DiscoveryTimeBased,
				},
			},
			LogGroup:        "agent-traces",
			TimeRangeStart:  firstSeen.Add(-time.Hour),
			TimeRangeEnd:    lastSeen,
			DiscoveryMethod: trace.DiscoveryTimeBased,
		}

		var buf bytes.Buffer
		err := WriteSessions(&buf, result)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Log group: ")
		assert.Contains(t, out, "agent-traces")
		assert.Contains(t, out, "Sessions: ")
		assert.Contains(t, out, "sess-1")
		assert.Contains(t, out, "sess-2")
		assert.Contains(t, out, "2026-08-20T10:00:00Z")
		assert.Contains(t, out, "1m30s")
		assert.Contains(t, out, "12")
		assert.Contains(t, out, humanize.Time(lastSeen))
	})

	t.Run("score based table", func(t *testing.T) {
		result := &trace.DiscoveryResult{
			Sessions: []trace.SessionInfo{
				{
					SessionID:       "sess-9",
					FirstSeen:       firstSeen,
					LastSeen:        lastSeen,
					DiscoveryMethod: trace.DiscoveryScoreBased,
					EvaluationCount: count(4),
					Evaluator:       "llm-judge",
					Scores: map[string]float64{
						"avgScore": 6.5,
						"minScore": 2,
						"maxScore": 9.75,
					},
				},
			},
			LogGroup:        "agent-evaluation-results",
			TimeRangeStart:  firstSeen.Add(-time.Hour),
			TimeRangeEnd:    lastSeen,
			DiscoveryMethod: trace.DiscoveryScoreBased,
			FilterCriteria:  map[string]string{"evaluator": "llm-judge"},
		}

		var buf bytes.Buffer
		err := WriteSessions(&buf, result)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Evaluator: ")
		assert.Contains(t, out, "llm-judge")
		assert.Contains(t, out, "sess-9")
		assert.Contains(t, out, "6.50")
		assert.Contains(t, out, "2.00")
		assert.Contains(t, out, "9.75")
		assert.Contains(t, out, "4")
	})

	t.Run("no sessions", func(t *testing.T) {
		result := &trace.DiscoveryResult{
			LogGroup:        "agent-traces",
			TimeRangeStart:  firstSeen,
			TimeRangeEnd:    lastSeen,
			DiscoveryMethod: trace.DiscoveryTimeBased,
		}

		var buf bytes.Buffer
		err := WriteSessions(&buf, result)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Sessions: ")
		assert.Contains(t, out, "No sessions found.")
	})
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "-", formatCount(nil))
	assert.Equal(t, "7", formatCount(count(7)))
}

func TestFormatScore(t *testing.T) {
	info := trace.SessionInfo{
		Scores: map[string]float64{"avgScore": 6.128},
	}
	assert.Equal(t, "6.13", formatScore(info, "avgScore"))
	assert.Equal(t, "-", formatScore(info, "minScore"))
	assert.Equal(t, "-", formatScore(trace.SessionInfo{}, "avgScore"))
}
