// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpansBySessionQuery(t *testing.T) {
	t.Run("all agents", func(t *testing.T) {
		expected := `fields @timestamp, @message, traceId, spanId, name, startTimeUnixNano
| filter attributes.session.id = "sess-1"
| sort startTimeUnixNano asc`
		assert.Equal(t, expected, SpansBySessionQuery("sess-1", ""))
	})

	t.Run("single agent", func(t *testing.T) {
		expected := `fields @timestamp, @message, traceId, spanId, name, startTimeUnixNano
| filter attributes.session.id = "sess-1"
| filter resource.attributes.agent.id = "weather-agent"
| sort startTimeUnixNano asc`
		assert.Equal(t, expected, SpansBySessionQuery("sess-1", "weather-agent"))
	})
}

func TestRuntimeLogsByTracesQuery(t *testing.T) {
	t.Run("no traces, no query", func(t *testing.T) {
		assert.Equal(t, "", RuntimeLogsByTracesQuery(nil))
		assert.Equal(t, "", RuntimeLogsByTracesQuery([]string{}))
	})

	t.Run("batches all traces into one query", func(t *testing.T) {
		expected := `fields @timestamp, @message, @logStream, traceId, spanId
| filter traceId in ["tr-1", "tr-2", "tr-3"]
| sort @timestamp asc`
		assert.Equal(t, expected, RuntimeLogsByTracesQuery([]string{"tr-1", "tr-2", "tr-3"}))
	})
}

func TestDiscoverSessionsQuery(t *testing.T) {
	expected := `fields attributes.session.id as sessionId
| filter ispresent(sessionId)
| stats count(*) as spanCount, count_distinct(traceId) as traceCount, min(@timestamp) as firstSeen, max(@timestamp) as lastSeen by sessionId
| sort lastSeen desc
| limit 50`
	assert.Equal(t, expected, DiscoverSessionsQuery(50))
}

func TestDiscoverSessionsByScoreQuery(t *testing.T) {
	statsLine := `| stats count(*) as evaluationCount, avg(score) as avgScore, min(score) as minScore, max(score) as maxScore, min(@timestamp) as firstSeen, max(@timestamp) as lastSeen by sessionId`

	t.Run("evaluator only", func(t *testing.T) {
		expected := `fields sessionId, evaluator, score
| filter ispresent(sessionId) and ispresent(score)
| filter evaluator = "accuracy"
` + statsLine + `
| sort avgScore asc
| limit 25`
		assert.Equal(t, expected, DiscoverSessionsByScoreQuery("accuracy", nil, nil, 25))
	})

	t.Run("score range", func(t *testing.T) {
		minScore, maxScore := 0.1, 0.75
		expected := `fields sessionId, evaluator, score
| filter ispresent(sessionId) and ispresent(score)
| filter evaluator = "accuracy"
` + statsLine + `
| filter avgScore >= 0.1
| filter avgScore <= 0.75
| sort avgScore asc
| limit 10`
		assert.Equal(t, expected, DiscoverSessionsByScoreQuery("accuracy", &minScore, &maxScore, 10))
	})

	t.Run("lower bound only", func(t *testing.T) {
		minScore := 0.5
		query := DiscoverSessionsByScoreQuery("accuracy", &minScore, nil, 10)
		assert.Contains(t, query, "| filter avgScore >= 0.5")
		assert.NotContains(t, query, "<=")
	})
}
