// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"fmt"
	"strconv"
	"strings"
)

// Queries select a fixed field list, so the record parsers can rely on
// field names. Filter values are passed through verbatim, validation happens
// when the service executes the query.

// SpansBySessionQuery returns a query for all the spans of a session, sorted
// by start time. A non-empty agentID narrows the query to the spans of one
// agent.
func SpansBySessionQuery(sessionID, agentID string) string {
	var query strings.Builder
	query.WriteString("fields @timestamp, @message, traceId, spanId, name, startTimeUnixNano")
	fmt.Fprintf(&query, "\n| filter attributes.session.id = %q", sessionID)
	if agentID != "" {
		fmt.Fprintf(&query, "\n| filter resource.attributes.agent.id = %q", agentID)
	}
	query.WriteString("\n| sort startTimeUnixNano asc")
	return query.String()
}

// RuntimeLogsByTracesQuery returns a query for the runtime logs of the given
// traces, batched into a single filter so a session costs one round trip
// instead of one per trace. With no trace ids the empty string is returned
// and callers must not issue a query.
func RuntimeLogsByTracesQuery(traceIDs []string) string {
	if len(traceIDs) == 0 {
		return ""
	}

	quoted := make([]string, len(traceIDs))
	for i, id := range traceIDs {
		quoted[i] = strconv.Quote(id)
	}

	var query strings.Builder
	query.WriteString("fields @timestamp, @message, @logStream, traceId, spanId")
	fmt.Fprintf(&query, "\n| filter traceId in [%s]", strings.Join(quoted, ", "))
	query.WriteString("\n| sort @timestamp asc")
	return query.String()
}

// DiscoverSessionsQuery returns a query aggregating spans by session id over
// the query window, most recently active sessions first.
func DiscoverSessionsQuery(limit int) string {
	var query strings.Builder
	query.WriteString("fields attributes.session.id as sessionId")
	query.WriteString("\n| filter ispresent(sessionId)")
	query.WriteString("\n| stats count(*) as spanCount, count_distinct(traceId) as traceCount," +
		" min(@timestamp) as firstSeen, max(@timestamp) as lastSeen by sessionId")
	query.WriteString("\n| sort lastSeen desc")
	fmt.Fprintf(&query, "\n| limit %d", limit)
	return query.String()
}

// DiscoverSessionsByScoreQuery returns a query aggregating recorded
// evaluation results by session id, restricted to one evaluator and
// optionally to a range of average scores, worst average first.
func DiscoverSessionsByScoreQuery(evaluator string, minScore, maxScore *float64, limit int) string {
	var query strings.Builder
	query.WriteString("fields sessionId, evaluator, score")
	query.WriteString("\n| filter ispresent(sessionId) and ispresent(score)")
	fmt.Fprintf(&query, "\n| filter evaluator = %q", evaluator)
	query.WriteString("\n| stats count(*) as evaluationCount, avg(score) as avgScore," +
		" min(score) as minScore, max(score) as maxScore," +
		" min(@timestamp) as firstSeen, max(@timestamp) as lastSeen by sessionId")
	if minScore != nil {
		fmt.Fprintf(&query, "\n| filter avgScore >= %s", formatScore(*minScore))
	}
	if maxScore != nil {
		fmt.Fprintf(&query, "\n| filter avgScore <= %s", formatScore(*maxScore))
	}
	query.WriteString("\n| sort avgScore asc")
	fmt.Fprintf(&query, "\n| limit %d", limit)
	return query.String()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
