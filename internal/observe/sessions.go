// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"context"
	"fmt"

	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/trace"
)

// SpansForSession returns the spans recorded for a session within the
// window, in start time order.
func (c *Client) SpansForSession(ctx context.Context, collection, sessionID, agentID string, window Window) ([]trace.Span, error) {
	rows, err := c.Execute(ctx, SpansBySessionQuery(sessionID, agentID), collection, window.StartMs, window.EndMs)
	if err != nil {
		return nil, err
	}

	spans := make([]trace.Span, len(rows))
	for i, row := range rows {
		spans[i] = trace.ParseSpan(row)
	}
	return spans, nil
}

// RuntimeLogsForTraces returns the runtime logs correlated to the given
// traces. The lookup is best-effort enrichment: with no trace ids no query
// is issued, and a failed query yields an empty result with a warning
// instead of an error.
func (c *Client) RuntimeLogsForTraces(ctx context.Context, collection string, traceIDs []string, window Window) []trace.RuntimeLog {
	query := RuntimeLogsByTracesQuery(traceIDs)
	if query == "" {
		return nil
	}

	rows, err := c.Execute(ctx, query, collection, window.StartMs, window.EndMs)
	if err != nil {
		logger.Warnf("Runtime logs lookup failed for %d traces: %v", len(traceIDs), err)
		return nil
	}

	logs := make([]trace.RuntimeLog, len(rows))
	for i, row := range rows {
		logs[i] = trace.ParseRuntimeLog(row)
	}
	return logs
}

// SessionData collects the raw data of a session: its spans and, when
// requested, the runtime logs of the traces those spans belong to.
func (c *Client) SessionData(ctx context.Context, traceCollection, runtimeCollection, sessionID, agentID string, window Window, includeRuntimeLogs bool) (*trace.TraceData, error) {
	spans, err := c.SpansForSession(ctx, traceCollection, sessionID, agentID, window)
	if err != nil {
		return nil, fmt.Errorf("can't collect spans for session %s: %w", sessionID, err)
	}

	data := trace.NewTraceData(sessionID, spans)
	if includeRuntimeLogs {
		if traceIDs := data.TraceIDs(); len(traceIDs) > 0 {
			data.AddRuntimeLogs(c.RuntimeLogsForTraces(ctx, runtimeCollection, traceIDs, window))
		}
	}
	return data, nil
}
