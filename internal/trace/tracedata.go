// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package trace

import (
	"github.com/gobwas/glob"

	"github.com/elastic/agentwatch/internal/logger"
)

// TraceData aggregates everything collected for one session: the spans of
// its traces and, optionally, the runtime logs correlated to them.
type TraceData struct {
	SessionID   string
	Spans       []Span
	RuntimeLogs []RuntimeLog
}

// NewTraceData builds the aggregate for a session. Spans whose payload
// carries a different session id are dropped with a warning, spans without
// one are kept.
func NewTraceData(sessionID string, spans []Span) *TraceData {
	data := TraceData{SessionID: sessionID}
	for _, span := range spans {
		if id := span.SessionID(); id != "" && id != sessionID {
			logger.Warnf("Dropping span %s of session %s collected for session %s", span.SpanID, id, sessionID)
			continue
		}
		data.Spans = append(data.Spans, span)
	}
	return &data
}

// AddRuntimeLogs appends runtime logs to the aggregate.
func (d *TraceData) AddRuntimeLogs(logs []RuntimeLog) {
	d.RuntimeLogs = append(d.RuntimeLogs, logs...)
}

// TraceIDs returns the distinct ids of the traces the spans belong to, in
// order of first appearance.
func (d *TraceData) TraceIDs() []string {
	var ids []string
	seen := map[string]struct{}{}
	for _, span := range d.Spans {
		if span.TraceID == "" {
			continue
		}
		if _, found := seen[span.TraceID]; found {
			continue
		}
		seen[span.TraceID] = struct{}{}
		ids = append(ids, span.TraceID)
	}
	return ids
}

// ToolExecutionSpanIDs returns the ids of the spans recording a tool
// invocation. With a non-empty filter only tools whose name matches the
// glob pattern count. An invalid pattern matches nothing.
func (d *TraceData) ToolExecutionSpanIDs(filter string) []string {
	var matcher glob.Glob
	if filter != "" {
		var err error
		matcher, err = glob.Compile(filter)
		if err != nil {
			logger.Warnf("Invalid tool name filter %q: %v", filter, err)
			return nil
		}
	}

	var ids []string
	for _, span := range d.Spans {
		tool, ok := span.ToolInvocation()
		if !ok {
			continue
		}
		if matcher != nil && !matcher.Match(tool) {
			continue
		}
		ids = append(ids, span.SpanID)
	}
	return ids
}
