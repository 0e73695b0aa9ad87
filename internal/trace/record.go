// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package trace

import (
	"github.com/elastic/agentwatch/internal/common"
)

// Span is one unit of work recorded by the agent runtime, as returned by a
// span query. Spans are immutable after construction from one result row.
type Span struct {
	TraceID string
	SpanID  string
	Name    string

	// StartTimeUnixNano is nil when the producer did not report a start
	// time. Such spans sort as earliest.
	StartTimeUnixNano *int64

	// Timestamp is the raw ingestion timestamp as reported by the service.
	Timestamp string

	// Message is the decoded payload document, nil when the payload is not
	// valid JSON. RawMessage always keeps the original text.
	Message    common.MapStr
	RawMessage string
}

// RuntimeLog is a log line the agent runtime emitted while a trace was
// executing, correlated to it by trace and span ids.
type RuntimeLog struct {
	Timestamp string
	TraceID   string
	SpanID    string
	LogStream string

	Message    common.MapStr
	RawMessage string
}

// Payload attribute names of interest, as the agent runtime instrumentation
// records them.
const (
	sessionIDAttribute     = "attributes.session.id"
	operationNameAttribute = "attributes.gen_ai.operation.name"
	toolNameAttribute      = "attributes.gen_ai.tool.name"

	toolExecutionOperation = "execute_tool"
)

// SessionID returns the session id the span payload carries, or the empty
// string when the payload has none.
func (s Span) SessionID() string {
	return s.stringAttribute(sessionIDAttribute)
}

// ToolInvocation returns the name of the invoked tool when the span records
// a tool execution.
func (s Span) ToolInvocation() (string, bool) {
	if s.stringAttribute(operationNameAttribute) != toolExecutionOperation {
		return "", false
	}
	return s.stringAttribute(toolNameAttribute), true
}

func (s Span) stringAttribute(key string) string {
	if s.Message == nil {
		return ""
	}
	value, err := s.Message.GetValue(key)
	if err != nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return text
}
