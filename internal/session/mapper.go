// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

import (
	"sort"

	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/trace"
)

// Mapper reconstructs conversational sessions from raw span data.
type Mapper struct{}

// NewMapper creates a mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// FromTraceData reconstructs the session carried by collected trace data.
func (m *Mapper) FromTraceData(data *trace.TraceData) Session {
	return m.ToSession(data.Spans, data.SessionID)
}

// ToSession reconstructs a whole session, grouping its spans by trace in
// order of first appearance. Traces where nothing was reconstructed are
// dropped.
func (m *Mapper) ToSession(spans []trace.Span, sessionID string) Session {
	groups := map[string][]trace.Span{}
	var order []string
	for _, span := range spans {
		if span.TraceID == "" {
			logger.Debugf("Skipping span %s without trace id", span.SpanID)
			continue
		}
		if _, found := groups[span.TraceID]; !found {
			order = append(order, span.TraceID)
		}
		groups[span.TraceID] = append(groups[span.TraceID], span)
	}

	session := Session{SessionID: sessionID}
	for _, traceID := range order {
		reconstructed := m.ToTrace(groups[traceID], traceID)
		if reconstructed.Empty() {
			continue
		}
		session.Traces = append(session.Traces, reconstructed)
	}
	return session
}

// ToTrace reconstructs one trace from its spans: one tool execution per
// call in the order the calls were first seen, then the agent invocation
// summarizing the conversation turn.
func (m *Mapper) ToTrace(spans []trace.Span, traceID string) Trace {
	ordered := sortedByStartTime(spans)
	calls, results, callOrder := collectToolActivity(ordered)

	reconstructed := Trace{TraceID: traceID}
	for _, id := range callOrder {
		execution := ToolExecution{Call: calls[id]}
		if result, found := results[id]; found {
			execution.Result = result
		} else {
			// A call the trace never answered still counts as an
			// execution, with an empty result.
			execution.Result = ToolResult{ID: id}
		}
		reconstructed.ToolExecutions = append(reconstructed.ToolExecutions, execution)
	}
	reconstructed.Invocation = agentInvocation(ordered, calledTools(calls))
	return reconstructed
}

// collectToolActivity gathers the tool calls of the assistant output in one
// pass and the results of the input messages in a second one. Repeated ids
// keep the last representation seen, ids keep the order of their first
// appearance.
func collectToolActivity(spans []trace.Span) (calls map[string]ToolCall, results map[string]ToolResult, order []string) {
	calls = map[string]ToolCall{}
	results = map[string]ToolResult{}

	for _, span := range spans {
		if span.Message == nil {
			continue
		}
		for _, call := range toolCalls(span.Message) {
			if _, found := calls[call.ID]; !found {
				order = append(order, call.ID)
			}
			calls[call.ID] = call
		}
	}
	for _, span := range spans {
		if span.Message == nil {
			continue
		}
		for _, result := range toolResults(span.Message) {
			results[result.ID] = result
		}
	}
	return calls, results, order
}

// agentInvocation summarizes the conversation turn: the first user prompt,
// the assistant text selected as the final answer, and the tools that were
// called. Without both a prompt and a response no invocation is emitted.
func agentInvocation(spans []trace.Span, tools []string) *AgentInvocation {
	var prompt string
	var responses []string
	for _, span := range spans {
		if span.Message == nil {
			continue
		}
		if prompt == "" {
			prompt = userPrompt(span.Message)
		}
		if response := assistantResponse(span.Message); response != "" {
			responses = append(responses, response)
		}
	}

	response := selectAgentResponse(responses)
	if prompt == "" || response == "" {
		return nil
	}
	return &AgentInvocation{
		Prompt:         prompt,
		Response:       response,
		AvailableTools: tools,
	}
}

// calledTools returns the distinct names of the called tools, sorted.
func calledTools(calls map[string]ToolCall) []string {
	seen := map[string]struct{}{}
	var tools []string
	for _, call := range calls {
		if call.Name == "" {
			continue
		}
		if _, found := seen[call.Name]; found {
			continue
		}
		seen[call.Name] = struct{}{}
		tools = append(tools, call.Name)
	}
	sort.Strings(tools)
	return tools
}

func sortedByStartTime(spans []trace.Span) []trace.Span {
	ordered := make([]trace.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return startTime(ordered[i]) < startTime(ordered[j])
	})
	return ordered
}

// Spans without a reported start time sort as earliest.
func startTime(span trace.Span) int64 {
	if span.StartTimeUnixNano == nil {
		return 0
	}
	return *span.StartTimeUnixNano
}
