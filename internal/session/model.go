// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

// ToolCall is a request by the assistant to invoke one of the tools
// available to the agent.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ToolResult is the outcome of a tool call, correlated by the call id.
// Error carries the failure text when the tool reported one, Content the
// regular output otherwise.
type ToolResult struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the tool reported an error outcome.
func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// ToolExecution pairs a tool call with its result. The result is empty when
// the trace never answered the call.
type ToolExecution struct {
	Call   ToolCall   `json:"call"`
	Result ToolResult `json:"result"`
}

// AgentInvocation summarizes one conversation turn: the user prompt that
// started it, the response selected as the final answer, and the tools the
// agent called along the way.
type AgentInvocation struct {
	Prompt         string   `json:"prompt"`
	Response       string   `json:"response"`
	AvailableTools []string `json:"available_tools,omitempty"`
}

// Trace is the reconstructed execution of one trace: its tool executions in
// the order the calls were first seen, then the agent invocation.
type Trace struct {
	TraceID        string           `json:"trace_id"`
	ToolExecutions []ToolExecution  `json:"tool_executions,omitempty"`
	Invocation     *AgentInvocation `json:"invocation,omitempty"`
}

// Empty reports whether nothing could be reconstructed for the trace.
func (t Trace) Empty() bool {
	return len(t.ToolExecutions) == 0 && t.Invocation == nil
}

// Session groups the reconstructed traces of one conversation, in the order
// their spans were first seen.
type Session struct {
	SessionID string  `json:"session_id"`
	Traces    []Trace `json:"traces"`
}

// ToolExecutions returns the tool executions of all the traces of the
// session.
func (s Session) ToolExecutions() []ToolExecution {
	var executions []ToolExecution
	for _, t := range s.Traces {
		executions = append(executions, t.ToolExecutions...)
	}
	return executions
}
