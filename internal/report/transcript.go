// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package report

import (
	"encoding/json"
	"fmt"

	"github.com/aymerick/raymond"

	"github.com/elastic/agentwatch/internal/session"
)

// transcriptTemplate renders one reconstructed session as markdown. Content
// fields use triple braces, prompts and tool outputs must stay unescaped.
const transcriptTemplate = `# Session {{session_id}}
{{#each traces}}

## Trace {{trace_id}}
{{#if invocation}}

**User:**

{{{invocation.prompt}}}
{{/if}}
{{#if tool_executions}}

**Tool executions:**

{{#each tool_executions}}
- ` + "`{{{call}}}`" + ` {{#if failed}}failed: {{{error}}}{{else}}-> {{{outcome}}}{{/if}}
{{/each}}
{{/if}}
{{#if invocation}}

**Assistant:**

{{{invocation.response}}}
{{/if}}
{{/each}}
`

// RenderTranscript renders a reconstructed session as a markdown document,
// one section per trace with the conversation turn and the tool activity.
func RenderTranscript(s *session.Session) (string, error) {
	tmpl, err := raymond.Parse(transcriptTemplate)
	if err != nil {
		return "", fmt.Errorf("can't parse transcript template: %w", err)
	}

	result, err := tmpl.Exec(transcriptContext(s))
	if err != nil {
		return "", fmt.Errorf("can't render transcript for session %s: %w", s.SessionID, err)
	}
	return result, nil
}

func transcriptContext(s *session.Session) map[string]interface{} {
	traces := make([]map[string]interface{}, 0, len(s.Traces))
	for _, tr := range s.Traces {
		traces = append(traces, traceContext(tr))
	}
	return map[string]interface{}{
		"session_id": s.SessionID,
		"traces":     traces,
	}
}

func traceContext(tr session.Trace) map[string]interface{} {
	executions := make([]map[string]interface{}, 0, len(tr.ToolExecutions))
	for _, execution := range tr.ToolExecutions {
		executions = append(executions, map[string]interface{}{
			"call":    formatCall(execution.Call),
			"failed":  execution.Result.Failed(),
			"error":   execution.Result.Error,
			"outcome": formatOutcome(execution.Result),
		})
	}

	ctxt := map[string]interface{}{
		"trace_id":        tr.TraceID,
		"tool_executions": executions,
	}
	if tr.Invocation != nil {
		ctxt["invocation"] = map[string]interface{}{
			"prompt":   tr.Invocation.Prompt,
			"response": tr.Invocation.Response,
		}
	}
	return ctxt
}

func formatCall(call session.ToolCall) string {
	return fmt.Sprintf("%s(%s)", call.Name, formatArguments(call.Arguments))
}

func formatArguments(arguments map[string]interface{}) string {
	if len(arguments) == 0 {
		return ""
	}
	encoded, err := json.Marshal(arguments)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func formatOutcome(result session.ToolResult) string {
	if result.Content == "" {
		return "no result recorded"
	}
	return result.Content
}
