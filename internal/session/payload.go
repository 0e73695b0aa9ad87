// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

import (
	"github.com/elastic/agentwatch/internal/common"
)

// Span payloads follow the conversational schema of the agent runtime:
// output.message carries what the assistant produced in the turn, while
// input.messages carries the conversation so far, including the results of
// earlier tool calls. Extraction is tolerant, malformed pieces yield nothing.

// toolCalls extracts the tool calls requested in the assistant output of a
// span payload.
func toolCalls(doc common.MapStr) []ToolCall {
	content, err := doc.GetValue("output.message.content")
	if err != nil {
		return nil
	}

	var calls []ToolCall
	for _, block := range contentBlocks(content) {
		raw, err := block.GetValue("toolUse")
		if err != nil {
			continue
		}
		use, err := common.ToMapStr(raw)
		if err != nil {
			continue
		}
		call := ToolCall{
			ID:   stringValue(use, "toolUseId"),
			Name: stringValue(use, "name"),
		}
		if call.ID == "" {
			continue
		}
		if input, err := use.GetValue("input"); err == nil {
			if arguments, err := common.ToMapStr(input); err == nil {
				call.Arguments = arguments
			}
		}
		calls = append(calls, call)
	}
	return calls
}

// toolResults extracts the tool results carried back in the input messages
// of a span payload.
func toolResults(doc common.MapStr) []ToolResult {
	var results []ToolResult
	for _, message := range inputMessages(doc) {
		content, err := message.GetValue("content")
		if err != nil {
			continue
		}
		for _, block := range contentBlocks(content) {
			raw, err := block.GetValue("toolResult")
			if err != nil {
				continue
			}
			toolResult, err := common.ToMapStr(raw)
			if err != nil {
				continue
			}
			id := stringValue(toolResult, "toolUseId")
			if id == "" {
				continue
			}
			result := ToolResult{
				ID:      id,
				Content: toolResultContent(toolResult),
			}
			if stringValue(toolResult, "status") == "error" {
				result.Error = result.Content
				if result.Error == "" {
					result.Error = "tool returned an error"
				}
				result.Content = ""
			}
			results = append(results, result)
		}
	}
	return results
}

// userPrompt returns the first user-authored text in the input messages of
// a span payload. Messages carrying only tool results have no text blocks
// and are skipped.
func userPrompt(doc common.MapStr) string {
	for _, message := range inputMessages(doc) {
		if stringValue(message, "role") != "user" {
			continue
		}
		content, err := message.GetValue("content")
		if err != nil {
			continue
		}
		if text := textContent(contentBlocks(content)); text != "" {
			return text
		}
	}
	return ""
}

// assistantResponse returns the assistant-authored text of a span payload.
func assistantResponse(doc common.MapStr) string {
	content, err := doc.GetValue("output.message.content")
	if err != nil {
		return ""
	}
	return textContent(contentBlocks(content))
}

func inputMessages(doc common.MapStr) []common.MapStr {
	value, err := doc.GetValue("input.messages")
	if err != nil {
		return nil
	}
	messages, err := common.ToMapStrSlice(value)
	if err != nil {
		return nil
	}
	return messages
}

func toolResultContent(toolResult common.MapStr) string {
	content, err := toolResult.GetValue("content")
	if err != nil {
		return ""
	}
	return flattenedContent(contentBlocks(content))
}
