// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

import (
	"encoding/json"
	"strings"

	"github.com/elastic/agentwatch/internal/common"
)

// contentBlocks normalizes message content into a list of content blocks.
// Instrumentations record content either as a structured list or as a string
// holding the JSON encoding of one. Anything else yields no blocks.
func contentBlocks(content interface{}) []common.MapStr {
	if text, ok := content.(string); ok {
		var decoded interface{}
		err := common.JSONUnmarshalUsingNumber([]byte(text), &decoded)
		if err != nil {
			return nil
		}
		content = decoded
	}

	blocks, err := common.ToMapStrSlice(content)
	if err != nil {
		return nil
	}
	return blocks
}

// textContent joins the text blocks of message content.
func textContent(blocks []common.MapStr) string {
	var parts []string
	for _, block := range blocks {
		value, err := block.GetValue("text")
		if err != nil {
			continue
		}
		if text, ok := value.(string); ok && text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// flattenedContent joins text blocks and re-encodes structured JSON payload
// blocks, so structured tool output is not lost.
func flattenedContent(blocks []common.MapStr) string {
	var parts []string
	for _, block := range blocks {
		if value, err := block.GetValue("text"); err == nil {
			if text, ok := value.(string); ok && text != "" {
				parts = append(parts, text)
			}
			continue
		}
		if value, err := block.GetValue("json"); err == nil {
			encoded, err := json.Marshal(value)
			if err == nil {
				parts = append(parts, string(encoded))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func stringValue(doc common.MapStr, key string) string {
	value, err := doc.GetValue(key)
	if err != nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return text
}
