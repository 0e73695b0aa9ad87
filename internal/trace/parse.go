// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package trace

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/elastic/agentwatch/internal/common"
)

// Row is a single raw result row of a Logs Insights query.
type Row = []types.ResultField

// Result field names shared by the span and runtime log queries.
const (
	timestampField = "@timestamp"
	messageField   = "@message"
	logStreamField = "@logStream"
	traceIDField   = "traceId"
	spanIDField    = "spanId"
	nameField      = "name"
	startTimeField = "startTimeUnixNano"
)

// ParseSpan builds a Span from a raw result row. Parsing is total: missing
// fields keep their zero values and a payload that is not valid JSON is kept
// in raw form only.
func ParseSpan(row Row) Span {
	fields := fieldMap(row)
	message, raw := payloadField(fields, messageField)
	return Span{
		TraceID:           fields[traceIDField],
		SpanID:            fields[spanIDField],
		Name:              fields[nameField],
		StartTimeUnixNano: int64Field(fields, startTimeField),
		Timestamp:         fields[timestampField],
		Message:           message,
		RawMessage:        raw,
	}
}

// ParseRuntimeLog builds a RuntimeLog from a raw result row, with the same
// total semantics as ParseSpan.
func ParseRuntimeLog(row Row) RuntimeLog {
	fields := fieldMap(row)
	message, raw := payloadField(fields, messageField)
	return RuntimeLog{
		Timestamp:  fields[timestampField],
		TraceID:    fields[traceIDField],
		SpanID:     fields[spanIDField],
		LogStream:  fields[logStreamField],
		Message:    message,
		RawMessage: raw,
	}
}

// ParseSessionInfo builds a SessionInfo from a discovery result row. Rows
// without a session id or without parseable first/last seen timestamps are
// rejected, the discovery query should never produce them.
func ParseSessionInfo(row Row, method DiscoveryMethod) (SessionInfo, error) {
	fields := fieldMap(row)
	sessionID := fields["sessionId"]
	if sessionID == "" {
		return SessionInfo{}, errors.New("discovery row without session id")
	}

	firstSeen, err := parseTime(fields["firstSeen"])
	if err != nil {
		return SessionInfo{}, fmt.Errorf("session %s has no valid first seen timestamp: %w", sessionID, err)
	}
	lastSeen, err := parseTime(fields["lastSeen"])
	if err != nil {
		return SessionInfo{}, fmt.Errorf("session %s has no valid last seen timestamp: %w", sessionID, err)
	}

	info := SessionInfo{
		SessionID:       sessionID,
		FirstSeen:       firstSeen,
		LastSeen:        lastSeen,
		DiscoveryMethod: method,
	}
	switch method {
	case DiscoveryTimeBased:
		info.SpanCount = intField(fields, "spanCount")
		info.TraceCount = intField(fields, "traceCount")
	case DiscoveryScoreBased:
		info.EvaluationCount = intField(fields, "evaluationCount")
		for _, stat := range []string{"avgScore", "minScore", "maxScore"} {
			value := floatField(fields, stat)
			if value == nil {
				continue
			}
			if info.Scores == nil {
				info.Scores = map[string]float64{}
			}
			info.Scores[stat] = *value
		}
	}
	return info, nil
}

// fieldMap flattens a result row into a name to value lookup. All later
// field access goes through the map, so a field appearing twice in a row
// resolves to its last value.
func fieldMap(row Row) map[string]string {
	fields := make(map[string]string, len(row))
	for _, field := range row {
		fields[aws.ToString(field.Field)] = aws.ToString(field.Value)
	}
	return fields
}

func payloadField(fields map[string]string, name string) (common.MapStr, string) {
	raw := fields[name]
	var doc common.MapStr
	err := common.JSONUnmarshalUsingNumber([]byte(raw), &doc)
	if err != nil {
		// Not all payloads are JSON documents.
		return nil, raw
	}
	return doc, raw
}

func int64Field(fields map[string]string, name string) *int64 {
	value, found := fields[name]
	if !found {
		return nil
	}
	number, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &number
}

func intField(fields map[string]string, name string) *int {
	value := int64Field(fields, name)
	if value == nil {
		return nil
	}
	number := int(*value)
	return &number
}

func floatField(fields map[string]string, name string) *float64 {
	value, found := fields[name]
	if !found {
		return nil
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &number
}

// Timestamp formats produced by Logs Insights, most common first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}
