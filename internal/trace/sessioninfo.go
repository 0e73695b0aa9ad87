// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package trace

import (
	"time"
)

// DiscoveryMethod distinguishes how a session was found.
type DiscoveryMethod string

const (
	// DiscoveryTimeBased marks sessions found by recent activity.
	DiscoveryTimeBased DiscoveryMethod = "time_based"

	// DiscoveryScoreBased marks sessions found by recorded evaluation scores.
	DiscoveryScoreBased DiscoveryMethod = "score_based"
)

// SessionInfo describes one discovered session. Count fields are pointers as
// each discovery method reports a different subset of them.
type SessionInfo struct {
	SessionID       string          `json:"session_id"`
	FirstSeen       time.Time       `json:"first_seen"`
	LastSeen        time.Time       `json:"last_seen"`
	DiscoveryMethod DiscoveryMethod `json:"discovery_method"`

	SpanCount  *int `json:"span_count,omitempty"`
	TraceCount *int `json:"trace_count,omitempty"`

	EvaluationCount *int               `json:"evaluation_count,omitempty"`
	Evaluator       string             `json:"evaluator,omitempty"`
	Scores          map[string]float64 `json:"scores,omitempty"`
}

// Duration returns the observed lifetime of the session.
func (i SessionInfo) Duration() time.Duration {
	return i.LastSeen.Sub(i.FirstSeen)
}
