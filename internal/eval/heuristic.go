// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"fmt"

	"github.com/elastic/agentwatch/internal/session"
)

const defaultMinResponseLength = 20

// ToolSuccessEvaluator scores the share of tool executions that completed
// without error. A session without tool executions scores full marks, there
// is nothing to hold against it.
type ToolSuccessEvaluator struct {
	name string
}

// NewToolSuccessEvaluator creates a tool success evaluator.
func NewToolSuccessEvaluator(name string) *ToolSuccessEvaluator {
	return &ToolSuccessEvaluator{name: name}
}

// Name returns the evaluator name.
func (e *ToolSuccessEvaluator) Name() string {
	return e.name
}

// Evaluate scores a session by its tool execution outcomes.
func (e *ToolSuccessEvaluator) Evaluate(ctx context.Context, sess session.Session) (*Evaluation, error) {
	evaluation := Evaluation{Evaluator: e.name, SessionID: sess.SessionID}

	executions := sess.ToolExecutions()
	if len(executions) == 0 {
		evaluation.Score = MaxScore
		evaluation.Rationale = "no tool executions recorded"
		return &evaluation, nil
	}

	succeeded := 0
	for _, execution := range executions {
		if !execution.Result.Failed() {
			succeeded++
		}
	}
	evaluation.Score = MaxScore * float64(succeeded) / float64(len(executions))
	evaluation.Rationale = fmt.Sprintf("%d of %d tool executions succeeded", succeeded, len(executions))
	return &evaluation, nil
}

// ResponseLengthEvaluator scores the share of agent invocations whose final
// response reaches a minimum length. A blunt sanity check: truncated or
// empty answers are the most common total failures.
type ResponseLengthEvaluator struct {
	name      string
	minLength int
}

// NewResponseLengthEvaluator creates a response length evaluator. With a
// non-positive minLength the default minimum applies.
func NewResponseLengthEvaluator(name string, minLength int) *ResponseLengthEvaluator {
	if minLength <= 0 {
		minLength = defaultMinResponseLength
	}
	return &ResponseLengthEvaluator{name: name, minLength: minLength}
}

// Name returns the evaluator name.
func (e *ResponseLengthEvaluator) Name() string {
	return e.name
}

// Evaluate scores a session by the length of its reconstructed responses.
func (e *ResponseLengthEvaluator) Evaluate(ctx context.Context, sess session.Session) (*Evaluation, error) {
	evaluation := Evaluation{Evaluator: e.name, SessionID: sess.SessionID}

	var invocations, adequate int
	for _, tr := range sess.Traces {
		if tr.Invocation == nil {
			continue
		}
		invocations++
		if len(tr.Invocation.Response) >= e.minLength {
			adequate++
		}
	}
	if invocations == 0 {
		evaluation.Rationale = "no agent invocations reconstructed"
		return &evaluation, nil
	}

	evaluation.Score = MaxScore * float64(adequate) / float64(invocations)
	evaluation.Rationale = fmt.Sprintf("%d of %d responses reached %d characters", adequate, invocations, e.minLength)
	return &evaluation, nil
}
