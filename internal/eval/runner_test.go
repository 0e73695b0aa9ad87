// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/agentwatch/internal/session"
)

type fakeEvaluator struct {
	name string
	fn   func(sess session.Session) (*Evaluation, error)
}

func (f *fakeEvaluator) Name() string {
	return f.name
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, sess session.Session) (*Evaluation, error) {
	return f.fn(sess)
}

func scoringEvaluator(name string, score float64) *fakeEvaluator {
	return &fakeEvaluator{name: name, fn: func(sess session.Session) (*Evaluation, error) {
		return &Evaluation{Evaluator: name, SessionID: sess.SessionID, Score: score}, nil
	}}
}

func failingEvaluator(name string) *fakeEvaluator {
	return &fakeEvaluator{name: name, fn: func(session.Session) (*Evaluation, error) {
		return nil, errors.New("model unreachable")
	}}
}

func testSessions(count int) []session.Session {
	sessions := make([]session.Session, count)
	for i := range sessions {
		sessions[i] = session.Session{SessionID: fmt.Sprintf("sess-%d", i)}
	}
	return sessions
}

func TestRun(t *testing.T) {
	t.Run("failures are recorded per session, the run continues", func(t *testing.T) {
		result, err := Run(context.Background(), Config{
			RunID:      "run_test",
			Evaluators: []Evaluator{scoringEvaluator("scorer", 8), failingEvaluator("judge")},
		}, testSessions(2))
		require.NoError(t, err)

		assert.Equal(t, "run_test", result.RunID)
		require.Len(t, result.Sessions, 2)
		for _, sessionResult := range result.Sessions {
			require.Len(t, sessionResult.Evaluations, 1)
			assert.Equal(t, 8.0, sessionResult.Evaluations[0].Score)
			require.Len(t, sessionResult.Errors, 1)
			assert.Contains(t, sessionResult.Errors[0], "judge: ")
		}

		assert.Equal(t, 2, result.Summary.TotalSessions)
		assert.Equal(t, 2, result.Summary.FailedSessions)
		assert.Equal(t, 8.0, result.Summary.AverageScore)
	})

	t.Run("parallel run keeps session order", func(t *testing.T) {
		sessions := testSessions(12)
		result, err := Run(context.Background(), Config{
			RunID:       "run_parallel",
			Evaluators:  []Evaluator{scoringEvaluator("scorer", 5)},
			Parallelism: 4,
		}, sessions)
		require.NoError(t, err)

		require.Len(t, result.Sessions, len(sessions))
		for i, sessionResult := range result.Sessions {
			assert.Equal(t, sessions[i].SessionID, sessionResult.SessionID)
		}
		assert.Equal(t, 0, result.Summary.FailedSessions)
		assert.Equal(t, 5.0, result.Summary.AverageScore)
	})

	t.Run("result round-trips through the results directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := Run(context.Background(), Config{
			RunID:      "run_persisted",
			Evaluators: []Evaluator{scoringEvaluator("scorer", 3)},
			ResultsDir: dir,
		}, testSessions(1))
		require.NoError(t, err)

		loaded, err := ReadResult(filepath.Join(dir, "run_persisted.json"))
		require.NoError(t, err)

		assert.Equal(t, result.RunID, loaded.RunID)
		require.Len(t, loaded.Sessions, 1)
		assert.Equal(t, result.Sessions[0].Evaluations, loaded.Sessions[0].Evaluations)
		assert.Equal(t, result.Summary, loaded.Summary)
	})

	t.Run("run id is generated when missing", func(t *testing.T) {
		result, err := Run(context.Background(), Config{
			Evaluators: []Evaluator{scoringEvaluator("scorer", 1)},
		}, testSessions(1))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(result.RunID, "run_"), "unexpected run id %q", result.RunID)
	})

	t.Run("no evaluators", func(t *testing.T) {
		_, err := Run(context.Background(), Config{}, testSessions(1))
		assert.Error(t, err)
	})
}

func TestNewRunID(t *testing.T) {
	first := NewRunID()
	second := NewRunID()

	assert.True(t, strings.HasPrefix(first, "run_"))
	assert.NotEqual(t, first, second)
}
