// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/agentwatch/internal/observe"
	"github.com/elastic/agentwatch/internal/session"
)

type fakeRecordsAPI struct {
	createErr error
	putErr    error

	createCalls int
	putCalls    int
	streams     []string
	messages    []string
}

func (f *fakeRecordsAPI) CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.createCalls++
	f.streams = append(f.streams, aws.ToString(params.LogStreamName))
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeRecordsAPI) PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	for _, event := range params.LogEvents {
		f.messages = append(f.messages, aws.ToString(event.Message))
	}
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func TestRecorder(t *testing.T) {
	evaluation := Evaluation{
		Evaluator: "accuracy",
		SessionID: "sess-1",
		Score:     6.5,
		Rationale: "mostly right",
	}

	t.Run("creates the log stream once", func(t *testing.T) {
		api := fakeRecordsAPI{}
		recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

		require.NoError(t, recorder.Record(context.Background(), evaluation))
		require.NoError(t, recorder.Record(context.Background(), evaluation))

		assert.Equal(t, 1, api.createCalls)
		assert.Equal(t, 2, api.putCalls)
		assert.Equal(t, []string{"agentwatch-run_test"}, api.streams)
	})

	t.Run("record carries the score fields", func(t *testing.T) {
		api := fakeRecordsAPI{}
		recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

		require.NoError(t, recorder.Record(context.Background(), evaluation))

		require.Len(t, api.messages, 1)
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(api.messages[0]), &record))
		assert.Equal(t, "sess-1", record["sessionId"])
		assert.Equal(t, "accuracy", record["evaluator"])
		assert.Equal(t, 6.5, record["score"])
		assert.Equal(t, "mostly right", record["rationale"])
		assert.Equal(t, "run_test", record["runId"])
	})

	t.Run("record fields feed score discovery", func(t *testing.T) {
		// The discovery query must select exactly the fields the recorder
		// writes, otherwise recorded evaluations never surface again.
		query := observe.DiscoverSessionsByScoreQuery("accuracy", nil, nil, 10)
		for _, field := range []string{"sessionId", "evaluator", "score"} {
			assert.Contains(t, query, field)
		}
	})

	t.Run("existing stream is fine", func(t *testing.T) {
		api := fakeRecordsAPI{createErr: &types.ResourceAlreadyExistsException{}}
		recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

		require.NoError(t, recorder.Record(context.Background(), evaluation))
		assert.Equal(t, 1, api.putCalls)
	})

	t.Run("stream creation failure", func(t *testing.T) {
		api := fakeRecordsAPI{createErr: errors.New("access denied")}
		recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

		err := recorder.Record(context.Background(), evaluation)
		require.Error(t, err)
		assert.Equal(t, 0, api.putCalls)
	})

	t.Run("write failure", func(t *testing.T) {
		api := fakeRecordsAPI{putErr: errors.New("throttled")}
		recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

		err := recorder.Record(context.Background(), evaluation)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sess-1")
	})
}

func TestRunWithRecorder(t *testing.T) {
	api := fakeRecordsAPI{}
	recorder := NewRecorder(&api, "/agents/weather/results", "run_test")

	result, err := Run(context.Background(), Config{
		RunID:      "run_test",
		Evaluators: []Evaluator{scoringEvaluator("scorer", 7)},
		Recorder:   recorder,
	}, []session.Session{{SessionID: "sess-1"}, {SessionID: "sess-2"}})
	require.NoError(t, err)

	assert.Len(t, result.Sessions, 2)
	assert.Equal(t, 2, api.putCalls)
	require.Len(t, api.messages, 2)
	assert.Contains(t, api.messages[0], `"sessionId":"sess-1"`)
	assert.Contains(t, api.messages[1], `"sessionId":"sess-2"`)
}
