// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// RecordsAPI is the part of the CloudWatch Logs API used to write score
// records. It is implemented by *cloudwatchlogs.Client.
type RecordsAPI interface {
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// Recorder writes one JSON score record per evaluation to the results
// collection. Score-based discovery aggregates exactly these records, so
// the field names must match its query.
type Recorder struct {
	api        RecordsAPI
	collection string
	stream     string
	runID      string

	mutex   sync.Mutex
	created bool
}

// Record field names follow the aliases of the score discovery query.
type scoreRecord struct {
	SessionID string  `json:"sessionId"`
	Evaluator string  `json:"evaluator"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
	RunID     string  `json:"runId,omitempty"`
}

// NewRecorder creates a recorder writing to a log stream named after the
// run in the given results collection.
func NewRecorder(api RecordsAPI, collection, runID string) *Recorder {
	return &Recorder{
		api:        api,
		collection: collection,
		stream:     "agentwatch-" + runID,
		runID:      runID,
	}
}

// Record writes one evaluation as a score record. The log stream is created
// on first use.
func (r *Recorder) Record(ctx context.Context, evaluation Evaluation) error {
	err := r.ensureStream(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(scoreRecord{
		SessionID: evaluation.SessionID,
		Evaluator: evaluation.Evaluator,
		Score:     evaluation.Score,
		Rationale: evaluation.Rationale,
		RunID:     r.runID,
	})
	if err != nil {
		return fmt.Errorf("can't encode score record: %w", err)
	}

	_, err = r.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(r.collection),
		LogStreamName: aws.String(r.stream),
		LogEvents: []types.InputLogEvent{
			{
				Message:   aws.String(string(body)),
				Timestamp: aws.Int64(time.Now().UnixMilli()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("can't write score record for session %s: %w", evaluation.SessionID, err)
	}
	return nil
}

func (r *Recorder) ensureStream(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.created {
		return nil
	}

	_, err := r.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(r.collection),
		LogStreamName: aws.String(r.stream),
	})
	if err != nil {
		var exists *types.ResourceAlreadyExistsException
		if !errors.As(err, &exists) {
			return fmt.Errorf("can't create log stream %s in collection %s: %w", r.stream, r.collection, err)
		}
	}
	r.created = true
	return nil
}
