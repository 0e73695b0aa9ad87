// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/agentwatch/internal/common"
	"github.com/elastic/agentwatch/internal/eval"
	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/multierror"
	"github.com/elastic/agentwatch/internal/session"
)

// Default indices written by the exporter.
const (
	DefaultSessionsIndex = "agentwatch-sessions"
	DefaultResultsIndex  = "agentwatch-results"
)

// defaultFlushThreshold keeps bulk request bodies reasonably sized.
const defaultFlushThreshold = 5 * common.MegaByte

// Exporter bulk-indexes documents, flushing whenever the accumulated batch
// reaches the flush threshold. Document ids are deterministic, re-exporting
// the same data overwrites instead of duplicating.
type Exporter struct {
	api *API

	sessionsIndex  string
	resultsIndex   string
	flushThreshold common.ByteSize
}

// ExporterOption can be used to customize the exporter.
type ExporterOption func(*Exporter)

// WithSessionsIndex sets the index that receives session documents.
func WithSessionsIndex(index string) ExporterOption {
	return func(e *Exporter) {
		e.sessionsIndex = index
	}
}

// WithResultsIndex sets the index that receives evaluation documents.
func WithResultsIndex(index string) ExporterOption {
	return func(e *Exporter) {
		e.resultsIndex = index
	}
}

// WithFlushThreshold sets the bulk request body size that triggers a flush.
func WithFlushThreshold(size common.ByteSize) ExporterOption {
	return func(e *Exporter) {
		e.flushThreshold = size
	}
}

// NewExporter creates a new exporter on top of the given Elasticsearch API.
func NewExporter(api *API, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		api:            api,
		sessionsIndex:  DefaultSessionsIndex,
		resultsIndex:   DefaultResultsIndex,
		flushThreshold: defaultFlushThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportSessions indexes the given reconstructed sessions, one document per
// session. It returns the number of indexed documents.
func (e *Exporter) ExportSessions(ctx context.Context, sessions []session.Session) (int, error) {
	exportTime := time.Now().UTC()

	var events [][]byte
	for _, sess := range sessions {
		doc := struct {
			Timestamp time.Time `json:"@timestamp"`
			session.Session
		}{
			Timestamp: exportTime,
			Session:   sess,
		}
		event, err := encodeEvent(sess.SessionID, doc)
		if err != nil {
			logger.Debugf("error encoding session event: %v", err)
			continue
		}
		events = append(events, event)
	}
	return e.indexEvents(ctx, e.sessionsIndex, events)
}

// resultDocument is the indexed form of a single evaluation.
type resultDocument struct {
	Timestamp time.Time `json:"@timestamp"`
	RunID     string    `json:"run_id"`
	SessionID string    `json:"session_id"`
	Evaluator string    `json:"evaluator"`
	Score     float64   `json:"score"`
	Rationale string    `json:"rationale,omitempty"`
}

// ExportResult indexes the evaluations of the given run, one document per
// session and evaluator. It returns the number of indexed documents.
func (e *Exporter) ExportResult(ctx context.Context, result *eval.Result) (int, error) {
	var events [][]byte
	for _, sessionResult := range result.Sessions {
		for _, evaluation := range sessionResult.Evaluations {
			doc := resultDocument{
				Timestamp: result.Timestamp,
				RunID:     result.RunID,
				SessionID: sessionResult.SessionID,
				Evaluator: evaluation.Evaluator,
				Score:     evaluation.Score,
				Rationale: evaluation.Rationale,
			}
			id := fmt.Sprintf("%s-%s-%s", result.RunID, sessionResult.SessionID, evaluation.Evaluator)
			event, err := encodeEvent(id, doc)
			if err != nil {
				logger.Debugf("error encoding evaluation event: %v", err)
				continue
			}
			events = append(events, event)
		}
	}
	return e.indexEvents(ctx, e.resultsIndex, events)
}

// encodeEvent renders one bulk entry: the index action line followed by the
// document source.
func encodeEvent(id string, doc interface{}) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	action := fmt.Sprintf("{\"index\":{\"_id\":%q}}\n", id)
	return append([]byte(action), body...), nil
}

func (e *Exporter) indexEvents(ctx context.Context, index string, events [][]byte) (int, error) {
	indexed := 0

	var batch [][]byte
	var batchSize common.ByteSize
	for _, event := range events {
		batch = append(batch, event)
		batchSize += common.ByteSize(len(event))
		if batchSize < e.flushThreshold {
			continue
		}

		err := e.flush(ctx, index, batch)
		if err != nil {
			return indexed, err
		}
		indexed += len(batch)
		batch, batchSize = nil, 0
	}

	if len(batch) > 0 {
		err := e.flush(ctx, index, batch)
		if err != nil {
			return indexed, err
		}
		indexed += len(batch)
	}
	return indexed, nil
}

func (e *Exporter) flush(ctx context.Context, index string, events [][]byte) error {
	logger.Debugf("Indexing %d events into %s", len(events), index)

	// The bulk request body must end with a newline.
	reqBody := bytes.NewReader(append(bytes.Join(events, []byte("\n")), '\n'))
	resp, err := e.api.Bulk(reqBody, e.api.Bulk.WithIndex(index), e.api.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("can't index events into %s: %w", index, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("can't read bulk response from %s: %w", index, err)
	}

	if resp.IsError() {
		return fmt.Errorf("can't index events into %s (%d): %w", index, resp.StatusCode, newError(body))
	}
	return checkBulkResponse(body)
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// checkBulkResponse reports documents rejected by an otherwise successful
// bulk request.
func checkBulkResponse(body []byte) error {
	var response bulkResponse
	err := json.Unmarshal(body, &response)
	if err != nil {
		return fmt.Errorf("can't parse bulk response: %w", err)
	}
	if !response.Errors {
		return nil
	}

	var errs multierror.Error
	for _, item := range response.Items {
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			errs = append(errs, fmt.Errorf("can't index document %s (%d): %s: %s",
				result.ID, result.Status, result.Error.Type, result.Error.Reason))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("bulk request finished with errors:\n%w", errs.Unique())
	}
	return nil
}
