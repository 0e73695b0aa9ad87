// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/session"
)

// Config holds an evaluation run setup.
type Config struct {
	// RunID identifies the run in results and score records. Generated
	// when empty.
	RunID string

	Evaluators []Evaluator

	// Parallelism is the number of sessions evaluated concurrently.
	Parallelism int

	// StaggerDelay spaces job starts to avoid burst traffic against the
	// judge endpoint.
	StaggerDelay time.Duration

	// ResultsDir is where the run result is persisted. Empty disables
	// persistence.
	ResultsDir string

	// Recorder writes score records to the results collection. Nil
	// disables recording.
	Recorder *Recorder
}

// Result holds everything an evaluation run produced.
type Result struct {
	RunID     string           `json:"run_id"`
	Timestamp time.Time        `json:"timestamp"`
	Duration  time.Duration    `json:"duration"`
	Sessions  []*SessionResult `json:"sessions"`
	Summary   *Summary         `json:"summary"`
}

// SessionResult holds the evaluations of one session. Evaluator failures
// land in Errors, they never abort the run.
type SessionResult struct {
	SessionID   string       `json:"session_id"`
	Evaluations []Evaluation `json:"evaluations,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}

// Summary aggregates an evaluation run.
type Summary struct {
	TotalSessions  int     `json:"total_sessions"`
	FailedSessions int     `json:"failed_sessions"`
	AverageScore   float64 `json:"average_score"`
}

type evalJob struct {
	index   int
	session session.Session
}

type evalJobResult struct {
	index  int
	result *SessionResult
}

// NewRunID returns a unique evaluation run id.
func NewRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// Run evaluates all the given sessions with all the configured evaluators.
func Run(ctx context.Context, cfg Config, sessions []session.Session) (*Result, error) {
	if len(cfg.Evaluators) == 0 {
		return nil, errors.New("no evaluators configured")
	}

	startTime := time.Now()
	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	logger.Debugf("Starting evaluation run %s for %d sessions (parallelism: %d)", runID, len(sessions), parallelism)

	var sessionResults []*SessionResult
	if parallelism == 1 {
		for _, sess := range sessions {
			sessionResults = append(sessionResults, evaluateSession(ctx, cfg, sess))
		}
	} else {
		sessionResults = runParallel(ctx, cfg, sessions, parallelism)
	}

	result := Result{
		RunID:     runID,
		Timestamp: startTime,
		Duration:  time.Since(startTime),
		Sessions:  sessionResults,
		Summary:   summarize(sessionResults),
	}

	if cfg.ResultsDir != "" {
		err := saveResult(&result, cfg.ResultsDir)
		if err != nil {
			logger.Warnf("Can't save evaluation run %s: %v", runID, err)
		}
	}
	return &result, nil
}

func evaluateSession(ctx context.Context, cfg Config, sess session.Session) *SessionResult {
	result := SessionResult{SessionID: sess.SessionID}
	for _, evaluator := range cfg.Evaluators {
		evaluation, err := evaluator.Evaluate(ctx, sess)
		if err != nil {
			logger.Warnf("Evaluator %s failed for session %s: %v", evaluator.Name(), sess.SessionID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", evaluator.Name(), err))
			continue
		}

		result.Evaluations = append(result.Evaluations, *evaluation)
		if cfg.Recorder != nil {
			err := cfg.Recorder.Record(ctx, *evaluation)
			if err != nil {
				logger.Warnf("Can't record score for session %s: %v", sess.SessionID, err)
			}
		}
	}
	return &result
}

// runParallel distributes sessions over a worker pool. Job starts are
// staggered to avoid burst requests against the judge endpoint, results
// keep the input order.
func runParallel(ctx context.Context, cfg Config, sessions []session.Session, parallelism int) []*SessionResult {
	jobs := make(chan evalJob, len(sessions))
	results := make(chan evalJobResult, len(sessions))

	var wg sync.WaitGroup
	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				logger.Debugf("[worker %d] Evaluating session %s", workerID, job.session.SessionID)
				results <- evalJobResult{
					index:  job.index,
					result: evaluateSession(ctx, cfg, job.session),
				}
			}
		}(w)
	}

	go func() {
		for i, sess := range sessions {
			jobs <- evalJob{index: i, session: sess}
			if cfg.StaggerDelay > 0 && i < len(sessions)-1 {
				time.Sleep(cfg.StaggerDelay)
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*SessionResult, len(sessions))
	for jobResult := range results {
		ordered[jobResult.index] = jobResult.result
	}
	return ordered
}

func summarize(results []*SessionResult) *Summary {
	summary := Summary{TotalSessions: len(results)}

	var scores int
	var total float64
	for _, result := range results {
		if result == nil {
			summary.FailedSessions++
			continue
		}
		if len(result.Errors) > 0 {
			summary.FailedSessions++
		}
		for _, evaluation := range result.Evaluations {
			total += evaluation.Score
			scores++
		}
	}
	if scores > 0 {
		summary.AverageScore = total / float64(scores)
	}
	return &summary
}

func saveResult(result *Result, dir string) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("can't create results directory: %w", err)
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("can't encode evaluation run: %w", err)
	}

	path := filepath.Join(dir, result.RunID+".json")
	err = os.WriteFile(path, body, 0644)
	if err != nil {
		return fmt.Errorf("can't write evaluation run: %w", err)
	}
	logger.Debugf("Evaluation run saved to %s", path)
	return nil
}

// ReadResult loads a persisted evaluation run.
func ReadResult(path string) (*Result, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read evaluation result: %w", err)
	}

	var result Result
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("can't parse evaluation result %s: %w", path, err)
	}
	return &result, nil
}
