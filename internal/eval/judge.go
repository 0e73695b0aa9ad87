// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/agentwatch/internal/common"
	"github.com/elastic/agentwatch/internal/retry"
	"github.com/elastic/agentwatch/internal/session"
)

// JudgeAPIKeyEnv is the environment variable with the API key of the judge
// model endpoint.
const JudgeAPIKeyEnv = "AGENTWATCH_GEMINI_API_KEY"

const (
	defaultJudgeModel    = "gemini-2.5-pro"
	defaultJudgeEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	judgeMaxOutputTokens = 1024
	judgeRetryMax        = 3
)

const defaultJudgePrompt = `You are reviewing the recorded session of an AI agent.
Judge whether the agent understood the user, used its tools sensibly, and gave a correct,
complete final answer. Score the whole session between 0 (complete failure) and 10
(flawless). Respond with a single JSON object: {"score": <number>, "rationale": "<one or
two sentences>"}.`

// JudgeConfig holds the configuration of an LLM judge evaluator.
type JudgeConfig struct {
	Name     string
	APIKey   string
	ModelID  string
	Endpoint string

	// Prompt replaces the default judging instructions.
	Prompt string
}

// JudgeEvaluator scores sessions by asking a judge model to rate the
// reconstructed conversation.
type JudgeEvaluator struct {
	name     string
	apiKey   string
	modelID  string
	endpoint string
	prompt   string
	client   *http.Client
}

// Request and response shapes of the generateContent API, reduced to the
// parts the judge uses.
type judgeRequest struct {
	Contents         []judgeContent        `json:"contents"`
	GenerationConfig judgeGenerationConfig `json:"generationConfig"`
}

type judgeContent struct {
	Parts []judgePart `json:"parts"`
}

type judgePart struct {
	Text string `json:"text,omitempty"`
}

type judgeGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type judgeResponse struct {
	Candidates []judgeCandidate `json:"candidates"`
}

type judgeCandidate struct {
	Content      judgeContent `json:"content"`
	FinishReason string       `json:"finishReason"`
}

type judgeVerdict struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// NewJudgeEvaluator creates an LLM judge evaluator.
func NewJudgeEvaluator(config JudgeConfig) (*JudgeEvaluator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("undefined environment variable: %s", JudgeAPIKeyEnv)
	}
	if config.Name == "" {
		config.Name = TypeLLMJudge
	}
	if config.ModelID == "" {
		config.ModelID = defaultJudgeModel
	}
	if config.Endpoint == "" {
		config.Endpoint = defaultJudgeEndpoint
	}
	if config.Prompt == "" {
		config.Prompt = defaultJudgePrompt
	}

	return &JudgeEvaluator{
		name:     config.Name,
		apiKey:   config.APIKey,
		modelID:  config.ModelID,
		endpoint: config.Endpoint,
		prompt:   config.Prompt,
		client: retry.WrapHTTPClient(&http.Client{
			Timeout: 60 * time.Second,
		}, retry.HTTPOptions{RetryMax: judgeRetryMax}),
	}, nil
}

// Name returns the evaluator name.
func (e *JudgeEvaluator) Name() string {
	return e.name
}

// Evaluate asks the judge model to rate the session.
func (e *JudgeEvaluator) Evaluate(ctx context.Context, sess session.Session) (*Evaluation, error) {
	text, err := e.generate(ctx, e.prompt+"\n\n"+renderTranscript(sess))
	if err != nil {
		return nil, fmt.Errorf("judge request for session %s failed: %w", sess.SessionID, err)
	}

	verdict, err := parseVerdict(text)
	if err != nil {
		return nil, fmt.Errorf("can't parse judge verdict for session %s: %w", sess.SessionID, err)
	}

	return &Evaluation{
		Evaluator: e.name,
		SessionID: sess.SessionID,
		Score:     verdict.Score,
		Rationale: verdict.Rationale,
	}, nil
}

func (e *JudgeEvaluator) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(judgeRequest{
		Contents: []judgeContent{
			{Parts: []judgePart{{Text: prompt}}},
		},
		GenerationConfig: judgeGenerationConfig{
			MaxOutputTokens: judgeMaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("can't encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", e.endpoint, e.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("can't create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body bytes.Buffer
		io.Copy(&body, resp.Body)
		return "", fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, body.String())
	}

	var decoded judgeResponse
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	if err != nil {
		return "", fmt.Errorf("can't decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", errors.New("response carries no candidates")
	}

	var parts []string
	for _, part := range decoded.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// parseVerdict decodes the judge's JSON verdict, tolerating markdown code
// fences around it. Scores are clamped to the evaluation scale.
func parseVerdict(text string) (judgeVerdict, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdict judgeVerdict
	err := common.JSONUnmarshalUsingNumber([]byte(cleaned), &verdict)
	if err != nil {
		return judgeVerdict{}, fmt.Errorf("unexpected verdict %q: %w", text, err)
	}

	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > MaxScore {
		verdict.Score = MaxScore
	}
	return verdict, nil
}

// renderTranscript flattens a session into the plain-text form the judge
// reads: tool executions with their outcomes, then the conversation turn.
func renderTranscript(sess session.Session) string {
	var transcript strings.Builder
	fmt.Fprintf(&transcript, "Session: %s\n", sess.SessionID)
	for _, tr := range sess.Traces {
		fmt.Fprintf(&transcript, "\n[trace %s]\n", tr.TraceID)
		if tr.Invocation != nil {
			fmt.Fprintf(&transcript, "User: %s\n", tr.Invocation.Prompt)
		}
		for _, execution := range tr.ToolExecutions {
			fmt.Fprintf(&transcript, "Tool %s(%s)", execution.Call.Name, renderArguments(execution.Call.Arguments))
			switch {
			case execution.Result.Failed():
				fmt.Fprintf(&transcript, " -> error: %s\n", execution.Result.Error)
			case execution.Result.Content == "":
				transcript.WriteString(" -> no result recorded\n")
			default:
				fmt.Fprintf(&transcript, " -> %s\n", execution.Result.Content)
			}
		}
		if tr.Invocation != nil {
			fmt.Fprintf(&transcript, "Assistant: %s\n", tr.Invocation.Response)
		}
	}
	return transcript.String()
}

func renderArguments(arguments map[string]interface{}) string {
	if len(arguments) == 0 {
		return ""
	}
	encoded, err := json.Marshal(arguments)
	if err != nil {
		return ""
	}
	return string(encoded)
}
