// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package eval

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elastic/agentwatch/internal/session"
)

// MaxScore is the upper bound of the evaluation score scale.
const MaxScore = 10.0

// Evaluator scores a reconstructed session.
type Evaluator interface {
	// Name identifies the evaluator in results and score records.
	Name() string

	// Evaluate scores a session between 0 and MaxScore.
	Evaluate(ctx context.Context, sess session.Session) (*Evaluation, error)
}

// Evaluation is the outcome of one evaluator on one session.
type Evaluation struct {
	Evaluator string  `json:"evaluator"`
	SessionID string  `json:"session_id"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
}

// Evaluator types accepted in definitions.
const (
	TypeToolSuccess    = "tool-success"
	TypeResponseLength = "response-length"
	TypeLLMJudge       = "llm-judge"
)

// Definition configures one evaluator instance.
type Definition struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// MinLength applies to response-length evaluators.
	MinLength int `yaml:"min_length,omitempty"`

	// Model, Endpoint and Prompt apply to llm-judge evaluators.
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Prompt   string `yaml:"prompt,omitempty"`
}

type definitionsFile struct {
	Evaluators []Definition `yaml:"evaluators"`
}

// DefaultDefinitions returns the evaluators used when no definitions file
// exists: the deterministic heuristics, which need no credentials.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: TypeToolSuccess, Type: TypeToolSuccess},
		{Name: TypeResponseLength, Type: TypeResponseLength},
	}
}

// LoadDefinitions reads evaluator definitions from a YAML file.
func LoadDefinitions(path string) ([]Definition, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read evaluator definitions: %w", err)
	}

	var file definitionsFile
	err = yaml.Unmarshal(body, &file)
	if err != nil {
		return nil, fmt.Errorf("can't parse evaluator definitions %s: %w", path, err)
	}
	if len(file.Evaluators) == 0 {
		return nil, fmt.Errorf("no evaluators defined in %s", path)
	}

	for i, definition := range file.Evaluators {
		if definition.Type == "" {
			return nil, fmt.Errorf("evaluator %d in %s has no type", i, path)
		}
		if definition.Name == "" {
			file.Evaluators[i].Name = definition.Type
		}
	}
	return file.Evaluators, nil
}

// NewEvaluator instantiates the evaluator a definition describes.
func NewEvaluator(definition Definition) (Evaluator, error) {
	switch definition.Type {
	case TypeToolSuccess:
		return NewToolSuccessEvaluator(definition.Name), nil
	case TypeResponseLength:
		return NewResponseLengthEvaluator(definition.Name, definition.MinLength), nil
	case TypeLLMJudge:
		return NewJudgeEvaluator(JudgeConfig{
			Name:     definition.Name,
			APIKey:   os.Getenv(JudgeAPIKeyEnv),
			ModelID:  definition.Model,
			Endpoint: definition.Endpoint,
			Prompt:   definition.Prompt,
		})
	default:
		return nil, fmt.Errorf("unknown evaluator type %q", definition.Type)
	}
}

// SelectEvaluators instantiates the named evaluators from the definitions,
// or all of them when no names are given.
func SelectEvaluators(definitions []Definition, names []string) ([]Evaluator, error) {
	byName := make(map[string]Definition, len(definitions))
	for _, definition := range definitions {
		byName[definition.Name] = definition
	}

	if len(names) == 0 {
		names = make([]string, len(definitions))
		for i, definition := range definitions {
			names[i] = definition.Name
		}
	}

	var evaluators []Evaluator
	for _, name := range names {
		definition, found := byName[name]
		if !found {
			return nil, fmt.Errorf("undefined evaluator %q", name)
		}
		evaluator, err := NewEvaluator(definition)
		if err != nil {
			return nil, fmt.Errorf("can't create evaluator %q: %w", name, err)
		}
		evaluators = append(evaluators, evaluator)
	}
	return evaluators, nil
}
