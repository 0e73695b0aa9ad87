// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package locations manages base file and directory locations from within the agentwatch config
package locations

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	agentwatchDir  = ".agentwatch"
	discoveriesDir = "discoveries"
	resultsDir     = "results"
	temporaryDir   = "tmp"

	evaluatorsYmlFile = "evaluators.yml"
)

// agentwatchDataHome overrides the configuration location when set.
const agentwatchDataHome = "AGENTWATCH_DATA_HOME"

// LocationManager maintains an instance of a config path location
type LocationManager struct {
	configPath string
}

// NewLocationManager returns a new manager to track the configuration dir
func NewLocationManager() (*LocationManager, error) {
	cfg, err := configurationDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config dir: %w", err)
	}

	return &LocationManager{configPath: cfg}, nil
}

// RootDir returns the root agentwatch dir
func (loc LocationManager) RootDir() string {
	return loc.configPath
}

// TempDir returns the temp directory location
func (loc LocationManager) TempDir() string {
	return filepath.Join(loc.configPath, temporaryDir)
}

// DiscoveriesDir returns the directory storing session discovery files
func (loc LocationManager) DiscoveriesDir() string {
	return filepath.Join(loc.configPath, discoveriesDir)
}

// ResultsDir returns the directory storing evaluation run results
func (loc LocationManager) ResultsDir() string {
	return filepath.Join(loc.configPath, resultsDir)
}

// EvaluatorsFile returns the evaluator definitions file location
func (loc LocationManager) EvaluatorsFile() string {
	return filepath.Join(loc.configPath, evaluatorsYmlFile)
}

// configurationDir returns the configuration directory location.
// If the environment variable named in agentwatchDataHome is set,
// its value is used as is.
func configurationDir() (string, error) {
	customHome := os.Getenv(agentwatchDataHome)
	if customHome != "" {
		return customHome, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("reading home dir failed: %w", err)
	}
	return filepath.Join(homeDir, agentwatchDir), nil
}
