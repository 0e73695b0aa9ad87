// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package github

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elastic/agentwatch/internal/logger"
)

const (
	envAuth       = "GITHUB_TOKEN"
	authTokenFile = ".agentwatch/github.token"
)

// AuthToken method finds and returns the GitHub authorization token.
func AuthToken() (string, error) {
	githubTokenVar := os.Getenv(envAuth)
	if githubTokenVar != "" {
		logger.Debugf("Using GitHub token from environment variable %s", envAuth)
		return githubTokenVar, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("can't read user home directory: %w", err)
	}

	githubTokenPath := filepath.Join(homeDir, authTokenFile)
	token, err := os.ReadFile(githubTokenPath)
	if err != nil {
		return "", fmt.Errorf("can't read GitHub token file (path: %s): %w", githubTokenPath, err)
	}
	return strings.TrimSpace(string(token)), nil
}
