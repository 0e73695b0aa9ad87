// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureInstalled(t *testing.T) {
	root := t.TempDir()
	t.Setenv("AGENTWATCH_DATA_HOME", root)

	require.NoError(t, EnsureInstalled())

	for _, path := range []string{
		filepath.Join(root, "config.yml"),
		filepath.Join(root, "evaluators.yml"),
		filepath.Join(root, "version"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected file %s", path)
	}
	for _, path := range []string{
		filepath.Join(root, "discoveries"),
		filepath.Join(root, "results"),
		filepath.Join(root, "tmp"),
	} {
		info, err := os.Stat(path)
		require.NoError(t, err, "expected directory %s", path)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureInstalledKeepsEvaluatorEdits(t *testing.T) {
	root := t.TempDir()
	t.Setenv("AGENTWATCH_DATA_HOME", root)

	require.NoError(t, EnsureInstalled())

	edited := "evaluators:\n  - name: only-mine\n    type: tool-success\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "evaluators.yml"), []byte(edited), 0644))

	// Outdated version file forces a reinstall pass.
	require.NoError(t, os.WriteFile(filepath.Join(root, "version"), []byte("stale"), 0644))
	require.NoError(t, EnsureInstalled())

	body, err := os.ReadFile(filepath.Join(root, "evaluators.yml"))
	require.NoError(t, err)
	assert.Equal(t, edited, string(body))
}

func TestConfiguration(t *testing.T) {
	root := t.TempDir()
	t.Setenv("AGENTWATCH_DATA_HOME", root)

	config := "collections:\n  traces: agent-traces\n  results: agent-evaluations\n" +
		"evaluation:\n  parallel: 4\n  evaluators: [tool-success]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yml"), []byte(config), 0644))

	appConfig, err := Configuration()
	require.NoError(t, err)

	collections, err := appConfig.Collections()
	require.NoError(t, err)
	assert.Equal(t, "agent-traces", collections.Traces)
	assert.Equal(t, "agent-evaluations", collections.Results)
	assert.Empty(t, collections.Runtime)

	evaluation, err := appConfig.Evaluation()
	require.NoError(t, err)
	assert.Equal(t, 4, evaluation.Parallel)
	assert.Equal(t, []string{"tool-success"}, evaluation.Evaluators)
}

func TestConfigurationMissingFile(t *testing.T) {
	t.Setenv("AGENTWATCH_DATA_HOME", t.TempDir())

	appConfig, err := Configuration()
	require.NoError(t, err)

	collections, err := appConfig.Collections()
	require.NoError(t, err)
	assert.Empty(t, collections.Traces)
}

func TestDefaultConfigurationParses(t *testing.T) {
	root := t.TempDir()
	t.Setenv("AGENTWATCH_DATA_HOME", root)

	require.NoError(t, EnsureInstalled())

	appConfig, err := Configuration()
	require.NoError(t, err)

	// The shipped config.yml only documents settings, all sections stay unset.
	collections, err := appConfig.Collections()
	require.NoError(t, err)
	assert.Empty(t, collections.Traces)
}
