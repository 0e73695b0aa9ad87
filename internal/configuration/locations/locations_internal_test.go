// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package locations

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_configurationDir(t *testing.T) {
	t.Setenv(agentwatchDataHome, "")

	userHome, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(userHome, agentwatchDir)

	actual, err := configurationDir()
	require.NoError(t, err)

	assert.Equal(t, expected, actual)
}

func Test_configurationDirError(t *testing.T) {
	var env string
	// Copied from os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		env = "USERPROFILE"
	case "plan9":
		env = "home"
	default:
		env = "HOME"
	}
	t.Setenv(agentwatchDataHome, "")
	t.Setenv(env, "")

	_, err := configurationDir()
	assert.Error(t, err)
}

func Test_configurationDirOverride(t *testing.T) {
	expected := "/tmp/foobar"
	t.Setenv(agentwatchDataHome, expected)

	actual, err := configurationDir()
	require.NoError(t, err)

	assert.Equal(t, expected, actual)
}

func TestLocationManagerPaths(t *testing.T) {
	root := t.TempDir()
	t.Setenv(agentwatchDataHome, root)

	loc, err := NewLocationManager()
	require.NoError(t, err)

	assert.Equal(t, root, loc.RootDir())
	assert.Equal(t, filepath.Join(root, "discoveries"), loc.DiscoveriesDir())
	assert.Equal(t, filepath.Join(root, "results"), loc.ResultsDir())
	assert.Equal(t, filepath.Join(root, "tmp"), loc.TempDir())
	assert.Equal(t, filepath.Join(root, "evaluators.yml"), loc.EvaluatorsFile())
}
