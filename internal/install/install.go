// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/agentwatch/internal/configuration/locations"
)

const versionFilename = "version"

// EnsureInstalled method installs once static resources required by agentwatch.
func EnsureInstalled() error {
	agentwatchPath, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("failed locating the configuration directory: %w", err)
	}

	installed, err := checkIfAlreadyInstalled(agentwatchPath)
	if err != nil {
		return fmt.Errorf("failed checking the installation: %w", err)
	}
	if installed {
		return nil
	}

	// Create the root .agentwatch path
	err = createAgentwatchDirectory(agentwatchPath)
	if err != nil {
		return fmt.Errorf("creating agentwatch directory failed: %w", err)
	}

	// write the root config.yml file
	err = writeConfigFile(agentwatchPath)
	if err != nil {
		return fmt.Errorf("writing configuration file failed: %w", err)
	}

	// write the evaluator definitions, unless the user already has them
	err = writeEvaluatorsFile(agentwatchPath)
	if err != nil {
		return fmt.Errorf("writing evaluator definitions failed: %w", err)
	}

	// write root version file
	err = writeVersionFile(agentwatchPath)
	if err != nil {
		return fmt.Errorf("writing version file failed: %w", err)
	}

	err = createWorkDirs(agentwatchPath)
	if err != nil {
		return fmt.Errorf("creating work directories failed: %w", err)
	}

	fmt.Fprintln(os.Stderr, "agentwatch has been installed.")
	return nil
}

func checkIfAlreadyInstalled(agentwatchPath *locations.LocationManager) (bool, error) {
	_, err := os.Stat(filepath.Join(agentwatchPath.RootDir(), applicationConfigurationYmlFile))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file failed (path: %s): %w", agentwatchPath.RootDir(), err)
	}
	return checkIfLatestVersionInstalled(agentwatchPath)
}

func createAgentwatchDirectory(agentwatchPath *locations.LocationManager) error {
	err := os.RemoveAll(agentwatchPath.TempDir()) // remove in case of potential upgrade
	if err != nil {
		return fmt.Errorf("removing directory failed (path: %s): %w", agentwatchPath.TempDir(), err)
	}

	err = os.MkdirAll(agentwatchPath.RootDir(), 0755)
	if err != nil {
		return fmt.Errorf("creating directory failed (path: %s): %w", agentwatchPath.RootDir(), err)
	}
	return nil
}

func writeConfigFile(agentwatchPath *locations.LocationManager) error {
	var err error
	err = writeStaticResource(err, filepath.Join(agentwatchPath.RootDir(), applicationConfigurationYmlFile), applicationConfigurationYml)
	if err != nil {
		return fmt.Errorf("writing static resource failed: %w", err)
	}
	return nil
}

// writeEvaluatorsFile writes the default evaluator definitions. An existing
// file is left alone, it may carry user edits.
func writeEvaluatorsFile(agentwatchPath *locations.LocationManager) error {
	path := agentwatchPath.EvaluatorsFile()
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat file failed (path: %s): %w", path, err)
	}
	return writeStaticResource(nil, path, evaluatorsYml)
}

func createWorkDirs(agentwatchPath *locations.LocationManager) error {
	for _, dirPath := range []string{
		agentwatchPath.DiscoveriesDir(),
		agentwatchPath.ResultsDir(),
		agentwatchPath.TempDir(),
	} {
		err := os.MkdirAll(dirPath, 0755)
		if err != nil {
			return fmt.Errorf("mkdir failed (path: %s): %w", dirPath, err)
		}
	}
	return nil
}

func writeStaticResource(err error, path, content string) error {
	if err != nil {
		return err
	}

	err = os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("writing file failed (path: %s): %w", path, err)
	}
	return nil
}
