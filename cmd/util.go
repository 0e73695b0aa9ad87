// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cloudwatch"
	"github.com/elastic/agentwatch/internal/configuration/locations"
	"github.com/elastic/agentwatch/internal/install"
	"github.com/elastic/agentwatch/internal/observe"
)

// resolveCollection resolves a collection name using the precedence order:
// flag value, environment variable, application configuration.
func resolveCollection(flagValue, envName string, pick func(install.CollectionSettings) string) (string, error) {
	collection, err := cloudwatch.Collection(flagValue, envName)
	if err == nil {
		return collection, nil
	}

	config, configErr := install.Configuration()
	if configErr != nil {
		return "", fmt.Errorf("can't read application configuration: %w", configErr)
	}
	collections, configErr := config.Collections()
	if configErr != nil {
		return "", fmt.Errorf("can't read collection settings: %w", configErr)
	}
	if configured := pick(collections); configured != "" {
		return configured, nil
	}
	return "", err
}

// newObserveClient builds an observation client on top of a CloudWatch Logs
// client configured from the environment.
func newObserveClient(cmd *cobra.Command, opts ...observe.ClientOption) (*observe.Client, error) {
	api, err := cloudwatch.NewClient(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("can't create CloudWatch Logs client: %w", err)
	}
	return observe.NewClient(api, opts...), nil
}

// discoveryOutputPath returns the given path, or a timestamped file in the
// discoveries directory when no path was given.
func discoveryOutputPath(outputPath string, discoveryTime time.Time) (string, error) {
	if outputPath != "" {
		return outputPath, nil
	}

	locationManager, err := locations.NewLocationManager()
	if err != nil {
		return "", fmt.Errorf("can't find discoveries directory: %w", err)
	}
	filename := fmt.Sprintf("discovery_%s.json", discoveryTime.Format("20060102_150405"))
	return filepath.Join(locationManager.DiscoveriesDir(), filename), nil
}
