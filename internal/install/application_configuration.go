// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/go-ucfg/yaml"
	"github.com/go-viper/mapstructure/v2"

	"github.com/elastic/agentwatch/internal/common"
	"github.com/elastic/agentwatch/internal/configuration/locations"
)

// ApplicationConfiguration represents the configuration of agentwatch.
type ApplicationConfiguration struct {
	settings common.MapStr
}

// CollectionSettings names the default log groups queried by discovery and
// session reconstruction. Flags and environment variables take precedence.
type CollectionSettings struct {
	Traces  string `mapstructure:"traces"`
	Runtime string `mapstructure:"runtime"`
	Results string `mapstructure:"results"`
}

// EvaluationSettings carries defaults for evaluation runs.
type EvaluationSettings struct {
	Parallel   int      `mapstructure:"parallel"`
	Evaluators []string `mapstructure:"evaluators"`
}

// Collections returns the configured default collection names.
func (ac *ApplicationConfiguration) Collections() (CollectionSettings, error) {
	var settings CollectionSettings
	err := ac.decode("collections", &settings)
	return settings, err
}

// Evaluation returns the configured evaluation run defaults.
func (ac *ApplicationConfiguration) Evaluation() (EvaluationSettings, error) {
	var settings EvaluationSettings
	err := ac.decode("evaluation", &settings)
	return settings, err
}

func (ac *ApplicationConfiguration) decode(name string, out any) error {
	v, err := ac.settings.GetValue(name)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	if err := mapstructure.Decode(v, out); err != nil {
		return fmt.Errorf("can't decode setting %q: %w", name, err)
	}

	return nil
}

// Configuration function returns the agentwatch configuration.
func Configuration() (*ApplicationConfiguration, error) {
	agentwatchPath, err := locations.NewLocationManager()
	if err != nil {
		return nil, fmt.Errorf("can't read configuration directory: %w", err)
	}

	configPath := filepath.Join(agentwatchPath.RootDir(), applicationConfigurationYmlFile)
	cfg, err := yaml.NewConfigWithFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &ApplicationConfiguration{settings: common.MapStr{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't load configuration file (%s): %w", configPath, err)
	}

	settings := make(common.MapStr)
	err = cfg.Unpack(settings)
	if err != nil {
		return nil, fmt.Errorf("can't unpack configuration: %w", err)
	}

	return &ApplicationConfiguration{settings: settings}, nil
}
