// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cloudwatch

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// Environment variables used to configure the CloudWatch Logs clients and
// the default collections.
const (
	RegionEnv  = "AGENTWATCH_AWS_REGION"
	ProfileEnv = "AGENTWATCH_AWS_PROFILE"

	TraceCollectionEnv   = "AGENTWATCH_TRACE_COLLECTION"
	RuntimeCollectionEnv = "AGENTWATCH_RUNTIME_COLLECTION"
	ResultsCollectionEnv = "AGENTWATCH_RESULTS_COLLECTION"
)

// clientOptions are used to configure a client.
type clientOptions struct {
	region  string
	profile string
}

// defaultOptionsFromEnv returns clientOptions initialized with values from environment variables.
func defaultOptionsFromEnv() clientOptions {
	return clientOptions{
		region:  os.Getenv(RegionEnv),
		profile: os.Getenv(ProfileEnv),
	}
}

type ClientOption func(*clientOptions)

// OptionWithRegion sets the AWS region to be used by the client.
func OptionWithRegion(region string) ClientOption {
	return func(opts *clientOptions) {
		opts.region = region
	}
}

// OptionWithProfile sets the shared AWS configuration profile to be used by the client.
func OptionWithProfile(profile string) ClientOption {
	return func(opts *clientOptions) {
		opts.profile = profile
	}
}

// NewClient method creates a new instance of the CloudWatch Logs client using
// the shared AWS configuration (credentials file, instance roles or the usual
// AWS_* environment variables).
func NewClient(ctx context.Context, customOptions ...ClientOption) (*cloudwatchlogs.Client, error) {
	options := defaultOptionsFromEnv()
	for _, option := range customOptions {
		option(&options)
	}

	var loadOptions []func(*config.LoadOptions) error
	if options.region != "" {
		loadOptions = append(loadOptions, config.WithRegion(options.region))
	}
	if options.profile != "" {
		loadOptions = append(loadOptions, config.WithSharedConfigProfile(options.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("can't load AWS configuration: %w", err)
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// Collection resolves a collection name from the given value, falling back to
// the environment variable. An error naming the variable is returned when both
// are empty.
func Collection(value, envName string) (string, error) {
	if value != "" {
		return value, nil
	}
	if fromEnv := os.Getenv(envName); fromEnv != "" {
		return fromEnv, nil
	}
	return "", UndefinedEnvError(envName)
}

// UndefinedEnvError formats an error reported for undefined variable.
func UndefinedEnvError(envName string) error {
	return fmt.Errorf("undefined environment variable: %s", envName)
}
