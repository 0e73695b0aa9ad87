// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package export writes reconstructed sessions and evaluation results to
// Elasticsearch indices for dashboarding.
package export

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

// Environment variables used to configure the Elasticsearch destination.
const (
	HostEnv     = "AGENTWATCH_ES_HOST"
	UsernameEnv = "AGENTWATCH_ES_USERNAME"
	PasswordEnv = "AGENTWATCH_ES_PASSWORD"
)

// API contains the elasticsearch APIs
type API = esapi.API

// ErrUndefinedAddress is returned when the destination address is not configured.
var ErrUndefinedAddress = errors.New("elasticsearch address undefined")

// clientOptions are used to configure a client.
type clientOptions struct {
	address  string
	username string
	password string

	certificateAuthority string

	// skipTLSVerify disables TLS validation.
	skipTLSVerify bool
}

// defaultOptionsFromEnv returns clientOptions initialized with values from environment variables.
func defaultOptionsFromEnv() clientOptions {
	return clientOptions{
		address:  os.Getenv(HostEnv),
		username: os.Getenv(UsernameEnv),
		password: os.Getenv(PasswordEnv),
	}
}

type ClientOption func(*clientOptions)

// OptionWithAddress sets the address to be used by the client.
func OptionWithAddress(address string) ClientOption {
	return func(opts *clientOptions) {
		opts.address = address
	}
}

// OptionWithCertificateAuthority sets the certificate authority used to
// validate the server certificate.
func OptionWithCertificateAuthority(path string) ClientOption {
	return func(opts *clientOptions) {
		opts.certificateAuthority = path
	}
}

// OptionWithSkipTLSVerify disables TLS validation.
func OptionWithSkipTLSVerify() ClientOption {
	return func(opts *clientOptions) {
		opts.skipTLSVerify = true
	}
}

// NewClient creates a new instance of the Elasticsearch client.
func NewClient(customOptions ...ClientOption) (*elasticsearch.Client, error) {
	options := defaultOptionsFromEnv()
	for _, option := range customOptions {
		option(&options)
	}

	if options.address == "" {
		return nil, ErrUndefinedAddress
	}

	config := elasticsearch.Config{
		Addresses: []string{options.address},
		Username:  options.username,
		Password:  options.password,
	}
	if options.certificateAuthority != "" {
		cert, err := os.ReadFile(options.certificateAuthority)
		if err != nil {
			return nil, fmt.Errorf("can't read certificate authority %s: %w", options.certificateAuthority, err)
		}
		config.CACert = cert
	}
	if options.skipTLSVerify {
		config.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := elasticsearch.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("can't create instance: %w", err)
	}
	return client, nil
}
