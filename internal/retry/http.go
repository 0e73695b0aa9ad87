// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package retry hardens HTTP clients against the transient failures of
// remote endpoints, like the rate limiting of generative model APIs.
package retry

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/elastic/agentwatch/internal/logger"
)

const (
	defaultWaitMin = 1 * time.Second
	defaultWaitMax = 30 * time.Second

	maxRedirects = 10
)

var errTooManyRedirects = fmt.Errorf("stopped after %d redirects", maxRedirects)

// HTTPOptions configures the retry behavior of a wrapped client.
type HTTPOptions struct {
	// RetryMax is the number of retries after the initial attempt. With
	// zero retries the client is returned unwrapped.
	RetryMax int

	// WaitMin and WaitMax bound the backoff between attempts. Zero values
	// use the package defaults.
	WaitMin time.Duration
	WaitMax time.Duration
}

// WrapHTTPClient wraps a client with bounded retries on transient failures:
// connection resets, rate limiting and server-side outages. Responses the
// endpoint meant to send, including client errors, pass through unchanged.
func WrapHTTPClient(client *http.Client, opts HTTPOptions) *http.Client {
	if opts.RetryMax <= 0 {
		return client
	}
	if client == nil {
		client = &http.Client{}
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = checkRedirect
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = client
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = debugLogger{}
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.WaitMin
	retryClient.RetryWaitMax = opts.WaitMax
	if retryClient.RetryWaitMin == 0 {
		retryClient.RetryWaitMin = defaultWaitMin
	}
	if retryClient.RetryWaitMax == 0 {
		retryClient.RetryWaitMax = defaultWaitMax
	}
	return retryClient.StandardClient()
}

// debugLogger sends the attempt logging of retryablehttp to the debug level
// of the application logger.
type debugLogger struct{}

func (debugLogger) Printf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// checkRedirect reimplements the default redirect policy of net/http with a
// typed error, so the retry policy can recognize redirect loops.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errTooManyRedirects
	}
	return nil
}

// checkRetry decides whether a failed attempt is worth repeating.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return !permanentError(err), nil
	}

	// Rate limited. Model endpoints respond with 429 under load and expect
	// the client to come back, usually after a Retry-After hint.
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	// Retry on 500-range responses, they are typically momentary outages
	// on the server side. 501 is the exception, a feature that is not
	// implemented now will not be implemented on the next attempt either.
	// This also catches invalid response codes, like 0 and 999.
	if resp.StatusCode == 0 || (resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented) {
		return true, err
	}

	return false, nil
}

// permanentError reports whether an attempt failed in a way no retry can
// recover from.
func permanentError(err error) bool {
	if errors.Is(err, errTooManyRedirects) {
		return true
	}

	var urlError *url.Error
	if errors.As(err, &urlError) {
		// Malformed URL or a failure the transport classified itself.
		return true
	}

	var certError *x509.CertificateInvalidError
	if errors.As(err, &certError) {
		return true
	}

	var caError *x509.UnknownAuthorityError
	return errors.As(err, &caError)
}
