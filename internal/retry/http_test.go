// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package retry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastOptions = HTTPOptions{
	RetryMax: 5,
	WaitMin:  1 * time.Millisecond,
	WaitMax:  5 * time.Millisecond,
}

func TestRetryHTTPStatus(t *testing.T) {
	cases := []struct {
		title            string
		failureHandler   http.Handler
		successRate      int
		retryMax         int
		expectedStatus   int
		expectedAttempts int
	}{
		{
			title:            "eventually succeeds",
			retryMax:         10,
			successRate:      5,
			expectedStatus:   http.StatusOK,
			expectedAttempts: 5,
		},
		{
			title:            "no retries",
			retryMax:         0,
			successRate:      5,
			expectedStatus:   http.StatusServiceUnavailable,
			expectedAttempts: 1,
		},
		{
			title:            "not enough retries",
			retryMax:         2,
			successRate:      5,
			expectedStatus:   http.StatusServiceUnavailable,
			expectedAttempts: 3,
		},
		{
			title:            "client errors pass through without retries",
			failureHandler:   http.NotFoundHandler(),
			retryMax:         10,
			successRate:      5,
			expectedStatus:   http.StatusNotFound,
			expectedAttempts: 1,
		},
		{
			title:            "rate limiting is retried",
			failureHandler:   newStatusHandler("slow down", http.StatusTooManyRequests),
			retryMax:         5,
			successRate:      3,
			expectedStatus:   http.StatusOK,
			expectedAttempts: 3,
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			opts := fastOptions
			opts.RetryMax = c.retryMax
			client := WrapHTTPClient(&http.Client{}, opts)

			handler := newFlakyHandler(c.failureHandler, c.successRate)
			server := httptest.NewServer(handler)
			defer server.Close()

			resp, err := client.Get(server.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, c.expectedStatus, resp.StatusCode)
			assert.Equal(t, c.expectedAttempts, handler.attempts())
		})
	}
}

func TestUnrecoverableErrors(t *testing.T) {
	t.Run("invalid URL", func(t *testing.T) {
		client := WrapHTTPClient(&http.Client{}, fastOptions)
		_, err := client.Get("http::\\localhost")
		assert.Error(t, err)
	})

	t.Run("infinite redirects", func(t *testing.T) {
		handler := newFlakyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.String(), http.StatusMovedPermanently)
		}), 0)
		server := httptest.NewServer(handler)
		defer server.Close()

		client := WrapHTTPClient(&http.Client{}, fastOptions)
		_, err := client.Get(server.URL)
		assert.Error(t, err)
	})

	t.Run("unknown CA", func(t *testing.T) {
		server := httptest.NewTLSServer(newStatusHandler("OK", http.StatusOK))
		defer server.Close()

		client := WrapHTTPClient(&http.Client{}, fastOptions)
		_, err := client.Get(server.URL)
		assert.Error(t, err)
	})

	t.Run("network error is not retried", func(t *testing.T) {
		transport := &countingBrokenTransport{}
		client := WrapHTTPClient(&http.Client{Transport: transport}, fastOptions)

		_, err := client.Get("http://localhost:0")
		assert.Error(t, err)
		assert.Equal(t, 1, transport.calls)
	})
}

func TestCheckRetry(t *testing.T) {
	cases := []struct {
		status int
		retry  bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotImplemented, false},
		{http.StatusServiceUnavailable, true},
		{999, true},
	}

	for _, c := range cases {
		t.Run(strconv.Itoa(c.status), func(t *testing.T) {
			retry, err := checkRetry(context.Background(), &http.Response{StatusCode: c.status}, nil)
			require.NoError(t, err)
			assert.Equal(t, c.retry, retry)
		})
	}

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		retry, err := checkRetry(ctx, &http.Response{StatusCode: http.StatusServiceUnavailable}, nil)
		assert.False(t, retry)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// flakyHandler fails every request except each rate-th one. With a zero rate
// it never succeeds.
type flakyHandler struct {
	failure http.Handler
	success http.Handler
	rate    int

	mutex sync.Mutex
	count int
}

func newFlakyHandler(failure http.Handler, rate int) *flakyHandler {
	if failure == nil {
		failure = newStatusHandler("not available", http.StatusServiceUnavailable)
	}
	return &flakyHandler{
		failure: failure,
		success: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		rate:    rate,
	}
}

func (h *flakyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mutex.Lock()
	h.count++
	count := h.count
	h.mutex.Unlock()

	if h.rate == 0 || count%h.rate != 0 {
		h.failure.ServeHTTP(w, r)
		return
	}
	h.success.ServeHTTP(w, r)
}

func (h *flakyHandler) attempts() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.count
}

func newStatusHandler(msg string, code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, msg, code)
	})
}

type countingBrokenTransport struct {
	calls int
}

func (t *countingBrokenTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("network error")
}
