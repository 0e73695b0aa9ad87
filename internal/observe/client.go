// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/trace"
	"github.com/elastic/agentwatch/internal/wait"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultQueryTimeout = 60 * time.Second
	defaultLimit        = 50
)

// Row is a single raw result row of a Logs Insights query.
type Row = trace.Row

// QueryAPI is the part of the CloudWatch Logs API used to run Logs Insights
// queries. It is implemented by *cloudwatchlogs.Client.
type QueryAPI interface {
	StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error)
	GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error)
}

// Client runs Logs Insights queries against trace collections and maps their
// results into the typed record model.
type Client struct {
	api QueryAPI

	pollInterval time.Duration
	queryTimeout time.Duration
	limit        int
}

// ClientOption functions modify the client configuration.
type ClientOption func(*Client)

// WithPollInterval overrides how often a running query is checked.
func WithPollInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithQueryTimeout overrides how long a query may stay unfinished before the
// client gives up on it.
func WithQueryTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.queryTimeout = timeout
	}
}

// WithLimit overrides how many sessions a discovery query returns at most.
func WithLimit(limit int) ClientOption {
	return func(c *Client) {
		c.limit = limit
	}
}

// NewClient creates a client on top of the given query API.
func NewClient(api QueryAPI, opts ...ClientOption) *Client {
	c := Client{
		api:          api,
		pollInterval: defaultPollInterval,
		queryTimeout: defaultQueryTimeout,
		limit:        defaultLimit,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Execute runs a query against a collection over the given time range,
// expressed in epoch milliseconds, and returns the raw result rows once the
// query completes. Rows are returned as the service delivered them. On
// timeout the query is left running server-side and a QueryTimeoutError is
// returned.
func (c *Client) Execute(ctx context.Context, query, collection string, startMs, endMs int64) ([]Row, error) {
	logger.Debugf("Start query on collection %s", collection)
	logger.Tracef("Query:\n%s", query)

	started, err := c.api.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(collection),
		QueryString:  aws.String(query),
		// The query API expects epoch seconds.
		StartTime: aws.Int64(startMs / 1000),
		EndTime:   aws.Int64(endMs / 1000),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, &CollectionNotFoundError{Collection: collection}
		}
		return nil, fmt.Errorf("can't start query on collection %s: %w", collection, err)
	}
	queryID := aws.ToString(started.QueryId)

	var rows []Row
	done, err := wait.UntilTrue(ctx, func(ctx context.Context) (bool, error) {
		results, err := c.api.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: started.QueryId,
		})
		if err != nil {
			return false, fmt.Errorf("can't check status of query %s: %w", queryID, err)
		}

		switch results.Status {
		case types.QueryStatusScheduled, types.QueryStatusRunning:
			logger.Debugf("Query %s is still running", queryID)
			return false, nil
		case types.QueryStatusComplete:
			rows = results.Results
			return true, nil
		default:
			return false, &QueryFailedError{Status: string(results.Status)}
		}
	}, c.pollInterval, c.queryTimeout)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, &QueryTimeoutError{Timeout: c.queryTimeout}
	}

	logger.Debugf("Query %s returned %d rows", queryID, len(rows))
	return rows, nil
}
