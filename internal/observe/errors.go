// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"fmt"
	"time"
)

// CollectionNotFoundError is returned when the queried collection does not
// exist in the configured region.
type CollectionNotFoundError struct {
	Collection string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// QueryTimeoutError is returned when a query does not reach a terminal
// status before the polling deadline. The query keeps running server-side.
type QueryTimeoutError struct {
	Timeout time.Duration
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("query timed out after %s", e.Timeout)
}

// QueryFailedError is returned when the query service reports a terminal
// failure status.
type QueryFailedError struct {
	Status string
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query failed with status %q", e.Status)
}
