// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"time"
)

// Window is the time range of a query, expressed in epoch milliseconds.
type Window struct {
	StartMs int64
	EndMs   int64
}

// NewWindow returns the window between two points in time.
func NewWindow(start, end time.Time) Window {
	return Window{StartMs: start.UnixMilli(), EndMs: end.UnixMilli()}
}

// WindowSince returns a window ending now and starting the given duration
// earlier.
func WindowSince(since time.Duration) Window {
	end := time.Now()
	return NewWindow(end.Add(-since), end)
}

// StartTime returns the start of the window as UTC time.
func (w Window) StartTime() time.Time {
	return time.UnixMilli(w.StartMs).UTC()
}

// EndTime returns the end of the window as UTC time.
func (w Window) EndTime() time.Time {
	return time.UnixMilli(w.EndMs).UTC()
}

// String renders the window for logs.
func (w Window) String() string {
	return w.StartTime().Format(time.RFC3339) + " - " + w.EndTime().Format(time.RFC3339)
}
