// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DiscoveryFormatVersion is the version of the discovery file format written
// by this build. Files with a newer major version are rejected on load.
const DiscoveryFormatVersion = "1.0.0"

// DiscoveryResult is the persisted output of a session discovery run. It
// feeds later evaluation runs, so discovery and evaluation can happen at
// different times against the same session set.
type DiscoveryResult struct {
	FormatVersion   string            `json:"format_version"`
	Sessions        []SessionInfo     `json:"sessions"`
	DiscoveryTime   time.Time         `json:"discovery_time"`
	LogGroup        string            `json:"log_group"`
	TimeRangeStart  time.Time         `json:"time_range_start"`
	TimeRangeEnd    time.Time         `json:"time_range_end"`
	DiscoveryMethod DiscoveryMethod   `json:"discovery_method"`
	FilterCriteria  map[string]string `json:"filter_criteria,omitempty"`
}

// SessionIDs returns the ids of the discovered sessions, in discovery order.
func (r *DiscoveryResult) SessionIDs() []string {
	ids := make([]string, len(r.Sessions))
	for i, session := range r.Sessions {
		ids[i] = session.SessionID
	}
	return ids
}

// WriteFile persists the result as an indented JSON document.
func (r DiscoveryResult) WriteFile(path string) error {
	r.FormatVersion = DiscoveryFormatVersion
	body, err := json.MarshalIndent(&r, "", "  ")
	if err != nil {
		return fmt.Errorf("can't encode discovery result: %w", err)
	}
	err = os.WriteFile(path, append(body, '\n'), 0644)
	if err != nil {
		return fmt.Errorf("can't write discovery file %s: %w", path, err)
	}
	return nil
}

// ReadDiscoveryFile loads a previously written discovery result, verifying
// the file format version and normalizing all timestamps to UTC.
func ReadDiscoveryFile(path string) (*DiscoveryResult, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read discovery file: %w", err)
	}

	var result DiscoveryResult
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("can't parse discovery file %s: %w", path, err)
	}

	err = checkDiscoveryFormatVersion(result.FormatVersion)
	if err != nil {
		return nil, fmt.Errorf("can't use discovery file %s: %w", path, err)
	}

	result.normalizeUTC()
	return &result, nil
}

func checkDiscoveryFormatVersion(version string) error {
	if version == "" {
		return errors.New("missing format version")
	}
	fileVersion, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", version, err)
	}
	supportedVersion := semver.MustParse(DiscoveryFormatVersion)
	if fileVersion.Major() > supportedVersion.Major() {
		return fmt.Errorf("format version %s is newer than the supported %s", version, DiscoveryFormatVersion)
	}
	return nil
}

func (r *DiscoveryResult) normalizeUTC() {
	r.DiscoveryTime = r.DiscoveryTime.UTC()
	r.TimeRangeStart = r.TimeRangeStart.UTC()
	r.TimeRangeEnd = r.TimeRangeEnd.UTC()
	for i := range r.Sessions {
		r.Sessions[i].FirstSeen = r.Sessions[i].FirstSeen.UTC()
		r.Sessions[i].LastSeen = r.Sessions[i].LastSeen.UTC()
	}
}
