// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import "strings"

// TrimStringSlice removes whitespace from the beginning and end of the contents of a []string.
func TrimStringSlice(slice []string) {
	for iterator, item := range slice {
		slice[iterator] = strings.TrimSpace(item)
	}
}

// CompactStringSlice returns the slice without empty items, preserving order.
// Comma-separated flag values with stray commas produce empty items.
func CompactStringSlice(slice []string) []string {
	var compacted []string
	for _, item := range slice {
		if item == "" {
			continue
		}
		compacted = append(compacted, item)
	}
	return compacted
}
