// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

// selectAgentResponse picks the final answer among the assistant texts of a
// trace. The longest text wins: intermediate tool-planning turns tend to be
// short, while the closing answer carries the full summary. Kept apart so
// the selection policy can evolve without touching the mapper.
func selectAgentResponse(responses []string) string {
	var selected string
	for _, response := range responses {
		if len(response) > len(selected) {
			selected = response
		}
	}
	return selected
}
