// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

const applicationConfigurationYmlFile = "config.yml"

const applicationConfigurationYml = `## agentwatch configuration.

## Default collection names used when the corresponding flags and environment
## variables are not set.
collections:
  # traces: agent-traces
  # runtime: agent-runtime
  # results: agent-evaluations

## Evaluation run defaults. The --evaluators and --parallel flags take precedence.
evaluation:
  # parallel: 4
  # evaluators: [tool-success, response-length]
`
