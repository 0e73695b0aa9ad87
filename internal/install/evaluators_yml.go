// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

const evaluatorsYml = `## Evaluator definitions used by "agentwatch evaluate".
## Heuristic evaluators are deterministic and need no credentials.
evaluators:
  - name: tool-success
    type: tool-success
  - name: response-length
    type: response-length
    min_length: 20

## The llm-judge evaluator asks a generative model to rate each session.
## It reads its API key from the AGENTWATCH_GEMINI_API_KEY environment variable.
#  - name: llm-judge
#    type: llm-judge
#    model: gemini-2.0-flash
#    prompt: |
#      Replace the default judging instructions here.
`
