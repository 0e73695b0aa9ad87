// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cobraext

// Global flags
const (
	VerboseFlagName        = "verbose"
	VerboseFlagShorthand   = "v"
	VerboseFlagDescription = "verbose mode (repeat for trace logging)"
)

// Primary flags reused by multiple commands
const (
	TraceCollectionFlagName        = "trace-collection"
	TraceCollectionFlagDescription = "name of the trace collection storing agent spans. Can also be set with %s"

	RuntimeCollectionFlagName        = "runtime-collection"
	RuntimeCollectionFlagDescription = "name of the collection storing agent runtime logs. Can also be set with %s"

	ResultsCollectionFlagName        = "results-collection"
	ResultsCollectionFlagDescription = "name of the collection storing evaluation records. Can also be set with %s"

	SinceFlagName        = "since"
	SinceFlagDescription = "how far back to look for records, expressed as a positive duration"

	DiscoveryFileFlagName        = "from"
	DiscoveryFileFlagDescription = "path of a session discovery file to read sessions from"
)

// Flag names and descriptions used by CLI commands
const (
	AgentIDFlagName        = "agent"
	AgentIDFlagDescription = "agent identifier to narrow the span query"

	DryRunFlagName        = "dry-run"
	DryRunFlagDescription = "score sessions without writing evaluation records"

	EvaluatorFlagName        = "evaluator"
	EvaluatorFlagDescription = "name of the evaluator whose scores to aggregate"

	EvaluatorsFlagName        = "evaluators"
	EvaluatorsFlagDescription = "evaluators to run (comma-separated values: \"%s\")"

	ExportIndexFlagName        = "index"
	ExportIndexFlagDescription = "name of the destination Elasticsearch index"

	FlushBytesFlagName        = "flush-bytes"
	FlushBytesFlagDescription = "bulk flush threshold, as a size in bytes (e.g. 5MB)"

	LimitFlagName        = "limit"
	LimitFlagDescription = "maximum number of sessions to discover"

	MaxScoreFlagName        = "max-score"
	MaxScoreFlagDescription = "keep only sessions with an average score at or below this value"

	MinScoreFlagName        = "min-score"
	MinScoreFlagDescription = "keep only sessions with an average score at or above this value"

	OutputFlagName        = "output"
	OutputFlagShorthand   = "o"
	OutputFlagDescription = "path of the file to write discovery results to"

	ParallelFlagName        = "parallel"
	ParallelFlagShorthand   = "p"
	ParallelFlagDescription = "number of evaluations to execute in parallel (defaults to serial execution)"

	RunIDFlagName        = "run"
	RunIDFlagDescription = "identifier of the evaluation run to export (defaults to the most recent run)"

	RuntimeLogsFlagName        = "runtime-logs"
	RuntimeLogsFlagDescription = "include runtime logs in the session reconstruction"

	SessionFormatFlagName        = "format"
	SessionFormatFlagDescription = "output format (\"%s\")"

	TLSSkipVerifyFlagName        = "tls-skip-verify"
	TLSSkipVerifyFlagDescription = "skip TLS verify"

	ToolsFlagName        = "tools"
	ToolsFlagDescription = "only evaluate sessions with a tool execution matching this glob pattern"
)
