// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cloudwatch"
	"github.com/elastic/agentwatch/internal/cobraext"
	"github.com/elastic/agentwatch/internal/common"
	"github.com/elastic/agentwatch/internal/configuration/locations"
	"github.com/elastic/agentwatch/internal/eval"
	"github.com/elastic/agentwatch/internal/install"
	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/observe"
	"github.com/elastic/agentwatch/internal/report"
	"github.com/elastic/agentwatch/internal/session"
	"github.com/elastic/agentwatch/internal/trace"
)

// evaluationStaggerDelay spaces parallel evaluation starts to avoid burst
// requests against the judge endpoint.
const evaluationStaggerDelay = 500 * time.Millisecond

const evaluateLongDescription = `Use this command to score discovered sessions with the configured evaluators.

Sessions are read from a discovery file, reconstructed from the trace collection and scored by each selected evaluator. Scores are persisted as a local run result and, unless --dry-run is set, written to the results collection, where later "discover scores" runs aggregate them.

Evaluators are defined in the evaluators.yml file of the agentwatch configuration directory. Without this file the built-in heuristic evaluators run.`

func setupEvaluateCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate discovered sessions",
		Long:  evaluateLongDescription,
		Args:  cobra.NoArgs,
		RunE:  evaluateCommandAction,
	}
	cmd.Flags().String(cobraext.DiscoveryFileFlagName, "", cobraext.DiscoveryFileFlagDescription)
	cmd.MarkFlagRequired(cobraext.DiscoveryFileFlagName)
	cmd.Flags().String(cobraext.TraceCollectionFlagName, "", fmt.Sprintf(cobraext.TraceCollectionFlagDescription, cloudwatch.TraceCollectionEnv))
	cmd.Flags().String(cobraext.RuntimeCollectionFlagName, "", fmt.Sprintf(cobraext.RuntimeCollectionFlagDescription, cloudwatch.RuntimeCollectionEnv))
	cmd.Flags().String(cobraext.ResultsCollectionFlagName, "", fmt.Sprintf(cobraext.ResultsCollectionFlagDescription, cloudwatch.ResultsCollectionEnv))
	cmd.Flags().String(cobraext.AgentIDFlagName, "", cobraext.AgentIDFlagDescription)
	cmd.Flags().Bool(cobraext.RuntimeLogsFlagName, false, cobraext.RuntimeLogsFlagDescription)
	cmd.Flags().StringSlice(cobraext.EvaluatorsFlagName, nil, fmt.Sprintf(cobraext.EvaluatorsFlagDescription,
		strings.Join([]string{eval.TypeToolSuccess, eval.TypeResponseLength, eval.TypeLLMJudge}, "\", \"")))
	cmd.Flags().IntP(cobraext.ParallelFlagName, cobraext.ParallelFlagShorthand, 0, cobraext.ParallelFlagDescription)
	cmd.Flags().Bool(cobraext.DryRunFlagName, false, cobraext.DryRunFlagDescription)
	cmd.Flags().String(cobraext.ToolsFlagName, "", cobraext.ToolsFlagDescription)

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func evaluateCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Evaluate discovered sessions")

	discoveryFile, err := cmd.Flags().GetString(cobraext.DiscoveryFileFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.DiscoveryFileFlagName)
	}

	resultsCollection, err := cmd.Flags().GetString(cobraext.ResultsCollectionFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ResultsCollectionFlagName)
	}

	evaluatorNames, err := cmd.Flags().GetStringSlice(cobraext.EvaluatorsFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.EvaluatorsFlagName)
	}
	common.TrimStringSlice(evaluatorNames)
	evaluatorNames = common.CompactStringSlice(evaluatorNames)

	parallel, err := cmd.Flags().GetInt(cobraext.ParallelFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ParallelFlagName)
	}

	dryRun, err := cmd.Flags().GetBool(cobraext.DryRunFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.DryRunFlagName)
	}

	toolsFilter, err := cmd.Flags().GetString(cobraext.ToolsFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ToolsFlagName)
	}

	config, err := install.Configuration()
	if err != nil {
		return fmt.Errorf("can't read application configuration: %w", err)
	}
	evaluation, err := config.Evaluation()
	if err != nil {
		return fmt.Errorf("can't read evaluation settings: %w", err)
	}
	if len(evaluatorNames) == 0 {
		evaluatorNames = evaluation.Evaluators
	}
	if parallel == 0 {
		parallel = evaluation.Parallel
	}

	evaluators, err := selectConfiguredEvaluators(evaluatorNames)
	if err != nil {
		return err
	}

	result, err := trace.ReadDiscoveryFile(discoveryFile)
	if err != nil {
		return err
	}
	if len(result.Sessions) == 0 {
		cmd.Println("No sessions found in the discovery file.")
		return nil
	}

	reconstructor, err := newSessionReconstructor(cmd)
	if err != nil {
		return err
	}

	window := observe.NewWindow(result.TimeRangeStart, result.TimeRangeEnd)
	var sessions []session.Session
	for _, sessionID := range result.SessionIDs() {
		data, err := reconstructor.data(cmd.Context(), sessionID, window)
		if err != nil {
			return err
		}
		if toolsFilter != "" && len(data.ToolExecutionSpanIDs(toolsFilter)) == 0 {
			logger.Debugf("Skipping session %s, no tool execution matches %q", sessionID, toolsFilter)
			continue
		}
		sessions = append(sessions, session.NewMapper().FromTraceData(data))
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions left to evaluate after filtering.")
		return nil
	}

	locationManager, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("can't find results directory: %w", err)
	}

	runConfig := eval.Config{
		RunID:        eval.NewRunID(),
		Evaluators:   evaluators,
		Parallelism:  parallel,
		StaggerDelay: evaluationStaggerDelay,
		ResultsDir:   locationManager.ResultsDir(),
	}
	if dryRun {
		cmd.Println("Dry run: score records will not be written")
	} else {
		collection, err := resolveCollection(resultsCollection, cloudwatch.ResultsCollectionEnv, func(c install.CollectionSettings) string { return c.Results })
		if err != nil {
			return err
		}
		api, err := cloudwatch.NewClient(cmd.Context())
		if err != nil {
			return fmt.Errorf("can't create CloudWatch Logs client: %w", err)
		}
		runConfig.Recorder = eval.NewRecorder(api, collection, runConfig.RunID)
	}

	runResult, err := eval.Run(cmd.Context(), runConfig, sessions)
	if err != nil {
		return err
	}

	cmd.Println(report.RenderEvaluation(runResult))
	cmd.Println("Done")
	return nil
}

// selectConfiguredEvaluators instantiates the named evaluators from the
// evaluators.yml definitions, falling back to the built-in heuristics when no
// definitions file exists. Without names all defined evaluators are selected.
func selectConfiguredEvaluators(names []string) ([]eval.Evaluator, error) {
	locationManager, err := locations.NewLocationManager()
	if err != nil {
		return nil, fmt.Errorf("can't find evaluator definitions: %w", err)
	}

	definitions := eval.DefaultDefinitions()
	definitionsPath := locationManager.EvaluatorsFile()
	if _, statErr := os.Stat(definitionsPath); statErr == nil {
		definitions, err = eval.LoadDefinitions(definitionsPath)
		if err != nil {
			return nil, err
		}
	}
	return eval.SelectEvaluators(definitions, names)
}
