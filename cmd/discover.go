// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cloudwatch"
	"github.com/elastic/agentwatch/internal/cobraext"
	"github.com/elastic/agentwatch/internal/install"
	"github.com/elastic/agentwatch/internal/observe"
	"github.com/elastic/agentwatch/internal/report"
	"github.com/elastic/agentwatch/internal/trace"
)

const discoverLongDescription = `Use this command to find agent sessions recorded in CloudWatch Logs collections.

Discovery scans a collection with Logs Insights queries and writes the found sessions to a discovery file, which the evaluate, sessions and export commands read. Sessions can be discovered by recent activity in a trace collection, or by scores previously recorded in an evaluation results collection.`

const discoverSessionsLongDescription = `Use this command to discover sessions by recent activity.

The trace collection is scanned for spans recorded within the given time range and sessions are aggregated from them, newest first.`

const discoverScoresLongDescription = `Use this command to discover sessions by recorded evaluation scores.

The results collection is scanned for score records written by earlier evaluation runs of the given evaluator. Use the score bounds to narrow the selection, e.g. --max-score 5 finds the sessions that need attention.`

func setupDiscoverCommand() *cobraext.Command {
	discoverSessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Discover sessions by recent activity",
		Long:  discoverSessionsLongDescription,
		Args:  cobra.NoArgs,
		RunE:  discoverSessionsCommandAction,
	}
	discoverSessionsCmd.Flags().String(cobraext.TraceCollectionFlagName, "", fmt.Sprintf(cobraext.TraceCollectionFlagDescription, cloudwatch.TraceCollectionEnv))

	discoverScoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "Discover sessions by recorded evaluation scores",
		Long:  discoverScoresLongDescription,
		Args:  cobra.NoArgs,
		RunE:  discoverScoresCommandAction,
	}
	discoverScoresCmd.Flags().String(cobraext.ResultsCollectionFlagName, "", fmt.Sprintf(cobraext.ResultsCollectionFlagDescription, cloudwatch.ResultsCollectionEnv))
	discoverScoresCmd.Flags().String(cobraext.EvaluatorFlagName, "", cobraext.EvaluatorFlagDescription)
	discoverScoresCmd.MarkFlagRequired(cobraext.EvaluatorFlagName)
	discoverScoresCmd.Flags().Float64(cobraext.MinScoreFlagName, 0, cobraext.MinScoreFlagDescription)
	discoverScoresCmd.Flags().Float64(cobraext.MaxScoreFlagName, 0, cobraext.MaxScoreFlagDescription)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover recorded agent sessions",
		Long:  discoverLongDescription,
	}
	cmd.PersistentFlags().Duration(cobraext.SinceFlagName, 24*time.Hour, cobraext.SinceFlagDescription)
	cmd.PersistentFlags().Int(cobraext.LimitFlagName, 50, cobraext.LimitFlagDescription)
	cmd.PersistentFlags().StringP(cobraext.OutputFlagName, cobraext.OutputFlagShorthand, "", cobraext.OutputFlagDescription)

	cmd.AddCommand(discoverSessionsCmd)
	cmd.AddCommand(discoverScoresCmd)

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func discoverSessionsCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Discover sessions by recent activity")

	traceCollection, err := cmd.Flags().GetString(cobraext.TraceCollectionFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.TraceCollectionFlagName)
	}

	window, limit, outputPath, err := discoveryFlags(cmd)
	if err != nil {
		return err
	}

	collection, err := resolveCollection(traceCollection, cloudwatch.TraceCollectionEnv, func(c install.CollectionSettings) string { return c.Traces })
	if err != nil {
		return err
	}

	client, err := newObserveClient(cmd, observe.WithLimit(limit))
	if err != nil {
		return err
	}

	sessions, err := client.DiscoverSessions(cmd.Context(), collection, window)
	if err != nil {
		return fmt.Errorf("can't discover sessions in %s: %w", collection, err)
	}

	result := &trace.DiscoveryResult{
		Sessions:        sessions,
		DiscoveryTime:   time.Now().UTC(),
		LogGroup:        collection,
		TimeRangeStart:  window.StartTime(),
		TimeRangeEnd:    window.EndTime(),
		DiscoveryMethod: trace.DiscoveryTimeBased,
	}
	return finishDiscovery(cmd, result, outputPath)
}

func discoverScoresCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Discover sessions by recorded evaluation scores")

	resultsCollection, err := cmd.Flags().GetString(cobraext.ResultsCollectionFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ResultsCollectionFlagName)
	}

	evaluator, err := cmd.Flags().GetString(cobraext.EvaluatorFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.EvaluatorFlagName)
	}

	minScore, err := optionalScoreFlag(cmd, cobraext.MinScoreFlagName)
	if err != nil {
		return err
	}
	maxScore, err := optionalScoreFlag(cmd, cobraext.MaxScoreFlagName)
	if err != nil {
		return err
	}

	window, limit, outputPath, err := discoveryFlags(cmd)
	if err != nil {
		return err
	}

	collection, err := resolveCollection(resultsCollection, cloudwatch.ResultsCollectionEnv, func(c install.CollectionSettings) string { return c.Results })
	if err != nil {
		return err
	}

	client, err := newObserveClient(cmd, observe.WithLimit(limit))
	if err != nil {
		return err
	}

	sessions, err := client.DiscoverSessionsByScore(cmd.Context(), collection, evaluator, window, minScore, maxScore)
	if err != nil {
		return fmt.Errorf("can't discover sessions in %s: %w", collection, err)
	}

	criteria := map[string]string{"evaluator": evaluator}
	if minScore != nil {
		criteria["min_score"] = fmt.Sprintf("%g", *minScore)
	}
	if maxScore != nil {
		criteria["max_score"] = fmt.Sprintf("%g", *maxScore)
	}

	result := &trace.DiscoveryResult{
		Sessions:        sessions,
		DiscoveryTime:   time.Now().UTC(),
		LogGroup:        collection,
		TimeRangeStart:  window.StartTime(),
		TimeRangeEnd:    window.EndTime(),
		DiscoveryMethod: trace.DiscoveryScoreBased,
		FilterCriteria:  criteria,
	}
	return finishDiscovery(cmd, result, outputPath)
}

// discoveryFlags reads the flags shared by both discovery methods.
func discoveryFlags(cmd *cobra.Command) (observe.Window, int, string, error) {
	since, err := cmd.Flags().GetDuration(cobraext.SinceFlagName)
	if err != nil {
		return observe.Window{}, 0, "", cobraext.FlagParsingError(err, cobraext.SinceFlagName)
	}
	if since <= 0 {
		return observe.Window{}, 0, "", fmt.Errorf("flag --%s must be a positive duration", cobraext.SinceFlagName)
	}

	limit, err := cmd.Flags().GetInt(cobraext.LimitFlagName)
	if err != nil {
		return observe.Window{}, 0, "", cobraext.FlagParsingError(err, cobraext.LimitFlagName)
	}

	outputPath, err := cmd.Flags().GetString(cobraext.OutputFlagName)
	if err != nil {
		return observe.Window{}, 0, "", cobraext.FlagParsingError(err, cobraext.OutputFlagName)
	}

	return observe.WindowSince(since), limit, outputPath, nil
}

func optionalScoreFlag(cmd *cobra.Command, flagName string) (*float64, error) {
	if !cmd.Flags().Changed(flagName) {
		return nil, nil
	}
	value, err := cmd.Flags().GetFloat64(flagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, flagName)
	}
	return &value, nil
}

func finishDiscovery(cmd *cobra.Command, result *trace.DiscoveryResult, outputPath string) error {
	outputPath, err := discoveryOutputPath(outputPath, result.DiscoveryTime)
	if err != nil {
		return err
	}

	err = result.WriteFile(outputPath)
	if err != nil {
		return fmt.Errorf("can't write discovery file: %w", err)
	}

	err = report.WriteSessions(cmd.OutOrStdout(), result)
	if err != nil {
		return fmt.Errorf("can't render discovered sessions: %w", err)
	}

	cmd.Printf("Discovery written to %s\n", outputPath)
	cmd.Println("Done")
	return nil
}
