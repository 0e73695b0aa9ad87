// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cloudwatch"
	"github.com/elastic/agentwatch/internal/cobraext"
	"github.com/elastic/agentwatch/internal/common"
	"github.com/elastic/agentwatch/internal/configuration/locations"
	"github.com/elastic/agentwatch/internal/eval"
	"github.com/elastic/agentwatch/internal/export"
	"github.com/elastic/agentwatch/internal/observe"
	"github.com/elastic/agentwatch/internal/session"
	"github.com/elastic/agentwatch/internal/trace"
)

const exportLongDescription = `Use this command to export reconstructed sessions and evaluation results to Elasticsearch.

Exported documents land in plain indices ready for dashboarding. The destination is configured with the AGENTWATCH_ES_HOST, AGENTWATCH_ES_USERNAME and AGENTWATCH_ES_PASSWORD environment variables.`

const exportSessionsLongDescription = `Use this command to export reconstructed sessions to an Elasticsearch index.

Sessions are read from a discovery file and reconstructed from the trace collection before indexing, one document per session. Document ids are the session ids, re-exporting a session overwrites its document.`

const exportResultsLongDescription = `Use this command to export the results of an evaluation run to an Elasticsearch index.

Without --run the most recent locally persisted run is exported, one document per session and evaluator. Document ids combine run, session and evaluator, re-exporting a run overwrites its documents.`

func setupExportCommand() *cobraext.Command {
	exportSessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Export reconstructed sessions to Elasticsearch",
		Long:  exportSessionsLongDescription,
		Args:  cobra.NoArgs,
		RunE:  exportSessionsCommandAction,
	}
	exportSessionsCmd.Flags().String(cobraext.DiscoveryFileFlagName, "", cobraext.DiscoveryFileFlagDescription)
	exportSessionsCmd.MarkFlagRequired(cobraext.DiscoveryFileFlagName)
	exportSessionsCmd.Flags().String(cobraext.TraceCollectionFlagName, "", fmt.Sprintf(cobraext.TraceCollectionFlagDescription, cloudwatch.TraceCollectionEnv))
	exportSessionsCmd.Flags().String(cobraext.RuntimeCollectionFlagName, "", fmt.Sprintf(cobraext.RuntimeCollectionFlagDescription, cloudwatch.RuntimeCollectionEnv))
	exportSessionsCmd.Flags().String(cobraext.AgentIDFlagName, "", cobraext.AgentIDFlagDescription)
	exportSessionsCmd.Flags().Bool(cobraext.RuntimeLogsFlagName, false, cobraext.RuntimeLogsFlagDescription)
	exportSessionsCmd.Flags().String(cobraext.ExportIndexFlagName, export.DefaultSessionsIndex, cobraext.ExportIndexFlagDescription)

	exportResultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Export evaluation results to Elasticsearch",
		Long:  exportResultsLongDescription,
		Args:  cobra.NoArgs,
		RunE:  exportResultsCommandAction,
	}
	exportResultsCmd.Flags().String(cobraext.RunIDFlagName, "", cobraext.RunIDFlagDescription)
	exportResultsCmd.Flags().String(cobraext.ExportIndexFlagName, export.DefaultResultsIndex, cobraext.ExportIndexFlagDescription)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions and evaluation results",
		Long:  exportLongDescription,
	}
	cmd.PersistentFlags().String(cobraext.FlushBytesFlagName, "", cobraext.FlushBytesFlagDescription)
	cmd.PersistentFlags().Bool(cobraext.TLSSkipVerifyFlagName, false, cobraext.TLSSkipVerifyFlagDescription)

	cmd.AddCommand(exportSessionsCmd)
	cmd.AddCommand(exportResultsCmd)

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func exportSessionsCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Export reconstructed sessions")

	discoveryFile, err := cmd.Flags().GetString(cobraext.DiscoveryFileFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.DiscoveryFileFlagName)
	}

	index, err := cmd.Flags().GetString(cobraext.ExportIndexFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ExportIndexFlagName)
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
		sess, err := reconstructor.reconstruct(cmd.Context(), sessionID, window)
		if err != nil {
			return err
		}
		sessions = append(sessions, sess)
	}

	exporter, err := newExporter(cmd, export.WithSessionsIndex(index))
	if err != nil {
		return err
	}

	count, err := exporter.ExportSessions(cmd.Context(), sessions)
	if err != nil {
		return fmt.Errorf("sessions export failed: %w", err)
	}

	cmd.Printf("Exported %d session documents to %s\n", count, index)
	cmd.Println("Done")
	return nil
}

func exportResultsCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Export evaluation results")

	runID, err := cmd.Flags().GetString(cobraext.RunIDFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.RunIDFlagName)
	}

	index, err := cmd.Flags().GetString(cobraext.ExportIndexFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ExportIndexFlagName)
	}

	locationManager, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("can't find results directory: %w", err)
	}

	resultPath := filepath.Join(locationManager.ResultsDir(), runID+".json")
	if runID == "" {
		resultPath, err = latestRunResult(locationManager.ResultsDir())
		if err != nil {
			return err
		}
	}

	result, err := eval.ReadResult(resultPath)
	if err != nil {
		return err
	}

	exporter, err := newExporter(cmd, export.WithResultsIndex(index))
	if err != nil {
		return err
	}

	count, err := exporter.ExportResult(cmd.Context(), result)
	if err != nil {
		return fmt.Errorf("results export failed: %w", err)
	}

	cmd.Printf("Exported %d evaluation documents of run %s to %s\n", count, result.RunID, index)
	cmd.Println("Done")
	return nil
}

// newExporter builds an exporter from the shared export flags and the
// environment-configured Elasticsearch destination.
func newExporter(cmd *cobra.Command, opts ...export.ExporterOption) (*export.Exporter, error) {
	flushBytes, err := cmd.Flags().GetString(cobraext.FlushBytesFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.FlushBytesFlagName)
	}
	if flushBytes != "" {
		size, err := common.ParseByteSize(flushBytes)
		if err != nil {
			return nil, fmt.Errorf("can't parse --%s flag: %w", cobraext.FlushBytesFlagName, err)
		}
		opts = append(opts, export.WithFlushThreshold(size))
	}

	var clientOptions []export.ClientOption
	tlsSkipVerify, err := cmd.Flags().GetBool(cobraext.TLSSkipVerifyFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.TLSSkipVerifyFlagName)
	}
	if tlsSkipVerify {
		clientOptions = append(clientOptions, export.OptionWithSkipTLSVerify())
	}

	client, err := export.NewClient(clientOptions...)
	if errors.Is(err, export.ErrUndefinedAddress) {
		return nil, fmt.Errorf("%w, set %s to the destination address", err, export.HostEnv)
	}
	if err != nil {
		return nil, fmt.Errorf("can't create Elasticsearch client: %w", err)
	}
	return export.NewExporter(client.API, opts...), nil
}

// latestRunResult returns the most recent run result in the given directory.
// Run ids embed their start timestamp, so the lexical order of the file names
// is chronological.
func latestRunResult(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("can't read results directory: %w", err)
	}

	var latest string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no evaluation results found in %s", dir)
	}
	return filepath.Join(dir, latest), nil
}
