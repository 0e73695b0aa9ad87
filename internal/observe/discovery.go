// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package observe

import (
	"context"

	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/trace"
)

// DiscoverSessions finds recently active sessions in the collection, most
// recent first, up to the configured limit.
func (c *Client) DiscoverSessions(ctx context.Context, collection string, window Window) ([]trace.SessionInfo, error) {
	rows, err := c.Execute(ctx, DiscoverSessionsQuery(c.limit), collection, window.StartMs, window.EndMs)
	if err != nil {
		return nil, err
	}
	return sessionInfos(rows, trace.DiscoveryTimeBased), nil
}

// DiscoverSessionsByScore finds sessions by the scores an evaluator recorded
// for them, worst average score first, up to the configured limit. Optional
// bounds restrict the average score range.
func (c *Client) DiscoverSessionsByScore(ctx context.Context, collection, evaluator string, window Window, minScore, maxScore *float64) ([]trace.SessionInfo, error) {
	query := DiscoverSessionsByScoreQuery(evaluator, minScore, maxScore, c.limit)
	rows, err := c.Execute(ctx, query, collection, window.StartMs, window.EndMs)
	if err != nil {
		return nil, err
	}

	infos := sessionInfos(rows, trace.DiscoveryScoreBased)
	for i := range infos {
		infos[i].Evaluator = evaluator
	}
	return infos, nil
}

// sessionInfos parses discovery rows, dropping the ones without the required
// fields. Such rows can appear when the collection mixes documents from
// different producers.
func sessionInfos(rows []Row, method trace.DiscoveryMethod) []trace.SessionInfo {
	var infos []trace.SessionInfo
	for _, row := range rows {
		info, err := trace.ParseSessionInfo(row, method)
		if err != nil {
			logger.Warnf("Dropping discovered session: %v", err)
			continue
		}
		infos = append(infos, info)
	}
	return infos
}
