// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package version

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/elastic/agentwatch/internal/github"
	"github.com/elastic/agentwatch/internal/logger"
)

const (
	repositoryOwner = "elastic"
	repositoryName  = "agentwatch"
)

// CheckUpdate function checks using Github Release API if newer version is available.
func CheckUpdate(ctx context.Context) {
	if Tag == "" {
		logger.Debugf("Distribution built without a version tag, can't determine release chronology. Please consider using official releases at " +
			"https://github.com/elastic/agentwatch/releases")
		return
	}

	githubClient, err := github.AuthorizedClient(ctx)
	if err != nil {
		logger.Debugf("Can't create authorized GitHub client, fallback to unauthorized: %v", err)
		githubClient = github.UnauthorizedClient()
	}

	release, _, err := githubClient.Repositories.GetLatestRelease(ctx, repositoryOwner, repositoryName)
	if err != nil {
		logger.Debugf("Error: can't check latest release: %v", err)
		return
	}

	if release.TagName == nil || *release.TagName == "" {
		logger.Debugf("Error: release tag is empty")
		return
	}

	currentVersion, err := semver.NewVersion(Tag)
	if err != nil {
		logger.Debugf("Error: can't parse current version tag: %v", err)
		return
	}

	releaseVersion, err := semver.NewVersion(*release.TagName)
	if err != nil {
		logger.Debugf("Error: can't parse latest release tag: %v", err)
		return
	}

	if currentVersion.LessThan(releaseVersion) {
		logger.Infof("New version is available - %s. Download from: %s", *release.TagName, *release.HTMLURL)
	}
}
