// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v32/github"
	"golang.org/x/oauth2"
)

// UnauthorizedClient function returns unauthorized instance of Github API client.
func UnauthorizedClient() *github.Client {
	return github.NewClient(new(http.Client))
}

// AuthorizedClient function returns authorized instance of Github API client.
func AuthorizedClient(ctx context.Context) (*github.Client, error) {
	authToken, err := AuthToken()
	if err != nil {
		return nil, fmt.Errorf("can't read auth token: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: authToken})
	return github.NewClient(oauth2.NewClient(ctx, ts)), nil
}
