// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/elastic/agentwatch/cmd"
	"github.com/elastic/agentwatch/internal/install"
	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/signal"
)

func main() {
	rootCmd := cmd.RootCmd()

	err := install.EnsureInstalled()
	if err != nil {
		log.Fatal(fmt.Errorf("validating installation failed: %s", err))
	}

	ctx, stop := signal.Enable(context.Background(), logger.Infof)
	defer stop()

	err = rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
