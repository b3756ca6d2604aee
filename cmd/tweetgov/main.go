// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package main is the tweetgov operator CLI.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], Deps{}, os.Stdout, os.Stderr))
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
