// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetgov_moderation_requests_total",
		Help: "Total number of moderation requests filed, by kind",
	}, []string{"kind"})

	decisionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetgov_moderation_decisions_total",
		Help: "Total number of moderation decisions, by outcome",
	}, []string{"outcome"})
)
