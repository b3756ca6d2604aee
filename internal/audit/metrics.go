// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emittedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetgov_audit_entries_total",
		Help: "Total number of audit entries stored, by type",
	}, []string{"type"})

	failuresCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetgov_audit_failures_total",
		Help: "Total number of audit logging failures",
	}, []string{"reason"})

	walEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tweetgov_audit_wal_entries",
		Help: "Current number of entries in the WAL",
	})
)
