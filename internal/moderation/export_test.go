// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import "github.com/prometheus/client_golang/prometheus"

// RequestsMetric exposes the per-kind request counter to external tests.
func RequestsMetric(kind string) prometheus.Counter {
	return requestsCounter.WithLabelValues(kind)
}
