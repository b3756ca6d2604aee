// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package audit records who accessed, changed and moderated posts.
//
// Entries fall into three categories: access (reads), action (mutations and
// moderation requests) and audit (moderation decisions). The Sink is called
// after the domain change it describes has committed and never reports a
// failure back to the caller. A failed write is spooled to a JSONL
// write-ahead log that ReplayWAL drains into the store later; if the WAL is
// unavailable too, the entry is logged through slog and counted in
// tweetgov_audit_failures_total.
//
// QueryService is the read side: it lists entries oldest first, optionally
// filtered by category.
package audit
