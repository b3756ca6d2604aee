// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package moderation implements governed changes to posts.
//
// An admin files a Request to update or delete any user's post through
// Engine. A super-admin approves or rejects it through Processor. A request
// is decided exactly once; deciding it again fails with InvalidState.
//
// Two behaviors are kept on purpose and are worth knowing when operating the
// system:
//
//   - OldData is a snapshot taken when the request is filed. It is not
//     compared with the live post at decision time, so approving an update
//     overwrites any edit the owner made in between.
//   - Nothing stops several pending requests from targeting the same post.
//     They are applied in decision order; the last approved one wins.
package moderation
