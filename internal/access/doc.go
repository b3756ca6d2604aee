// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package access holds the role model and local user accounts.
//
// A Subject is the (user id, role) pair every domain operation receives.
// Role checks compare for equality: an admin is not implicitly a regular user
// and a super-admin is not implicitly an admin.
package access
