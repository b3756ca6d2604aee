// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/moderation"
	"github.com/tweetgov/tweetgov/internal/post"
)

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func viewUser(u *access.User) userView {
	return userView{ID: u.ID.String(), Username: u.Username, Role: u.Role.String(), CreatedAt: u.CreatedAt}
}

type postView struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Data       string    `json:"data"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func viewPost(p *post.Post) postView {
	return postView{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID.String(),
		Data:       p.Data,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
	}
}

type requestView struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	PostID       string     `json:"post_id"`
	RequesterID  string     `json:"requester_id"`
	ApproverID   *string    `json:"approver_id"`
	OldData      *string    `json:"old_data"`
	ProposedData *string    `json:"proposed_data"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at"`
}

func viewRequest(r *moderation.Request) requestView {
	v := requestView{
		ID:           r.ID.String(),
		Kind:         r.Kind.String(),
		PostID:       r.PostID.String(),
		RequesterID:  r.RequesterID.String(),
		OldData:      r.OldData,
		ProposedData: r.ProposedData,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		DecidedAt:    r.DecidedAt,
	}
	if r.ApproverID != nil {
		s := r.ApproverID.String()
		v.ApproverID = &s
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return oops.With("operation", "encode output").Wrap(err)
	}
	return nil
}
