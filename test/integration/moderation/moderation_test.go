// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

//go:build integration

package moderation_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/internal/moderation"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

var _ = Describe("Moderation against PostgreSQL", func() {
	var (
		ctx context.Context
		e   *env
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv()
	})

	It("approves an update and refuses a second decision", func() {
		p, err := e.posts.Create(ctx, e.owner, "hello")
		Expect(err).NotTo(HaveOccurred())

		req, err := e.engine.RequestUpdate(ctx, e.admin, p.ID, "goodbye")
		Expect(err).NotTo(HaveOccurred())
		Expect(*req.OldData).To(Equal("hello"))

		decided, err := e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionApprove)
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(moderation.StatusApproved))

		got, err := e.posts.Get(ctx, e.owner, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Data).To(Equal("goodbye"))

		_, err = e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionReject)
		Expect(err).To(MatchError(errutil.ErrInvalidState))

		stored, err := e.engine.Get(ctx, e.admin, req.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Status).To(Equal(moderation.StatusApproved))
		Expect(*stored.ApproverID).To(Equal(e.superAdmin.UserID))
		Expect(stored.DecidedAt.Equal(*decided.DecidedAt)).To(BeTrue())

		audits, err := e.logs.GetLogs(ctx, "audit")
		Expect(err).NotTo(HaveOccurred())
		Expect(audits).To(HaveLen(1))
	})

	It("rejects a delete without touching the post", func() {
		p, err := e.posts.Create(ctx, e.owner, "keep")
		Expect(err).NotTo(HaveOccurred())

		req, err := e.engine.RequestDelete(ctx, e.admin, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.OldData).To(BeNil())

		decided, err := e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionReject)
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(moderation.StatusRejected))

		got, err := e.posts.Get(ctx, e.owner, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Active).To(BeTrue())
		Expect(got.Data).To(Equal("keep"))
	})

	It("rolls the decision back when the post is gone", func() {
		p, err := e.posts.Create(ctx, e.owner, "doomed")
		Expect(err).NotTo(HaveOccurred())
		req, err := e.engine.RequestUpdate(ctx, e.admin, p.ID, "late")
		Expect(err).NotTo(HaveOccurred())
		Expect(e.posts.SoftDelete(ctx, e.owner, p.ID)).To(Succeed())

		_, err = e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionApprove)
		Expect(err).To(MatchError(errutil.ErrInternal))

		stored, err := e.engine.Get(ctx, e.admin, req.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Status).To(Equal(moderation.StatusPending))
		Expect(stored.ApproverID).To(BeNil())
		Expect(stored.DecidedAt).To(BeNil())
	})

	It("applies exactly one of many concurrent decisions", func() {
		p, err := e.posts.Create(ctx, e.owner, "contested")
		Expect(err).NotTo(HaveOccurred())
		req, err := e.engine.RequestDelete(ctx, e.admin, p.ID)
		Expect(err).NotTo(HaveOccurred())

		const callers = 6
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			ok      int
			invalid int
		)
		for range callers {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionApprove)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					ok++
				} else if errutil.Kind(err) == errutil.CodeInvalidState {
					invalid++
				}
			}()
		}
		wg.Wait()

		Expect(ok).To(Equal(1))
		Expect(invalid).To(Equal(callers - 1))
		audits, err := e.logs.GetLogs(ctx, "audit")
		Expect(err).NotTo(HaveOccurred())
		Expect(audits).To(HaveLen(1))
	})

	It("applies sibling requests in decision order", func() {
		p, err := e.posts.Create(ctx, e.owner, "v0")
		Expect(err).NotTo(HaveOccurred())
		first, err := e.engine.RequestUpdate(ctx, e.admin, p.ID, "first")
		Expect(err).NotTo(HaveOccurred())
		second, err := e.engine.RequestUpdate(ctx, e.admin, p.ID, "second")
		Expect(err).NotTo(HaveOccurred())

		_, err = e.processor.Decide(ctx, e.superAdmin, second.ID, moderation.DecisionApprove)
		Expect(err).NotTo(HaveOccurred())
		_, err = e.processor.Decide(ctx, e.superAdmin, first.ID, moderation.DecisionApprove)
		Expect(err).NotTo(HaveOccurred())

		got, err := e.posts.Get(ctx, e.owner, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Data).To(Equal("first"))

		pending, err := e.engine.ListPending(ctx, e.superAdmin)
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("serializes concurrent owner updates to one post", func() {
		p, err := e.posts.Create(ctx, e.owner, "start")
		Expect(err).NotTo(HaveOccurred())

		texts := []string{"a", "b", "c", "d", "e"}
		var wg sync.WaitGroup
		for _, text := range texts {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(e.posts.UpdateData(ctx, e.owner, p.ID, text)).To(Succeed())
			}()
		}
		wg.Wait()

		got, err := e.posts.Get(ctx, e.owner, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(texts).To(ContainElement(got.Data))
		Expect(got.ModifiedAt.Before(got.CreatedAt)).To(BeFalse())
	})

	It("filters the audit trail by type", func() {
		p, err := e.posts.Create(ctx, e.owner, "logged")
		Expect(err).NotTo(HaveOccurred())
		_, err = e.posts.Get(ctx, e.owner, p.ID)
		Expect(err).NotTo(HaveOccurred())
		req, err := e.engine.RequestDelete(ctx, e.admin, p.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = e.processor.Decide(ctx, e.superAdmin, req.ID, moderation.DecisionReject)
		Expect(err).NotTo(HaveOccurred())

		for _, c := range audit.Categories {
			views, err := e.logs.GetLogs(ctx, string(c))
			Expect(err).NotTo(HaveOccurred())
			Expect(views).NotTo(BeEmpty())
			for _, v := range views {
				Expect(v.Category).To(Equal(c))
			}
		}

		all, err := e.logs.GetLogs(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(len(all)).To(BeNumerically(">=", 4))

		_, err = e.logs.GetLogs(ctx, "bogus")
		Expect(err).To(MatchError(errutil.ErrInvalidArgument))
	})
})
