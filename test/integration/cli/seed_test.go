// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

//go:build integration

package cli_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

const seedYAML = `
users:
  - username: alice
    role: regular
  - username: mod
    role: admin
  - username: boss
    role: super-admin
`

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type request struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	OldData  *string `json:"old_data"`
	Approver *string `json:"approver_id"`
}

type logView struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	AscTime string `json:"asctime"`
}

var _ = Describe("tweetgov binary", func() {
	var seedFile string

	BeforeEach(func() {
		resetDatabase()
		mustRun("migrate")
		seedFile = filepath.Join(GinkgoT().TempDir(), "users.yaml")
		Expect(os.WriteFile(seedFile, []byte(seedYAML), 0o600)).To(Succeed())
	})

	It("migrates to the latest version", func() {
		Expect(mustRun("migrate", "version")).To(ContainSubstring("Schema version: 4"))
		Expect(mustRun("migrate", "pending")).To(ContainSubstring("No pending migrations"))
	})

	It("seeds users idempotently", func() {
		var created []user
		decodeJSON(mustRun("user", "seed", "--file", seedFile), &created)
		Expect(created).To(HaveLen(3))

		stdout, stderr, code := tweetgov("user", "seed", "--file", seedFile)
		Expect(code).To(Equal(0))
		Expect(stdout).To(ContainSubstring("[]"))
		Expect(stderr).To(ContainSubstring("already exists, skipping"))

		var count int
		Expect(env.pool.QueryRow(env.ctx, "SELECT COUNT(*) FROM users").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(3))
	})

	It("runs the moderation flow end to end", func() {
		var created []user
		decodeJSON(mustRun("user", "seed", "--file", seedFile), &created)
		ids := map[string]string{}
		for _, u := range created {
			ids[u.Username] = u.ID
		}

		var p struct {
			ID   string `json:"id"`
			Data string `json:"data"`
		}
		decodeJSON(mustRun("post", "create", "hello", "--as", ids["alice"]), &p)

		var req request
		decodeJSON(mustRun("moderation", "request-update", p.ID, "goodbye", "--as", ids["mod"]), &req)
		Expect(req.Status).To(Equal("pending"))
		Expect(*req.OldData).To(Equal("hello"))

		decodeJSON(mustRun("moderation", "decide", req.ID, "approve", "--as", ids["boss"]), &req)
		Expect(req.Status).To(Equal("approved"))

		decodeJSON(mustRun("post", "get", p.ID, "--as", ids["alice"]), &p)
		Expect(p.Data).To(Equal("goodbye"))

		_, stderr, code := tweetgov("moderation", "decide", req.ID, "reject", "--as", ids["boss"])
		Expect(code).To(Equal(4))
		Expect(stderr).To(ContainSubstring("invalid state"))

		var audits []logView
		decodeJSON(mustRun("logs", "--type", "audit", "--as", ids["boss"]), &audits)
		Expect(audits).To(HaveLen(1))
		Expect(audits[0].Type).To(Equal("audit"))
		Expect(audits[0].AscTime).To(MatchRegexp(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`))

		_, _, code = tweetgov("logs", "--as", ids["mod"])
		Expect(code).To(Equal(5))
	})

	It("reports a missing database as an internal error", func() {
		_, stderr, code := tweetgov("user", "show", "alice",
			"--database-url", "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
			"--timeout", "3s")
		Expect(code).To(Equal(1))
		Expect(stderr).To(ContainSubstring("Error: internal error"))
	})
})
