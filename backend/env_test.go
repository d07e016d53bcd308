package backend_test

import (
	"github.com/AmateurECE/dev-proxy/backend"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("FromEnv", func() {
	DescribeTable(
		"it produces the correct route",
		func(env string, expected backend.Definition) {
			defs, err := backend.FromEnv([]string{env})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(defs).To(ConsistOf(expected))
		},
		Entry("tag as description", "ROUTE_API=/api http://localhost:3000/api", backend.Definition{
			Prefix:      "/api",
			Target:      "http://localhost:3000/api",
			Description: "API",
		}),
		Entry("custom description", "ROUTE_API=/api http://localhost:3000/api This is the description!", backend.Definition{
			Prefix:      "/api",
			Target:      "http://localhost:3000/api",
			Description: "This is the description!",
		}),
		Entry("malformed target is kept", "ROUTE_BAD=/bad http://[::1", backend.Definition{
			Prefix:      "/bad",
			Target:      "http://[::1",
			Description: "BAD",
		}),
	)

	It("orders routes by tag", func() {
		env := []string{
			"ROUTE_20_CATCHALL=/ http://localhost:4000",
			"ROUTE_10_API=/api http://localhost:3000/api",
		}

		defs, err := backend.FromEnv(env)

		Expect(err).ShouldNot(HaveOccurred())
		Expect(defs).To(HaveLen(2))
		Expect(defs[0].Prefix).To(Equal("/api"))
		Expect(defs[1].Prefix).To(Equal("/"))
	})

	It("ignores other environment variables", func() {
		env := []string{"PATH=/usr/local/bin", "ROUTES_REDIS_ADDR=localhost:6379"}

		defs, err := backend.FromEnv(env)

		Expect(err).ShouldNot(HaveOccurred())
		Expect(defs).To(HaveLen(0))
	})

	It("returns an error if the route has no target", func() {
		env := []string{"ROUTE_FOO=/foo"}

		_, err := backend.FromEnv(env)

		Expect(err).Should(HaveOccurred())
	})
})
