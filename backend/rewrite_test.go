package backend_test

import (
	"github.com/AmateurECE/dev-proxy/backend"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Rewrite", func() {
	route := func(prefix, target string) *backend.Route {
		table := backend.Table{}.With(prefix, &backend.Endpoint{Target: target})
		return &table[0]
	}

	DescribeTable(
		"it produces the back-end URL",
		func(prefix, target, path, expected string) {
			u, err := backend.Rewrite(route(prefix, target), path)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(u.String()).To(Equal(expected))
		},
		Entry(
			"nested path",
			"/api", "http://localhost:3000/api", "/api/users",
			"http://localhost:3000/api/users",
		),
		Entry(
			"exact prefix",
			"/api", "http://localhost:3000/api", "/api",
			"http://localhost:3000/api",
		),
		Entry(
			"suffix is appended without adding a separator",
			"/api", "http://localhost:3000/v1", "/apiary",
			"http://localhost:3000/v1ary",
		),
		Entry(
			"target without a path",
			"/api", "http://localhost:3000", "/api/users",
			"http://localhost:3000/users",
		),
		Entry(
			"escaped bytes are preserved",
			"/api", "http://localhost:3000/api", "/api/a%20b",
			"http://localhost:3000/api/a%20b",
		),
		Entry(
			"https target",
			"/secure", "https://backend.test:8443", "/secure/x",
			"https://backend.test:8443/x",
		),
		Entry(
			"h2c target",
			"/grpc", "h2c://localhost:50051", "/grpc/svc/Method",
			"h2c://localhost:50051/svc/Method",
		),
	)

	DescribeTable(
		"it rejects results that are not valid back-end URLs",
		func(prefix, target, path string) {
			u, err := backend.Rewrite(route(prefix, target), path)
			Expect(err).To(MatchError(backend.ErrInvalidRoute))
			Expect(u).To(BeNil())
		},
		Entry("malformed host", "/api", "http://[::1", "/api/x"),
		Entry("invalid escape in suffix", "/api", "http://localhost:3000", "/api/%zz"),
		Entry("control character in suffix", "/api", "http://localhost:3000", "/api/\x7f"),
		Entry("no scheme", "/api", "localhost:3000", "/api/x"),
		Entry("relative target", "/api", "/other", "/api/x"),
		Entry("unsupported scheme", "/api", "ftp://localhost:21", "/api/x"),
		Entry("no host", "/api", "http://", "/api/x"),
		Entry("path that does not match the route", "/api", "http://localhost:3000", "/index.html"),
	)
})
