package cmd_test

import (
	"context"

	"github.com/AmateurECE/dev-proxy/backend"
	"github.com/AmateurECE/dev-proxy/cmd"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("RouteTable", func() {
	var (
		server *miniredis.Miniredis
		client *redis.Client
		config *cmd.Config
	)

	BeforeEach(func() {
		var err error
		server, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())

		client = redis.NewClient(&redis.Options{Addr: server.Addr()})
		config = &cmd.Config{}
		config.Redis.Key = backend.DefaultRedisKey
	})

	AfterEach(func() {
		client.Close()
		server.Close()
	})

	prefixes := func(table backend.Table) []string {
		var result []string
		for _, route := range table {
			result = append(result, route.Matcher.Prefix)
		}
		return result
	}

	It("uses the default route if no routes are configured", func() {
		table, err := cmd.RouteTable(context.Background(), config, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(table).To(HaveLen(1))
		Expect(table[0].Matcher.Prefix).To(Equal("/api"))
		Expect(table[0].Endpoint.Target).To(Equal("http://localhost:3000/api"))
	})

	It("uses the default route if the Redis list is empty", func() {
		table, err := cmd.RouteTable(context.Background(), config, client)
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixes(table)).To(Equal([]string{"/api"}))
	})

	It("does not add the default route when routes are configured", func() {
		config.Routes = []backend.Definition{
			{Prefix: "/graphql", Target: "http://localhost:4000"},
		}

		table, err := cmd.RouteTable(context.Background(), config, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixes(table)).To(Equal([]string{"/graphql"}))
	})

	It("places Redis routes after configured routes", func() {
		config.Routes = []backend.Definition{
			{Prefix: "/graphql", Target: "http://localhost:4000"},
		}
		server.RPush(backend.DefaultRedisKey, "/api http://localhost:3000/api", "/ws http://localhost:3002")

		table, err := cmd.RouteTable(context.Background(), config, client)
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixes(table)).To(Equal([]string{"/graphql", "/api", "/ws"}))
	})

	It("fails if Redis can not be reached", func() {
		unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		defer unreachable.Close()

		_, err := cmd.RouteTable(context.Background(), config, unreachable)
		Expect(err).To(HaveOccurred())
	})

	It("fails if a route is invalid", func() {
		config.Routes = []backend.Definition{{Prefix: "", Target: "http://localhost:4000"}}

		_, err := cmd.RouteTable(context.Background(), config, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewRedisClient", func() {
	It("returns nil if no address is configured", func() {
		Expect(cmd.NewRedisClient(&cmd.Config{})).To(BeNil())
	})

	It("returns a client for the configured address", func() {
		config := &cmd.Config{}
		config.Redis.Address = "127.0.0.1:6379"

		client := cmd.NewRedisClient(config)
		defer client.Close()

		Expect(client.Options().Addr).To(Equal("127.0.0.1:6379"))
	})
})
