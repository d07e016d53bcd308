package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AmateurECE/dev-proxy/cmd"
	"github.com/AmateurECE/dev-proxy/dispatch"
	"github.com/AmateurECE/dev-proxy/docroot"
	"github.com/AmateurECE/dev-proxy/frontend"
	"github.com/AmateurECE/dev-proxy/proxy"
	"github.com/AmateurECE/dev-proxy/statuspage"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	config, err := cmd.Load(os.Environ())
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := cmd.NewLogger(config, os.Stdout)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var routeSource redis.Cmdable
	if client := cmd.NewRedisClient(config); client != nil {
		defer client.Close()
		routeSource = client
	}

	routes, err := cmd.RouteTable(ctx, config, routeSource)
	if err != nil {
		logger.Fatalln(err)
	}

	for _, route := range routes {
		logger.WithFields(logrus.Fields{
			"prefix": route.Matcher.Prefix,
			"target": route.Endpoint.Target,
		}).Infof("route %s", route.Endpoint.Description)
	}

	logger.WithField("root", config.DocumentRoot).Info("serving static files")

	proxyLog := logger.WriterLevel(logrus.WarnLevel)
	defer proxyLog.Close()

	service := &dispatch.Service{
		Routes: routes,
		Files: &docroot.Resolver{
			Root:         config.DocumentRoot,
			ContentTypes: config.ContentTypes,
		},
		HTTPProxy: &proxy.HTTPProxy{
			Transport: proxy.NewTransport(config.BackendTimeout),
			ErrorLog:  log.New(proxyLog, "proxy: ", 0),
		},
		H2CProxy: &proxy.HTTPProxy{
			Transport: proxy.NewH2CTransport(),
			ErrorLog:  log.New(proxyLog, "proxy: ", 0),
		},
		StatusPageWriter: &statuspage.TemplateWriter{},
		Logger:           logger,
	}

	server := &frontend.Server{
		BindAddress:     config.ListenAddress,
		Handler:         service,
		ProxyProtocol:   config.ProxyProtocol,
		ShutdownTimeout: config.ShutdownTimeout,
		Logger:          logger,
	}

	if err := server.Run(ctx); err != nil {
		logger.Fatalln(err)
	}
}
