// Package frontend accepts connections from HTTP clients.
package frontend

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Server listens for plain HTTP connections from clients, usually a web
// browser on the developer's machine.
type Server struct {
	BindAddress string
	Handler     http.Handler

	// ProxyProtocol enables the PROXY protocol (v1 or v2) on accepted
	// connections, so that the client address reported by a TCP load
	// balancer or tunnel is used as the request's remote address.
	ProxyProtocol bool

	// ShutdownTimeout is how long in-flight requests are given to complete
	// once the server is stopped. Zero means no limit.
	ShutdownTimeout time.Duration

	Logger *logrus.Logger
}

// Listen opens the server's listener.
func (svr *Server) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", svr.BindAddress)
	if err != nil {
		return nil, err
	}

	if svr.ProxyProtocol {
		listener = &proxyproto.Listener{Listener: listener}
	}

	return listener, nil
}

// Run listens on BindAddress and serves requests until ctx is cancelled.
func (svr *Server) Run(ctx context.Context) error {
	listener, err := svr.Listen()
	if err != nil {
		return err
	}

	return svr.Serve(ctx, listener)
}

// Serve serves requests on listener until ctx is cancelled, then shuts down
// gracefully. It returns nil if the server was stopped by ctx.
func (svr *Server) Serve(ctx context.Context, listener net.Listener) error {
	errorLog := svr.Logger.WriterLevel(logrus.WarnLevel)
	defer errorLog.Close()

	server := &http.Server{
		Handler:  svr.Handler,
		ErrorLog: log.New(errorLog, "", 0),
	}

	result := make(chan error, 1)
	go func() {
		result <- server.Serve(listener)
	}()

	svr.Logger.WithField("address", listener.Addr().String()).Info("listening")

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
	}

	svr.Logger.Info("shutting down")

	shutdownCtx := context.Background()
	if svr.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, svr.ShutdownTimeout)
		defer cancel()
	}

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		err = multierr.Append(err, server.Close())
	}

	if e := <-result; !errors.Is(e, http.ErrServerClosed) {
		err = multierr.Append(err, e)
	}

	return err
}
