package proxy

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewTransport returns the transport used for http and https back-ends.
//
// responseHeaderTimeout limits how long to wait for the back-end to start
// responding. Zero means no limit.
func NewTransport(responseHeaderTimeout time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Back-ends are always contacted directly, never through HTTP_PROXY.
	transport.Proxy = nil
	transport.ResponseHeaderTimeout = responseHeaderTimeout

	return transport
}

// NewH2CTransport returns the transport used for h2c back-ends, which speak
// HTTP/2 without TLS.
func NewH2CTransport() *http2.Transport {
	return &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(
			ctx context.Context,
			network, addr string,
			_ *tls.Config,
		) (net.Conn, error) {
			var dialer net.Dialer
			return dialer.DialContext(ctx, network, addr)
		},
	}
}
