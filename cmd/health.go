package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"

	proxyproto "github.com/pires/go-proxyproto"
)

// HealthCheckClient returns an HTTP client for checking the health of a
// server started with config. If the server expects the PROXY protocol, each
// connection begins with a LOCAL header.
func HealthCheckClient(config *Config) *http.Client {
	transport := &http.Transport{DisableKeepAlives: true}

	if config.ProxyProtocol {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			var dialer net.Dialer
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			header := proxyproto.Header{
				Command: proxyproto.LOCAL,
				Version: 2,
			}
			if _, err := header.WriteTo(conn); err != nil {
				conn.Close()
				return nil, err
			}

			return conn, nil
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.CheckTimeout,
	}
}

// CheckHealth sends a HEAD request for "/" to the server listening on
// address. Any HTTP response means the server is healthy, as the status only
// reflects the document root or a back-end.
func CheckHealth(client *http.Client, address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	response, err := client.Head("http://" + net.JoinHostPort(host, port) + "/")
	if err != nil {
		return fmt.Errorf("devprox is not responding: %w", err)
	}
	response.Body.Close()

	return nil
}
