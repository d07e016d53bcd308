package proxy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
)

// ErrTransport indicates that a request could not be forwarded to the
// back-end, or that the back-end's response could not be read.
var ErrTransport = errors.New("back-end request failed")

// HTTPProxy forwards HTTP requests to back-end servers.
//
// It is safe for concurrent use. All requests share the same transport, and
// therefore the same connection pool.
type HTTPProxy struct {
	// Transport is used to make back-end requests. If it is nil,
	// http.DefaultTransport is used.
	Transport http.RoundTripper

	// ErrorLog receives errors that occur after the back-end's response has
	// started. If it is nil the standard logger is used.
	ErrorLog *log.Logger

	once         sync.Once
	reverseProxy *httputil.ReverseProxy
}

// Forward sends request to the back-end at target and streams the back-end's
// response to writer.
//
// target replaces the request URL entirely. The method, headers and body of
// request are forwarded unchanged, except for hop-by-hop headers.
//
// If the back-end can not be contacted, or does not produce a valid response,
// Forward writes nothing to writer and returns an error wrapping ErrTransport.
func (proxy *HTTPProxy) Forward(
	writer http.ResponseWriter,
	request *http.Request,
	target *url.URL,
) error {
	proxy.once.Do(proxy.init)

	state := &forwardState{target: target}
	request = request.WithContext(
		context.WithValue(request.Context(), forwardStateKey{}, state),
	)

	proxy.reverseProxy.ServeHTTP(writer, request)

	if state.err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, target.Redacted(), state.err)
	}

	return nil
}

func (proxy *HTTPProxy) init() {
	proxy.reverseProxy = &httputil.ReverseProxy{
		Rewrite:      rewrite,
		Transport:    proxy.Transport,
		ErrorLog:     proxy.ErrorLog,
		ErrorHandler: captureError,
	}
}

// forwardState carries the target of a single Forward() call into the
// reverse proxy's callbacks, and the transport error back out.
type forwardState struct {
	target *url.URL
	err    error
}

type forwardStateKey struct{}

func stateFromContext(ctx context.Context) *forwardState {
	return ctx.Value(forwardStateKey{}).(*forwardState)
}

// rewrite points the outbound request at the forward target.
func rewrite(pr *httputil.ProxyRequest) {
	state := stateFromContext(pr.In.Context())

	u := *state.target
	if strings.EqualFold(u.Scheme, "h2c") {
		u.Scheme = "http"
	}

	pr.Out.URL = &u
	pr.Out.Host = ""

	// ReverseProxy strips these before calling Rewrite.
	restoreForwardedHeaders(pr.In.Header, pr.Out.Header)
}

// captureError records a transport error instead of writing a response, so
// that the caller can produce its own error page.
func captureError(_ http.ResponseWriter, request *http.Request, err error) {
	stateFromContext(request.Context()).err = err
}
