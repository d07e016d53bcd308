// Package dispatch decides, for each request, whether it is forwarded to a
// back-end or answered from the document root.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AmateurECE/dev-proxy/backend"
	"github.com/AmateurECE/dev-proxy/docroot"
	"github.com/AmateurECE/dev-proxy/proxy"
	"github.com/AmateurECE/dev-proxy/statuspage"
	"github.com/sirupsen/logrus"
)

// Forwarder sends a request to a back-end and relays its response.
type Forwarder interface {
	// Forward sends request to target and writes the response to writer. If
	// it fails before anything is written it returns an error wrapping
	// proxy.ErrTransport.
	Forward(writer http.ResponseWriter, request *http.Request, target *url.URL) error
}

// Resolver opens files beneath the document root.
type Resolver interface {
	Resolve(ctx context.Context, requestPath string) (*docroot.File, error)
}

// Service is an http.Handler that forwards requests that match a route and
// serves all other requests from the document root.
//
// A Service holds no per-request state and is safe for concurrent use.
type Service struct {
	Routes backend.Locator
	Files  Resolver

	// HTTPProxy forwards requests to http and https back-ends.
	HTTPProxy Forwarder

	// H2CProxy forwards requests to h2c back-ends. If it is nil, routes with
	// an h2c target are invalid.
	H2CProxy Forwarder

	StatusPageWriter statuspage.Writer
	Logger           logrus.FieldLogger
}

// ServeHTTP handles a request and writes an access log entry for it.
//
// It always produces a response. If the request fails before a response has
// started, a status page is sent.
func (svc *Service) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	logContext := &proxy.LogContext{Logger: svc.Logger, Request: request}
	logContext.Metrics.Start()

	request = request.WithContext(request.Context())
	logContext.Metrics.CountRequestBody(request)

	w := &proxy.ResponseWriter{
		Inner:     writer,
		OnRespond: logContext.Metrics.FirstByteSent,
	}

	defer func() {
		if p := recover(); p != nil {
			logContext.Event = proxy.EventProxy
			logContext.StatusCode = w.StatusCode
			logContext.Log(fmt.Errorf("response aborted: %v", p))
			panic(p)
		}
	}()

	outcome := svc.Dispatch(w, request)

	if outcome.Kind == Failed && w.StatusCode == 0 {
		svc.writeFailure(w, request, outcome)
	}

	logContext.Metrics.LastByteSent()
	logContext.Metrics.BytesOut = w.Size
	logContext.StatusCode = w.StatusCode

	switch outcome.Kind {
	case Forwarded:
		logContext.Event = proxy.EventProxy
		if w.StatusCode == http.StatusSwitchingProtocols && proxy.IsUpgrade(request.Header) {
			logContext.Event = proxy.EventUpgrade
		}
	case StaticServed:
		logContext.Event = proxy.EventStatic
	default:
		logContext.Event = proxy.EventRejected
	}

	if outcome.Route != nil {
		logContext.Description = outcome.Route.Endpoint.Description
	}

	if outcome.Target != nil {
		logContext.Target = outcome.Target.Redacted()
	} else if outcome.File != "" {
		logContext.Target = outcome.File
	}

	logContext.Log(outcome.Err)
}

// Dispatch handles a request without rendering failures or logging.
//
// Requests whose path matches a route are forwarded to the route's back-end.
// All other requests are resolved against the document root.
//
// A Failed outcome usually means that nothing has been written to writer. The
// exception is a protocol upgrade that fails after the back-end's 101 response
// was relayed, so callers must check whether a response was started before
// rendering the failure.
func (svc *Service) Dispatch(writer http.ResponseWriter, request *http.Request) Outcome {
	path := request.URL.EscapedPath()

	if route := svc.Routes.Lookup(path); route != nil {
		return svc.forward(writer, request, route, path)
	}

	return svc.serveFile(writer, request)
}

func (svc *Service) forward(
	writer http.ResponseWriter,
	request *http.Request,
	route *backend.Route,
	path string,
) Outcome {
	target, err := backend.Rewrite(route, path)
	if err != nil {
		return failed(err, route)
	}

	target.RawQuery = joinQuery(target.RawQuery, request.URL.RawQuery)

	forwarder := svc.HTTPProxy
	if route.Endpoint.IsH2C() {
		if svc.H2CProxy == nil {
			return failed(
				fmt.Errorf("%w: h2c targets are not enabled", backend.ErrInvalidRoute),
				route,
			)
		}
		forwarder = svc.H2CProxy
	}

	outcome := Outcome{Kind: Forwarded, Route: route, Target: target}

	if err := forwarder.Forward(writer, request, target); err != nil {
		outcome = failed(err, route)
		outcome.Target = target
	}

	return outcome
}

func (svc *Service) serveFile(writer http.ResponseWriter, request *http.Request) Outcome {
	file, err := svc.Files.Resolve(request.Context(), request.URL.Path)
	if err != nil {
		return failed(err, nil)
	}
	defer file.Close()

	header := writer.Header()
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	} else {
		// Present but nil, so that net/http does not sniff a type.
		header["Content-Type"] = nil
	}
	header.Set("Content-Length", strconv.FormatInt(file.Size, 10))
	header.Set("Last-Modified", file.ModTime.UTC().Format(http.TimeFormat))

	writer.WriteHeader(http.StatusOK)

	outcome := Outcome{Kind: StaticServed, File: file.Path}

	if request.Method != http.MethodHead {
		if _, err := io.CopyN(writer, file, file.Size); err != nil {
			outcome.Err = err
		}
	}

	return outcome
}

func (svc *Service) writeFailure(
	writer http.ResponseWriter,
	request *http.Request,
	outcome Outcome,
) {
	code := outcome.StatusCode()

	if outcome.Failure == NotFound {
		writer.Header().Set("Content-Length", "0")
		writer.WriteHeader(code)
		return
	}

	statusErr := statuspage.Error{
		Inner:      outcome.Err,
		StatusCode: code,
	}

	switch {
	case outcome.Failure == InvalidRoute:
		statusErr.Message = "The route for this path does not produce a valid back-end URL, check its target in the route configuration."
	case outcome.Failure == TransportFailure && outcome.Target != nil:
		statusErr.Message = fmt.Sprintf(
			"The back-end server at %s could not be contacted, is it running?",
			outcome.Target.Host,
		)
	}

	statusWriter := svc.StatusPageWriter
	if statusWriter == nil {
		statusWriter = statuspage.DefaultWriter
	}

	if _, _, err := statusWriter.WriteError(writer, request, statusErr); err != nil {
		if svc.Logger != nil && !errors.Is(err, context.Canceled) {
			svc.Logger.WithError(err).Debug("could not write status page")
		}
	}
}

// joinQuery combines the query of a route target with the query of the
// inbound request.
func joinQuery(target, inbound string) string {
	if target == "" || inbound == "" {
		return target + inbound
	}

	return target + "&" + inbound
}
