package dispatch

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/AmateurECE/dev-proxy/backend"
	"github.com/AmateurECE/dev-proxy/docroot"
	"github.com/AmateurECE/dev-proxy/proxy"
)

// Kind is the way in which a request was handled.
type Kind int

const (
	// Failed means that no response was obtained for the request.
	Failed Kind = iota

	// Forwarded means that the request was sent to a back-end and the
	// back-end's response was relayed to the client.
	Forwarded

	// StaticServed means that a file from the document root was sent to the
	// client.
	StaticServed
)

func (k Kind) String() string {
	switch k {
	case Forwarded:
		return "forwarded"
	case StaticServed:
		return "static"
	default:
		return "failed"
	}
}

// Failure is the reason that a request failed.
type Failure int

const (
	// NoFailure is the failure of a request that did not fail.
	NoFailure Failure = iota

	// InvalidRoute means that the matching route's target combined with the
	// request path did not produce a usable back-end URL.
	InvalidRoute

	// TransportFailure means that the back-end could not be contacted or did
	// not produce a valid response.
	TransportFailure

	// InvalidPath means that the request path would escape the document root.
	InvalidPath

	// NotFound means that there is no file at the request path.
	NotFound

	// IOFailure means that the file at the request path could not be read.
	IOFailure
)

func (f Failure) String() string {
	switch f {
	case NoFailure:
		return "none"
	case InvalidRoute:
		return "invalid route"
	case TransportFailure:
		return "transport failure"
	case InvalidPath:
		return "invalid path"
	case NotFound:
		return "not found"
	default:
		return "i/o failure"
	}
}

// failureCodes maps errors to the failure they represent and the HTTP status
// sent to the client. Errors not listed are I/O failures.
var failureCodes = []struct {
	err     error
	failure Failure
	code    int
}{
	{backend.ErrInvalidRoute, InvalidRoute, http.StatusBadGateway},
	{proxy.ErrTransport, TransportFailure, http.StatusBadGateway},
	{docroot.ErrInvalidPath, InvalidPath, http.StatusForbidden},
	{docroot.ErrNotFound, NotFound, http.StatusNotFound},
}

// classify returns the failure that err represents.
func classify(err error) Failure {
	for _, e := range failureCodes {
		if errors.Is(err, e.err) {
			return e.failure
		}
	}

	return IOFailure
}

// Outcome is the result of dispatching a single request.
type Outcome struct {
	Kind    Kind
	Failure Failure

	// Err is the cause of the failure. It may also be set for Forwarded or
	// StaticServed outcomes if the response was interrupted after it started.
	Err error

	// Route is the route that matched the request, if any.
	Route *backend.Route

	// Target is the back-end URL the request was forwarded to, if any.
	Target *url.URL

	// File is the path of the file that was served, if any.
	File string
}

// StatusCode returns the HTTP status that is sent to the client for a failed
// outcome. It returns 0 for outcomes that did not fail, as the status was
// chosen by the back-end or the file server.
func (o Outcome) StatusCode() int {
	if o.Kind != Failed {
		return 0
	}

	for _, e := range failureCodes {
		if e.failure == o.Failure {
			return e.code
		}
	}

	return http.StatusInternalServerError
}

func failed(err error, route *backend.Route) Outcome {
	return Outcome{
		Kind:    Failed,
		Failure: classify(err),
		Err:     err,
		Route:   route,
	}
}
