package proxy

import (
	"net/http"
	"strings"

	"github.com/golang/gddo/httputil/header"
)

// forwardedHeaders are the headers that describe the original client. They
// are passed to the back-end exactly as the client sent them.
var forwardedHeaders = []string{
	"Forwarded",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
}

// restoreForwardedHeaders copies the client's forwarded headers from in to out.
func restoreForwardedHeaders(in, out http.Header) {
	for _, name := range forwardedHeaders {
		if values, ok := in[name]; ok {
			out[name] = append([]string(nil), values...)
		}
	}
}

// IsUpgrade checks whether the given HTTP headers indicate a protocol upgrade
// request or response, such as a websocket handshake.
func IsUpgrade(headers http.Header) bool {
	for _, value := range header.ParseList(headers, "Connection") {
		if strings.EqualFold(value, "upgrade") {
			return headers.Get("Upgrade") != ""
		}
	}

	return false
}
