package proxy

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
)

// ResponseWriter wraps an http.ResponseWriter, recording the status code and
// the number of body bytes written.
type ResponseWriter struct {
	Inner      http.ResponseWriter
	StatusCode int
	Size       int64
	OnRespond  func()
}

// Header forwards to writer.Inner.Header()
func (writer *ResponseWriter) Header() http.Header {
	return writer.Inner.Header()
}

// Write forwards to writer.Inner.Write()
func (writer *ResponseWriter) Write(data []byte) (int, error) {
	if writer.StatusCode == 0 {
		writer.WriteHeader(http.StatusOK)
	}

	size, err := writer.Inner.Write(data)
	writer.Size += int64(size)

	return size, err
}

// ReadFrom copies from src to the inner writer, using its io.ReaderFrom
// implementation if it has one.
func (writer *ResponseWriter) ReadFrom(src io.Reader) (int64, error) {
	if writer.StatusCode == 0 {
		writer.WriteHeader(http.StatusOK)
	}

	var (
		size int64
		err  error
	)

	if rf, ok := writer.Inner.(io.ReaderFrom); ok {
		size, err = rf.ReadFrom(src)
	} else {
		size, err = io.Copy(writer.Inner, src)
	}

	writer.Size += size

	return size, err
}

// WriteHeader forwards to writer.Inner.WriteHeader()
//
// Informational (1xx) responses are forwarded but are not recorded as the
// status of the response.
func (writer *ResponseWriter) WriteHeader(statusCode int) {
	if statusCode >= 200 || statusCode == http.StatusSwitchingProtocols {
		if writer.StatusCode != 0 {
			return
		}

		writer.StatusCode = statusCode
		if writer.OnRespond != nil {
			writer.OnRespond()
		}
	}

	writer.Inner.WriteHeader(statusCode)
}

// Flush forwards to writer.Inner.Flush() if it implements http.Flusher,
// otherwise it does nothing.
func (writer *ResponseWriter) Flush() {
	if writer.StatusCode == 0 {
		writer.WriteHeader(http.StatusOK)
	}

	flusher, ok := writer.Inner.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

// Hijack forwards to writer.Inner.Hijack() if it implements http.Hijacker,
// otherwise it returns an error. A hijacked response is recorded as a
// protocol switch.
func (writer *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := writer.Inner.(http.Hijacker)
	if ok {
		conn, rw, err := hijacker.Hijack()
		if err == nil && writer.StatusCode == 0 {
			writer.StatusCode = http.StatusSwitchingProtocols
			if writer.OnRespond != nil {
				writer.OnRespond()
			}
		}

		return conn, rw, err
	}

	return nil, nil, errors.New("the wrapped response does not implement http.Hijacker")
}

// Unwrap returns the inner writer, for use by http.ResponseController.
func (writer *ResponseWriter) Unwrap() http.ResponseWriter {
	return writer.Inner
}
