package proxy

import (
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics stores basic measurements for a request.
type Metrics struct {
	// BytesIn is the total number of request body bytes read from the client.
	BytesIn int64

	// BytesOut is the total number of response body bytes sent to the client.
	BytesOut int64

	StartedAt       time.Time
	TimeToFirstByte float64
	TimeToLastByte  float64
}

// Start the timer.
func (metrics *Metrics) Start() {
	metrics.StartedAt = time.Now()
}

// FirstByteSent records the time offset to the first byte.
func (metrics *Metrics) FirstByteSent() {
	metrics.TimeToFirstByte = metrics.elapsed()
}

// IsFirstByteSent returns true if the first byte has been sent.
func (metrics *Metrics) IsFirstByteSent() bool {
	return metrics.TimeToFirstByte > 0
}

// LastByteSent records the time offset to the last byte.
func (metrics *Metrics) LastByteSent() {
	metrics.TimeToLastByte = metrics.elapsed()
}

// IsLastByteSent returns true if the last byte has been sent.
func (metrics *Metrics) IsLastByteSent() bool {
	return metrics.TimeToLastByte > 0
}

// CountRequestBody replaces the body of request with one that adds the
// number of bytes read to BytesIn.
//
// The body may be read by the transport on another goroutine, so BytesIn is
// only meaningful once the request is complete.
func (metrics *Metrics) CountRequestBody(request *http.Request) {
	if request.Body == nil || request.Body == http.NoBody {
		return
	}

	request.Body = &countingReader{
		ReadCloser: request.Body,
		count:      &metrics.BytesIn,
	}
}

func (metrics *Metrics) elapsed() float64 {
	duration := time.Since(metrics.StartedAt)
	return float64(duration) / float64(time.Millisecond)
}

type countingReader struct {
	io.ReadCloser
	count *int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	atomic.AddInt64(r.count, int64(n))
	return n, err
}
