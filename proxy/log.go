package proxy

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	humanize "github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Event types that appear as the first field of an access log entry.
const (
	EventProxy    = "PROXY"
	EventUpgrade  = "UPGRADE"
	EventStatic   = "STATIC"
	EventRejected = "ERROR"
)

// LogContext holds information about an HTTP request/response transaction used
// for logging.
type LogContext struct {
	Logger      logrus.FieldLogger
	Event       string
	StatusCode  int
	Target      string
	Description string
	Metrics     Metrics
	Request     *http.Request

	buffer bytes.Buffer
}

// Log writes an access log entry for the context to the logger.
//
// The log format consists of the following space separated fields:
//
// - event type
// - remote address
// - frontend host
// - target (back-end URL or file path)
// - route description
// - request information (method, URI and protocol)
// - http status code
// - time to first byte
// - time to last byte
// - bytes inbound
// - bytes outbound
//
// The event types are:
// - "PROXY" - request forwarded to a back-end
// - "UPGRADE" - request forwarded to a back-end that switched protocols
// - "STATIC" - file served from the document root
// - "ERROR" - no response was obtained, an error page was sent instead
//
// All fields are always present. If a field value is unknown or not
// applicable, a hyphen is used in place. If a field value contains spaces or
// other special characters it is rendered as a double-quoted Go string. This
// allows log output to be parsed programatically.
//
// If err is non-nil it is attached to the entry, which is logged as a warning
// for 4xx responses and as an error otherwise.
func (ctx *LogContext) Log(err error) {
	if ctx.Logger == nil || ctx.isMuted() {
		return
	}

	ctx.write(ctx.Event)
	ctx.write(ctx.Request.RemoteAddr)
	ctx.write(ctx.Request.Host)
	ctx.write(ctx.Target)
	ctx.write(ctx.Description)

	// request information
	ctx.write(
		"%s %s %s",
		ctx.Request.Method,
		ctx.Request.URL.RequestURI(),
		ctx.Request.Proto,
	)

	// status code
	if ctx.StatusCode == 0 {
		ctx.write("")
	} else {
		ctx.write("%d", ctx.StatusCode)
	}

	// time to first byte
	if ctx.Metrics.IsFirstByteSent() {
		ctx.write(
			"f/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToFirstByte),
		)
	} else {
		ctx.write("")
	}

	// time to last byte
	if ctx.Metrics.IsLastByteSent() {
		ctx.write(
			"l/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToLastByte),
		)

		// bytes in
		ctx.write(
			"i/%s",
			humanize.FormatFloat("#,###.", float64(atomic.LoadInt64(&ctx.Metrics.BytesIn))),
		)

		// bytes out
		ctx.write(
			"o/%s",
			humanize.FormatFloat("#,###.", float64(ctx.Metrics.BytesOut)),
		)
	} else {
		ctx.write("")
		ctx.write("")
		ctx.write("")
	}

	line := ctx.buffer.String()
	ctx.buffer.Reset()

	switch {
	case err == nil:
		ctx.Logger.Info(line)
	case 400 <= ctx.StatusCode && ctx.StatusCode < 500:
		ctx.Logger.WithError(err).Warn(line)
	default:
		ctx.Logger.WithError(err).Error(line)
	}
}

// write is a helper function that writes to a string to a buffer, quoting the
// string if it contains whitespace or special characters.
func (ctx *LogContext) write(str string, v ...interface{}) {
	if ctx.buffer.Len() != 0 {
		ctx.buffer.WriteRune(' ')
	}

	if len(v) != 0 {
		str = fmt.Sprintf(str, v...)
	}

	if str == "" {
		ctx.buffer.WriteRune('-')
		return
	}

	if strings.ContainsAny(str, " \a\b\f\n\r\t\v\"") {
		ctx.buffer.WriteString(strconv.Quote(str))
	} else {
		ctx.buffer.WriteString(str)
	}
}

// isMuted returns true for successful or missing favicon requests, which
// browsers make on every page load.
func (ctx *LogContext) isMuted() bool {
	if ctx.Request.URL.Path != "/favicon.ico" {
		return false
	}

	return 200 <= ctx.StatusCode && ctx.StatusCode < 500
}
