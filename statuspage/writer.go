package statuspage

import "net/http"

// DefaultWriter is the status page writer that is used if no other is specified.
var DefaultWriter Writer = &TemplateWriter{}

// Writer renders the response for a request that failed before any response
// was started.
type Writer interface {
	// WriteError writes the status page for err, as interpreted by
	// FromError, in response to request.
	WriteError(
		writer http.ResponseWriter,
		request *http.Request,
		err error,
	) (statusCode int, bodySize int64, writeErr error)
}
