package statuspage

import (
	"errors"
	"net/http"
)

// Error is a failure that is reported to the client as a status page.
//
// Inner is never shown to the client; it is only available for logging.
type Error struct {
	Inner      error
	StatusCode int

	// Message is shown on the page. If it is empty the default message for
	// StatusCode is used.
	Message string
}

func (err Error) Error() string {
	if err.Inner == nil {
		return http.StatusText(err.StatusCode)
	}

	return err.Inner.Error()
}

// Unwrap returns the inner error.
func (err Error) Unwrap() error {
	return err.Inner
}

// FromError returns the Error in err's chain. Any other error, or an Error
// without a valid status, becomes an internal server error.
func FromError(err error) Error {
	var e Error
	if !errors.As(err, &e) {
		return Error{Inner: err, StatusCode: http.StatusInternalServerError}
	}

	if e.StatusCode < 400 || e.StatusCode > 599 {
		e.StatusCode = http.StatusInternalServerError
	}

	return e
}

// page is the data available to status page templates.
type page struct {
	Code    int
	Text    string
	Message string
}

func (err Error) page() page {
	message := err.Message
	if message == "" {
		message = StatusMessage(err.StatusCode)
	}

	return page{
		Code:    err.StatusCode,
		Text:    http.StatusText(err.StatusCode),
		Message: message,
	}
}
