package statuspage

import "net/http"

// StatusMessage returns the default message shown for statusCode.
func StatusMessage(statusCode int) string {
	switch statusCode {
	case http.StatusForbidden:
		return "The requested path is outside of the document root."
	case http.StatusNotFound:
		return "There is no file at the requested path."
	case http.StatusInternalServerError:
		return "The requested file could not be read."
	case http.StatusBadGateway:
		return "The back-end server for this path could not be contacted, is it running?"
	}

	return "Something went wrong!"
}
