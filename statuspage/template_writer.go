package statuspage

import (
	"bytes"
	_ "embed"
	htmlTemplate "html/template"
	"net/http"
	textTemplate "text/template"

	"github.com/golang/gddo/httputil/header"
)

// TemplateWriter writes status pages in HTML or plain-text format, depending
// on what the client accepts.
//
// The templates receive the status code as .Code, its status text as .Text
// and the page message as .Message.
type TemplateWriter struct {
	HTMLTemplate *htmlTemplate.Template
	TextTemplate *textTemplate.Template
}

// WriteError writes the status page for err in response to request.
func (wr *TemplateWriter) WriteError(
	writer http.ResponseWriter,
	request *http.Request,
	err error,
) (int, int64, error) {
	statusErr := FromError(err)
	body, contentType := wr.render(request, statusErr.page())

	writer.Header().Set("Content-Type", contentType)
	writer.Header().Set("X-Content-Type-Options", "nosniff")
	writer.WriteHeader(statusErr.StatusCode)

	size, writeErr := body.WriteTo(writer)

	return statusErr.StatusCode, size, writeErr
}

// render produces the page body, falling back to plain text if the client
// does not prefer HTML or the HTML template fails.
func (wr *TemplateWriter) render(request *http.Request, p page) (*bytes.Buffer, string) {
	var buf bytes.Buffer

	if useHTML(request) {
		tmpl := wr.HTMLTemplate
		if tmpl == nil {
			tmpl = defaultHTMLTemplate
		}

		if err := tmpl.Execute(&buf, p); err == nil {
			return &buf, "text/html; charset=utf-8"
		}

		buf.Reset()
	}

	tmpl := wr.TextTemplate
	if tmpl == nil {
		tmpl = defaultTextTemplate
	}

	if err := tmpl.Execute(&buf, p); err != nil {
		buf.Reset()
		defaultTextTemplate.Execute(&buf, p)
	}

	return &buf, "text/plain; charset=utf-8"
}

var (
	//go:embed status-page.html
	statusPageHTML string

	//go:embed status-page.txt
	statusPageText string

	defaultHTMLTemplate = htmlTemplate.Must(
		htmlTemplate.New("status-page").Parse(statusPageHTML),
	)
	defaultTextTemplate = textTemplate.Must(
		textTemplate.New("status-page").Parse(statusPageText),
	)
)

// useHTML returns true if the client prefers HTML over plain text. Clients
// that accept anything, such as curl, get plain text.
func useHTML(request *http.Request) bool {
	htmlQ := -1.0
	textQ := 0.0

	for _, spec := range header.ParseAccept(request.Header, "Accept") {
		switch spec.Value {
		case "text/html", "application/xhtml+xml":
			if spec.Q > htmlQ {
				htmlQ = spec.Q
			}
		case "text/plain", "*/*":
			if spec.Q > textQ {
				textQ = spec.Q
			}
		}
	}

	return htmlQ > textQ
}
