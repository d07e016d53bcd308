package proxy_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/AmateurECE/dev-proxy/proxy"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ = Describe("LogContext", func() {
	var (
		hook    *test.Hook
		subject *proxy.LogContext
	)

	BeforeEach(func() {
		var logger *logrus.Logger
		logger, hook = test.NewNullLogger()

		subject = &proxy.LogContext{
			Logger:      logger,
			Event:       proxy.EventProxy,
			StatusCode:  http.StatusOK,
			Target:      "http://localhost:3000/api/users",
			Description: "api",
			Request:     httptest.NewRequest("GET", "/api/users?id=1", nil),
		}
		subject.Metrics.TimeToFirstByte = 1.5
		subject.Metrics.TimeToLastByte = 1234.567
		subject.Metrics.BytesOut = 12345
	})

	Describe("Log", func() {
		It("writes the fields in order", func() {
			subject.Log(nil)

			Expect(hook.Entries).To(HaveLen(1))
			Expect(hook.LastEntry().Level).To(Equal(logrus.InfoLevel))
			Expect(hook.LastEntry().Message).To(Equal(
				`PROXY 192.0.2.1:1234 example.com http://localhost:3000/api/users api ` +
					`"GET /api/users?id=1 HTTP/1.1" 200 f/1.50ms l/1,234.57ms i/0 o/12,345`,
			))
		})

		It("uses hyphens for unknown fields", func() {
			subject.Event = proxy.EventRejected
			subject.StatusCode = 0
			subject.Target = ""
			subject.Description = ""
			subject.Metrics = proxy.Metrics{}

			subject.Log(nil)

			Expect(hook.LastEntry().Message).To(Equal(
				`ERROR 192.0.2.1:1234 example.com - - "GET /api/users?id=1 HTTP/1.1" - - - - -`,
			))
		})

		It("quotes fields that contain spaces", func() {
			subject.Description = "user service"
			subject.Log(nil)

			Expect(hook.LastEntry().Message).To(ContainSubstring(` "user service" `))
		})

		It("logs client errors as warnings", func() {
			err := errors.New("<error>")
			subject.StatusCode = http.StatusNotFound
			subject.Log(err)

			Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
			Expect(hook.LastEntry().Data[logrus.ErrorKey]).To(Equal(err))
		})

		It("logs server errors as errors", func() {
			err := errors.New("<error>")
			subject.StatusCode = http.StatusBadGateway
			subject.Log(err)

			Expect(hook.LastEntry().Level).To(Equal(logrus.ErrorLevel))
			Expect(hook.LastEntry().Data[logrus.ErrorKey]).To(Equal(err))
		})

		It("does not log favicon requests that did not fail", func() {
			subject.Request = httptest.NewRequest("GET", "/favicon.ico", nil)
			subject.StatusCode = http.StatusNotFound
			subject.Log(errors.New("<error>"))

			Expect(hook.Entries).To(BeEmpty())
		})

		It("does nothing without a logger", func() {
			subject.Logger = nil
			subject.Log(nil)
		})
	})
})

var _ = Describe("Metrics", func() {
	Describe("CountRequestBody", func() {
		It("counts the bytes read from the request body", func() {
			var metrics proxy.Metrics
			request := httptest.NewRequest("POST", "/", strings.NewReader("<buffer>"))

			metrics.CountRequestBody(request)
			io.ReadAll(request.Body)

			Expect(metrics.BytesIn).To(BeEquivalentTo(8))
		})

		It("leaves an empty body alone", func() {
			var metrics proxy.Metrics
			request := httptest.NewRequest("GET", "/", nil)

			metrics.CountRequestBody(request)

			Expect(request.Body).To(Equal(http.NoBody))
		})
	})

	It("records the time to the first and last byte", func() {
		var metrics proxy.Metrics
		metrics.Start()
		Expect(metrics.IsFirstByteSent()).To(BeFalse())

		time.Sleep(time.Millisecond)
		metrics.FirstByteSent()
		metrics.LastByteSent()

		Expect(metrics.IsFirstByteSent()).To(BeTrue())
		Expect(metrics.IsLastByteSent()).To(BeTrue())
		Expect(metrics.TimeToLastByte).To(BeNumerically(">=", metrics.TimeToFirstByte))
	})
})
