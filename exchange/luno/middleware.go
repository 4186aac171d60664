package luno

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const LogComponent = "luno-http"

//
// loggingTransport decorates an http.RoundTripper with a log entry before each request is sent and
// another once it completes. It never changes the request, the response or the error.
//
type loggingTransport struct {
	next   http.RoundTripper
	logger logrus.FieldLogger
}

func newLoggingTransport(next http.RoundTripper, logger logrus.FieldLogger) *loggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}

	return &loggingTransport{
		next:   next,
		logger: logger.WithField("component", LogComponent),
	}
}

func (o *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	entry := o.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     req.Method,
	})

	entry.WithField("url", req.URL.String()).Info("sending request")

	start := time.Now()

	resp, err := o.next.RoundTrip(req)

	entry = entry.WithField("elapsed", time.Since(start))

	if err != nil {
		entry.WithError(err).Warn("request failed")

		return resp, err
	}

	entry.WithField("status", resp.StatusCode).Info("request completed")

	return resp, nil
}
