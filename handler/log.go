package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

func logRequest(req *http.Request, requestID string, status int, latency time.Duration) {
	entry := log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"remote_addr": req.RemoteAddr,
		"method":      req.Method,
		"path":        req.URL.Path,
		"status_code": status,
		"latency_ms":  float64(latency.Nanoseconds()) / 1000000,
	})
	if status >= http.StatusInternalServerError {
		entry.Warn("Request completed with server error")
		return
	}
	entry.Info("Request completed")
}
