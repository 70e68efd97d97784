package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"gemini-relay/relay"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// HTTPHandler serves the relay over net/http.
type HTTPHandler struct {
	Relay        *relay.Relay
	MaxBodyBytes int64
}

// NewHTTPHandler creates a new instance of HTTPHandler
func NewHTTPHandler(r *relay.Relay, maxBodyBytes int64) *HTTPHandler {
	return &HTTPHandler{
		Relay:        r,
		MaxBodyBytes: maxBodyBytes,
	}
}

// ServeHTTP implements the http.Handler interface for HTTPHandler.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	w.Header().Set(requestIDHeader, requestID)

	var resp *relay.Response
	body, err := h.readBody(w, r)
	if err != nil {
		log.WithField("request_id", requestID).WithError(err).Warn("Failed to read request body")
		resp = relay.ErrorResponse(http.StatusBadRequest, err.Error())
	} else {
		resp = h.Relay.Handle(r.Context(), &relay.Request{
			Method:    r.Method,
			Body:      body,
			RequestID: requestID,
		})
	}

	writeResponse(w, resp)
	logRequest(r, requestID, resp.StatusCode, time.Since(start))
}

// readBody only consumes bodies the relay will look at.
func (h *HTTPHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Method != http.MethodPost || r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("request body too large")
		}
		return nil, errors.New("unable to read request body")
	}
	return body, nil
}

func writeResponse(w http.ResponseWriter, resp *relay.Response) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		log.WithError(err).Debug("Failed to write response body")
	}
}
