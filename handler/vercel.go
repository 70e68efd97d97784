package handler

import (
	"net/http"
	"sync"

	"gemini-relay/config"
	"gemini-relay/logging"
	"gemini-relay/relay"
)

var (
	defaultHandler http.Handler
	defaultErr     error
	defaultOnce    sync.Once
)

// Handler is the entry point for hosts that invoke a plain http.HandlerFunc,
// such as Vercel's Go runtime. Configuration comes from the environment.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultOnce.Do(func() {
		if _, err := config.LoadConfig(""); err != nil {
			defaultErr = err
			return
		}
		cfg := config.GetConfig()
		logging.InitLogger(logging.ParseLevel(cfg.LogLevel))
		logging.SetFormat(cfg.LogFormat)
		defaultHandler = NewHTTPHandler(relay.FromConfig(cfg), cfg.MaxBodyBytes)
	})

	if defaultErr != nil {
		log.WithError(defaultErr).Error("Relay is not configured")
		writeResponse(w, relay.ErrorResponse(http.StatusInternalServerError, "Server misconfigured."))
		return
	}
	defaultHandler.ServeHTTP(w, r)
}
