package handler

import (
	"net/http"

	"github.com/rs/cors"
)

// NetlifyFunctionPath is where the browser client posts prompts when the
// relay is deployed as a Netlify function.
const NetlifyFunctionPath = "/.netlify/functions/callGemini"

// Routes mounts h at the root and at the Netlify function path so a frontend
// written for the hosted function also works against the local server.
// CORS handling is added only when allowedOrigins is non-empty.
func Routes(h http.Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(NetlifyFunctionPath, h)
	mux.Handle("/", h)

	if len(allowedOrigins) == 0 {
		return mux
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(mux)
}
