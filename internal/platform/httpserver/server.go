package httpserver

import (
	"net/http"
	"time"
)

// New builds the engine's HTTP server. The write timeout leaves headroom for
// the LLM extraction tier, which can hold a process request for several
// seconds before the cascade falls through to the offline strategies.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
