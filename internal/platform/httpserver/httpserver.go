// Package httpserver builds the service's HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project. The API
// only enqueues and reads, so request handling is expected to be quick.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
