package api

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer - HTTP сервер, у которого Shutdown отменяет контексты всех запросов.
// Без этого открытые потоки событий держат Shutdown до таймаута.
func NewServer(addr string, handler http.Handler) *http.Server {
	base, stop := context.WithCancel(context.Background())

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}
	server.RegisterOnShutdown(stop)

	return server
}
