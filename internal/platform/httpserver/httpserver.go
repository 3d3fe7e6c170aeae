package httpserver

import (
	"net/http"
	"time"

	"missionsuivi/internal/platform/config"
)

// New builds the HTTP server. The write timeout leaves room for the longest
// report export plus the time to stream the workbook.
func New(cfg config.Server, handler http.Handler) *http.Server {
	write := cfg.ReportTimeout + 15*time.Second
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      write,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}
