package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"missionsuivi/internal/platform/config"
)

func TestNewWriteTimeoutCoversReports(t *testing.T) {
	srv := New(config.Server{Addr: ":9090", ReportTimeout: 30 * time.Second}, http.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, 30*time.Second)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}
