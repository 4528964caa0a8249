package serve

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"blobtrack/track"
	"blobtrack/video/sink"
)

// Server assembles the debug endpoints. The run history endpoint is only
// mounted when a store is configured.
type Server struct {
	MJPEG *sink.MJPEGServer
	Store *track.Store
}

// Handler returns the debug surface with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mjpeg", s.MJPEG)
	mux.Handle("/metrics", promhttp.Handler())
	if s.Store != nil {
		mux.Handle("/runs", &RunsServer{Store: s.Store})
	}
	return handlers.LoggingHandler(log.StandardLogger().Writer(), mux)
}
