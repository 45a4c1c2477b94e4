package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes serves the metrics endpoint, the event feed and a liveness probe.
func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	auth := TokenAuth(s.cfg.Token, s.logger)

	mux := http.NewServeMux()
	if gatherer != nil {
		mux.Handle("GET /metrics", auth(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	mux.Handle("GET /events", auth(s.feed))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
