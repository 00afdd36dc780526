package gatewayhttp

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/sir_venger/chunkgate/internal/config"
	"github.com/sir_venger/chunkgate/internal/metrics"
	"github.com/sir_venger/chunkgate/internal/usecase/objectsvc"
	"github.com/sir_venger/chunkgate/pkg/blobclient"
	"github.com/sir_venger/chunkgate/pkg/shareclient"
)

type Server struct {
	Objects  objectsvc.Service
	Cfg      *config.Config
	Metrics  *metrics.Metrics
	allowAll bool
}

type addGatewaysRequest struct {
	Gateways []string `json:"gateways"`
}

type adminConfigResp struct {
	*config.Config
	ActiveGateways []string `json:"active_gateways"`
}

// NewServer конструктор
func NewServer(cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (http.Handler, *Server, error) {
	m := metrics.New(reg)
	objects, err := buildObjectService(cfg, m)
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		Objects:  objects,
		Cfg:      cfg,
		Metrics:  m,
		allowAll: slices.Contains(cfg.CORSOrigins, "*"),
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedHeaders: []string{"Range"},
		ExposedHeaders: exposedHeaders,
		MaxAge:         600,
	})

	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(requestLogger(log))
	rtr.Use(middleware.Recoverer)
	rtr.Use(c.Handler)

	rtr.Get("/", srv.getObject)
	rtr.Head("/", srv.getObject)
	rtr.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rtr.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	rtr.Get("/admin/config", srv.adminConfig)
	rtr.Post("/admin/gateways", srv.addGateways)

	return rtr, srv, nil
}

func buildObjectService(cfg *config.Config, m *metrics.Metrics) (*objectsvc.Objects, error) {
	sizes, err := objectsvc.NewSizeCache(cfg.SizeCacheEntries, cfg.UpstreamTimeout)
	if err != nil {
		return nil, err
	}

	blobs := blobclient.New(
		blobclient.WithObserver(m),
		blobclient.WithHeaderTimeout(cfg.UpstreamTimeout),
	)
	shares := shareclient.New(cfg.MetadataURL, &http.Client{Timeout: cfg.UpstreamTimeout})

	return objectsvc.New(objectsvc.Deps{
		Shares:             shares,
		Blobs:              blobs,
		Router:             objectsvc.NewRouter(cfg.BlobGateways...),
		Sizes:              sizes,
		Recorder:           m,
		ResolveConcurrency: cfg.ResolveConcurrency,
		Prefetch:           cfg.Prefetch,
	}), nil
}

func (s *Server) adminConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adminConfigResp{
		Config:         s.Cfg,
		ActiveGateways: s.Objects.Gateways(),
	})
}

func (s *Server) addGateways(w http.ResponseWriter, r *http.Request) {
	var payload addGatewaysRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(payload.Gateways) == 0 {
		http.Error(w, "gateways list is empty", http.StatusBadRequest)
		return
	}

	s.Objects.AddGateways(payload.Gateways...)
	w.WriteHeader(http.StatusNoContent)
}
