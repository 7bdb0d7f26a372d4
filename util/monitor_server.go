package util

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MonitorServer struct {
	running    *sync.Mutex // held from Start until the listener returns
	srv        *http.Server
	srvMu      sync.RWMutex // protects srv and addr
	addr       string
	fromConfig bool // re-read details_port on Restart
	router     chi.Router
}

// NewMonitorServer listens on details_port.
func NewMonitorServer() *MonitorServer {
	s := NewMonitorServerAt(configAddr())
	s.fromConfig = true
	return s
}

// NewMonitorServerAt listens on a fixed address.
func NewMonitorServerAt(addr string) *MonitorServer {
	s := &MonitorServer{
		running: &sync.Mutex{},
		srv:     &http.Server{},
		addr:    addr,
		router:  chi.NewRouter(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	return s
}

func configAddr() string {
	return fmt.Sprintf(":%d", Config.GetInt("details_port"))
}

func (s *MonitorServer) Start() error {
	if !s.running.TryLock() {
		return fmt.Errorf("already running")
	}

	s.srvMu.Lock()
	newSrv := &http.Server{Addr: s.addr, Handler: s.router}
	s.srv = newSrv
	s.srvMu.Unlock()

	go func() {
		defer s.running.Unlock()
		if err := newSrv.ListenAndServe(); err != http.ErrServerClosed {
			Logger.Warn().Msgf("Problem loading monitor server: %v", err)
		}
		Logger.Debug().Msg("monitor server shutdown")
	}()
	return nil
}

func (s *MonitorServer) AddHandler(path string, handler func(http.ResponseWriter, *http.Request)) {
	s.router.HandleFunc(path, handler)
}

// AddMethodHandler registers handler for one HTTP method only.
func (s *MonitorServer) AddMethodHandler(method, path string, handler func(http.ResponseWriter, *http.Request)) {
	s.router.MethodFunc(method, path, handler)
}

func (s *MonitorServer) AddRawHandler(path string, handler http.Handler) {
	s.router.Handle(path, handler)
}

// AddMetrics exposes gatherer on /metrics.
func (s *MonitorServer) AddMetrics(gatherer prometheus.Gatherer) {
	s.AddRawHandler("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Handler is the router behind the server.
func (s *MonitorServer) Handler() http.Handler {
	return s.router
}

// Shutdown stops the last started listener. A listener that has not come up
// yet never will.
func (s *MonitorServer) Shutdown(ctx context.Context) error {
	s.srvMu.RLock()
	currentSrv := s.srv
	s.srvMu.RUnlock()
	return currentSrv.Shutdown(ctx)
}

func (s *MonitorServer) Restart() {
	Logger.Debug().Msg("restarting monitor server")
	if err := s.Shutdown(context.TODO()); err != nil {
		Logger.Error().Msgf("Error shutting down monitor server: %v", err)
	}
	Logger.Debug().Msg("waiting for shutdown")
	s.running.Lock() // released by the listener goroutine on exit
	Logger.Debug().Msg("http not running - good for startup")
	s.running.Unlock()

	if s.fromConfig {
		s.srvMu.Lock()
		s.addr = configAddr()
		s.srvMu.Unlock()
	}
	if err := s.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
}
