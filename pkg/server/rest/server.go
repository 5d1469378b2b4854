package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/processing"
	"github.com/letapeapp/race-engine-go/pkg/server/proxy"
	"github.com/letapeapp/race-engine-go/pkg/stage"
	"github.com/letapeapp/race-engine-go/pkg/utils"
)

// Server exposes the race engine to the game UI over HTTP and
// websocket. One device drives a race; viewers may subscribe to the
// live stream.
type Server struct {
	lookup        *utils.RaceLookup
	catalog       *stage.Catalog
	relay         *proxy.Relay
	tickInterval  time.Duration
	staleDuration time.Duration
	corsOrigins   []string
	l             *log.Logger
	upgrader      websocket.Upgrader
	srv           *http.Server
}

type Option func(*Server)

func WithCatalog(c *stage.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithRelay forwards every race's live data to a DataProxy.
func WithRelay(r *proxy.Relay) Option {
	return func(s *Server) {
		s.relay = r
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Server) {
		s.tickInterval = d
	}
}

// WithStaleDuration removes races this long after creation. Races
// exist only in memory; a client that never deletes its race would
// otherwise leak a run loop. Zero disables the reaper.
func WithStaleDuration(d time.Duration) Option {
	return func(s *Server) {
		s.staleDuration = d
	}
}

func WithCorsOrigins(origins string) Option {
	return func(s *Server) {
		if origins != "" {
			s.corsOrigins = strings.Split(origins, ",")
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.l = l
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		lookup:       utils.NewRaceLookup(),
		catalog:      stage.DefaultCatalog(),
		tickInterval: processing.DefaultTickInterval,
		corsOrigins:  []string{"*"},
		l:            log.Default().Named("rest"),
		upgrader: websocket.Upgrader{
			// the app UI may be served from anywhere on the LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Use(c.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stages", s.listStages)
		r.Get("/stages/{stageID}", s.getStage)

		r.Post("/races", s.createRace)
		r.Get("/races", s.listRaces)
		r.Route("/races/{raceKey}", func(r chi.Router) {
			r.Get("/", s.getRace)
			r.Delete("/", s.abandonRace)
			r.Get("/live", s.liveRace)
			r.Post("/players/{playerID}/advance", s.playerAction((*processing.Engine).Advance))
			r.Post("/players/{playerID}/revert", s.playerAction((*processing.Engine).Revert))
			r.Post("/players/{playerID}/revive", s.playerAction((*processing.Engine).Revive))
			r.Post("/sprint/resolution", s.openResolution)
			r.Post("/sprint/order", s.assignOrder)
			r.Delete("/sprint/order/{playerID}", s.removeFromOrder)
			r.Post("/sprint/confirm", s.confirmResolution)
			r.Post("/sprint/cancel", s.cancelResolution)
		})
	})
	return r
}

// Start blocks until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if s.staleDuration > 0 {
		go s.reapLoop(ctx)
	}
	errCh := make(chan error, 1)
	go func() {
		s.l.Info("listening", log.String("addr", addr))
		errCh <- s.srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	s.lookup.Clear()
	if s.relay != nil {
		s.relay.Close()
	}
	return err
}

func (s *Server) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reapStale(time.Now())
		}
	}
}

// reapStale removes races created more than staleDuration ago.
func (s *Server) reapStale(now time.Time) {
	for _, rpd := range s.lookup.GetRaces() {
		if now.Sub(rpd.Created) < s.staleDuration {
			continue
		}
		s.l.Info("removing stale race",
			log.String("key", rpd.Key),
			log.Time("created", rpd.Created))
		if s.relay != nil {
			s.relay.Detach(rpd.Key)
		}
		//nolint:errcheck // already removed is fine here
		s.lookup.RemoveRace(rpd.Key)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.l.Debug("request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", ww.Status()),
			log.Duration("took", time.Since(start)))
	})
}
