// Package server exposes the chart over HTTP: a JSON view endpoint, SVG/PNG
// renderings and an admin-gated record upload.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/export"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

// ErrForbidden is returned for admin requests without the configured secret.
var ErrForbidden = errors.New("admin access required")

// maxUpload caps uploaded tables.
const maxUpload = 16 << 20

// Options configures a Server.
type Options struct {
	Source       *datasource.Source
	Materializer *view.Materializer
	Build        orgtree.Options
	Columns      loader.Columns
	Palette      export.Palette
	Title        string

	// AdminSecret enables uploads when non-empty. AdminParam names the query
	// parameter carrying it.
	AdminSecret string
	AdminParam  string

	// AccessLog enables chi's request logger.
	AccessLog bool
}

// Server holds an immutable forest snapshot, swapped on reload.
type Server struct {
	opts Options

	mu     sync.RWMutex
	forest model.Forest
	loaded time.Time
}

// New returns a server. Call Reload before serving.
func New(opts Options) *Server {
	if opts.Materializer == nil {
		opts.Materializer = view.NewMaterializer(view.DefaultSections(), view.ExpandOnMatch)
	}
	if opts.AdminParam == "" {
		opts.AdminParam = "admin"
	}
	if opts.Columns == (loader.Columns{}) {
		opts.Columns = loader.DefaultColumns()
	}
	if opts.Palette.Person == "" {
		opts.Palette = export.DefaultPalette()
	}
	return &Server{opts: opts}
}

// Reload rebuilds the forest from the source. On failure the previous
// snapshot stays in place. ErrNoData leaves an empty forest.
func (s *Server) Reload(ctx context.Context) error {
	defer debug.LogEnterExit("server.Reload")()
	records, err := s.opts.Source.Load(ctx)
	if err != nil && !errors.Is(err, datasource.ErrNoData) {
		return fmt.Errorf("loading records: %w", err)
	}
	s.setForest(orgtree.Build(records, s.opts.Build))
	return nil
}

func (s *Server) setForest(f model.Forest) {
	s.mu.Lock()
	s.forest = f
	s.loaded = time.Now()
	s.mu.Unlock()
}

// Forest returns the current snapshot.
func (s *Server) Forest() model.Forest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest
}

// Handler returns the HTTP routes.
//
//	GET    /healthz
//	GET    /api/tree?q=&open=       materialized view as JSON
//	GET    /api/stats               organization summary
//	GET    /api/records             canonical records
//	POST   /api/records?admin=      replace records from CSV or XLSX
//	DELETE /api/records?admin=      reset to the seed table
//	GET    /chart.svg, /chart.png   rendered view
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if s.opts.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/chart.svg", s.handleChart("svg"))
	r.Get("/chart.png", s.handleChart("png"))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/tree", s.handleTree)
		ar.Get("/stats", s.handleStats)
		ar.Get("/records", s.handleRecords)
		ar.Group(func(admin chi.Router) {
			admin.Use(s.requireAdmin)
			admin.Post("/records", s.handleUpload)
			admin.Delete("/records", s.handleReset)
		})
	})
	return r
}

// requireAdmin rejects requests whose admin parameter does not match the
// configured secret.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r) {
			writeError(w, http.StatusForbidden, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isAdmin(r *http.Request) bool {
	if s.opts.AdminSecret == "" {
		return false
	}
	got := r.URL.Query().Get(s.opts.AdminParam)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.AdminSecret)) == 1
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("warning: server shutdown: %v", err)
		}
		return nil
	}
}
