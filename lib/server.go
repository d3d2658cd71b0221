package lib

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Server serves the dashboard page. Each GET / is one bootstrap run.
type Server struct {
	bootstrapper *Bootstrapper
	view         *View
	logger       *Logger
	script       []byte
}

func NewServer(bootstrapper *Bootstrapper, view *View, logger *Logger) (*Server, error) {
	script, err := Script()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load clipboard script")
	}
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &Server{bootstrapper: bootstrapper, view: view, logger: logger, script: script}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /index.html", s.handleDashboard)
	mux.HandleFunc("GET /app.js", s.handleScript)
	mux.HandleFunc("GET /healthz", func(res http.ResponseWriter, req *http.Request) {
		res.Header().Set("Content-Type", "text/plain; charset=utf-8")
		res.Write([]byte("ok"))
	})
	return correlationMiddleware(loggingMiddleware(s.logger)(mux))
}

func (s *Server) handleDashboard(res http.ResponseWriter, req *http.Request) {
	code := req.URL.Query().Get("code")
	s.dispatch(res, req, s.bootstrapper.Run(req.Context(), code))
}

func (s *Server) dispatch(res http.ResponseWriter, req *http.Request, outcome Outcome) {
	res.Header().Set("Cache-Control", "no-store")
	res.Header().Set("Pragma", "no-cache")

	logoutURL := s.bootstrapper.URLs().Logout
	var buf bytes.Buffer
	var err error
	switch outcome.Kind {
	case Redirect:
		http.Redirect(res, req, outcome.Location, http.StatusFound)
		return
	case ErrorShown:
		err = s.view.RenderError(&buf, logoutURL, outcome.Status, outcome.Message)
	case Rendered:
		err = s.view.RenderDashboard(&buf, logoutURL, outcome.Session)
	default:
		err = errors.Errorf("unknown outcome %d", outcome.Kind)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Cannot render dashboard page")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	res.Write(buf.Bytes())
}

func (s *Server) handleScript(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	res.Write(s.script)
}

// Serve blocks until ctx is done or the listener fails, then shuts the
// server down.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(listener)
	}()
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Dashboard server listening")

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "error serving dashboard")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("Shutting down dashboard server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "cannot listen on %s", addr)
	}
	return s.Serve(ctx, listener)
}
