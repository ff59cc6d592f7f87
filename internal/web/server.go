package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/form"
	scantemplate "github.com/blockscope-dev/blockscope/internal/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the web front-end of the scan workflow.
type Server struct {
	ctrl    *controller.Controller
	tmpl    *template.Template
	logger  hclog.Logger
	refresh time.Duration

	// form is the state of the scan input form, shared by the single page.
	mu   sync.Mutex
	form form.Form
}

// NewServer creates the web front-end for ctrl. refresh is how often the page reloads while a scan is running.
func NewServer(ctrl *controller.Controller, logger hclog.Logger, refresh time.Duration) (*Server, error) {
	tmpl, err := scantemplate.NewTemplate(templatesFS, "page", "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		ctrl:    ctrl,
		tmpl:    tmpl,
		logger:  logger,
		refresh: refresh,
	}, nil
}

// Handler returns the HTTP routes of the front-end.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("POST /new-scan", s.handleNewScan)
	mux.HandleFunc("POST /findings/{index}/toggle", s.handleToggle)
	mux.HandleFunc("POST /dismiss-error", s.handleDismissError)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves the front-end on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web front-end listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down web front-end: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f := s.form
	s.mu.Unlock()

	s.render(w, http.StatusOK, newPage(s.ctrl.Snapshot(), f, s.refresh))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.form.Code = r.PostFormValue("code")
	sub, ok := s.form.Submit()
	f := s.form
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("rejected empty submission")
		s.render(w, http.StatusUnprocessableEntity, newPage(s.ctrl.Snapshot(), f, s.refresh))
		return
	}

	s.dispatch(w, r, controller.SubmitScan{Code: sub.Code, Name: sub.Name})
}

func (s *Server) handleNewScan(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctrl.Dispatch(r.Context(), controller.StartNewScan{})
	if err != nil {
		s.unavailable(w, err)
		return
	}
	if st.Mode == controller.ModeInput && !st.Loading {
		s.mu.Lock()
		s.form = form.Form{}
		s.mu.Unlock()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.dispatch(w, r, controller.ToggleFinding{Index: index})
}

func (s *Server) handleDismissError(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.DismissError{})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, e controller.Event) {
	if _, err := s.ctrl.Dispatch(r.Context(), e); err != nil {
		s.unavailable(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) unavailable(w http.ResponseWriter, err error) {
	s.logger.Error("failed to dispatch event", "error", err)
	http.Error(w, "scan controller unavailable", http.StatusServiceUnavailable)
}

func (s *Server) render(w http.ResponseWriter, status int, page Page) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
