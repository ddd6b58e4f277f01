// Package server exposes the core operations over a small JSON HTTP API.
// It carries no path or numbering logic of its own; every request is
// delegated to the app service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"scanpath/internal/app"
	"scanpath/internal/db"
	"scanpath/internal/scan"
)

// Server handles the HTTP transport for the path service.
type Server struct {
	App *app.Service
	Log *zap.Logger
}

// New builds a server over the core service.
func New(svc *app.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{App: svc, Log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /paths", s.handlePaths)
	mux.HandleFunc("POST /scan", s.handleScan)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.Log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type visitPathResponse struct {
	Beamline  string `json:"beamline"`
	Visit     string `json:"visit"`
	Directory string `json:"directory"`
}

type scanRequest struct {
	Beamline     string   `json:"beamline"`
	Visit        string   `json:"visit"`
	Subdirectory string   `json:"subdirectory,omitempty"`
	Detectors    []string `json:"detectors,omitempty"`
}

type scanResponse struct {
	Beamline   string             `json:"beamline"`
	Visit      string             `json:"visit"`
	ScanNumber int64              `json:"scanNumber"`
	ScanFile   string             `json:"scanFile"`
	Detectors  []app.DetectorPath `json:"detectors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	beamline := r.URL.Query().Get("beamline")
	visit := r.URL.Query().Get("visit")
	if beamline == "" || visit == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("beamline and visit query parameters are required"))
		return
	}
	if _, err := scan.ParseVisit(visit); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	dir, err := s.App.VisitDirectory(r.Context(), beamline, visit)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, visitPathResponse{Beamline: beamline, Visit: visit, Directory: dir})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Beamline == "" || req.Visit == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("beamline and visit are required"))
		return
	}
	if _, err := scan.ParseVisit(req.Visit); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	subdirectory, err := scan.NewSubdirectory(req.Subdirectory)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	allocated, err := s.App.AllocateScan(r.Context(), req.Beamline, req.Visit, subdirectory)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	detectors, err := allocated.DetectorPaths(req.Detectors)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, scanResponse{
		Beamline:   allocated.Beamline,
		Visit:      allocated.Visit,
		ScanNumber: allocated.Number,
		ScanFile:   allocated.FilePath,
		Detectors:  detectors,
	})
}

func statusFor(err error) int {
	var noBeamline *db.NoBeamlineError
	switch {
	case errors.As(err, &noBeamline):
		return http.StatusNotFound
	case errors.Is(err, db.ErrTemplateNotSet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", zap.Error(err))
	} else {
		s.Log.Debug("request rejected", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Log.Error("encode response", zap.Error(err))
	}
}
