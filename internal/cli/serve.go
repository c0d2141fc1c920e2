package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"droplayer/pkg/config"
	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/resource"
)

const (
	maxRequestBody          = 1 << 20
	serverReadHeaderTimeout = 10 * time.Second
	shutdownTimeout         = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve drop placement over HTTP",
		Long: `Start an HTTP server with:

  POST /place     compute a placement from boxes (JSON in, JSON out)
  POST /snapshot  render HTML with drops to PNG
  GET  /healthz   liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := configFromContext(ctx)
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			srv := newServer(loggerFromContext(ctx), cfg)
			return srv.listenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

type server struct {
	logger *log.Logger
	cfg    config.Config
}

func newServer(logger *log.Logger, cfg config.Config) *server {
	return &server{logger: logger, cfg: cfg}
}

func (s *server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/place", s.handlePlace)
	r.Post("/snapshot", s.handleSnapshot)
	return r
}

func (s *server) listenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "id", middleware.GetReqID(r.Context()),
			"took", time.Since(start).Round(time.Microsecond))
	})
}

// placeRequest carries the geometry snapshot. Alignment is read from the
// same body through drop.OptionsFromMap, so both the nested
// {"align": {...}} form and the flat legacy form are accepted.
type placeRequest struct {
	Anchor   geom.Box  `json:"anchor"`
	Overlay  geom.Box  `json:"overlay"`
	Body     geom.Box  `json:"body"`
	Viewport geom.Size `json:"viewport"`
}

type placeResponse struct {
	drop.Placement
	Warnings []string `json:"warnings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handlePlace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req placeRequest
	var raw map[string]any
	if err := json.Unmarshal(data, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "viewport must be positive"})
		return
	}

	opts := drop.OptionsFromMap(raw)
	if opts.Align.IsZero() {
		opts.Align = s.cfg.Align()
	}
	resolved, warnings := drop.Resolve(opts)
	resp := placeResponse{
		Placement: drop.Compute(drop.Input{
			Anchor:   req.Anchor,
			Overlay:  req.Overlay,
			Body:     req.Body,
			Viewport: req.Viewport,
			Align:    resolved.Align,
		}),
		Warnings: make([]string, 0, len(warnings)),
	}
	for _, warn := range warnings {
		s.logger.Warn("invalid drop alignment", "field", warn.Field, "value", warn.Value)
		resp.Warnings = append(resp.Warnings, warn.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

type snapshotDrop struct {
	Anchor  string         `json:"anchor"`
	Content string         `json:"content"`
	Options map[string]any `json:"options"`
}

type snapshotRequest struct {
	HTML     string         `json:"html"`
	Viewport geom.Size      `json:"viewport"`
	Drops    []snapshotDrop `json:"drops"`
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Viewport == (geom.Size{}) {
		req.Viewport = s.cfg.Viewport.Size()
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "viewport must be positive"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ScriptTimeout())
	defer cancel()
	sess, err := resource.NewSessionContext(ctx, req.HTML, resource.Options{
		Viewport:    req.Viewport,
		BaseClass:   s.cfg.Drop.BaseClass,
		ColorPrefix: s.cfg.Drop.ColorPrefix,
		Logger:      s.logger,
	})
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.Warn("snapshot scripts interrupted", "err", err, "reqID", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	for i, d := range req.Drops {
		if _, err := sess.Place(d.Anchor, d.Content, drop.OptionsFromMap(d.Options)); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fmt.Sprintf("drop %d: %v", i, err)})
			return
		}
	}
	sess.SettleContext(ctx)
	if err := ctx.Err(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "settling drops: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := sess.Snapshot().EncodePNG(w); err != nil {
		s.logger.Error("encoding snapshot", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
