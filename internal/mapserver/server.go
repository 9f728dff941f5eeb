// Package mapserver exposes a Mapper over HTTP at /api/ollama-map.
package mapserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/llm"
)

const (
	maxBody       = 1 << 20
	sweepInterval = time.Minute
	visitorTTL    = 3 * time.Minute
)

// Options configures a Server.
type Options struct {
	// requests per second per client; zero disables limiting
	Rate  float64
	Burst int
}

// Server answers mapping requests.
type Server struct {
	mapper  llm.Mapper
	log     *zap.Logger
	limiter *clientLimiter
}

// New creates a server backed by mapper.
func New(mapper llm.Mapper, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{mapper: mapper, log: log}
	if opts.Rate > 0 {
		s.limiter = newClientLimiter(opts.Rate, opts.Burst)
	}
	return s
}

type errorBody struct {
	Error   string `json:"error"`
	Raw     string `json:"raw,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(llm.MapPath, s.handleMap)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.limiter == nil {
		return mux
	}
	return s.limiter.middleware(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.limiter != nil {
		go s.limiter.janitor(ctx, sweepInterval, visitorTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("mapping service listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	var req llm.MapRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil || req.Row == nil || req.Columns == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing row or columns"})
		return
	}

	start := time.Now()
	mapped, err := s.mapper.MapRow(r.Context(), req.Row, req.Columns)
	if err != nil {
		var ue *llm.UnparsableError
		if errors.As(err, &ue) {
			s.log.Warn("unparsable mapping", zap.Int("raw_bytes", len(ue.Raw)))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to parse Ollama response", Raw: ue.Raw})
			return
		}
		s.log.Error("mapping call failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Ollama call failed", Details: err.Error()})
		return
	}
	s.log.Info("row mapped",
		zap.Int("columns", len(req.Columns)),
		zap.Int("mapped", len(mapped.Keys)),
		zap.Duration("took", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, orderedObject(mapped))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
