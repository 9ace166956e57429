// Package webhook serves the HTTP endpoint the voice platform calls for
// tool invocations. Every POST is normalized, dispatched and answered
// with HTTP 200 and a response envelope; failures travel inside the body.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
)

// maxBodyBytes bounds a webhook body.
const maxBodyBytes = 1 << 20

// Server timeouts. Writes wait on several upstream calls.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 90 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ErrMissingDispatcher is returned when the server is built without a dispatcher.
var ErrMissingDispatcher = errors.New("webhook: normalizer and dispatcher are required")

// Server is the webhook HTTP front end.
type Server struct {
	normalizer driving.Normalizer
	dispatcher driving.Dispatcher
	style      domain.EnvelopeStyle
	log        zerolog.Logger
	handler    http.Handler
}

// NewServer builds the router. An invalid style falls back to vapi.
func NewServer(
	normalizer driving.Normalizer,
	dispatcher driving.Dispatcher,
	style domain.EnvelopeStyle,
	log zerolog.Logger,
) (*Server, error) {
	if normalizer == nil || dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	if !style.IsValid() {
		style = domain.EnvelopeVapi
	}
	s := &Server{
		normalizer: normalizer,
		dispatcher: dispatcher,
		style:      style,
		log:        log,
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		OptionsSuccessStatus: http.StatusOK,
	}).Handler)

	r.Post("/", s.handleCall)
	r.Post("/webhook", s.handleCall)
	r.Get("/healthz", s.handleHealth)
	r.Options("/*", s.handleOptions)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": fmt.Sprintf("method %s not allowed, use POST", r.Method),
		})
	})
	return r
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Str("envelope", s.style.String()).Msg("webhook server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down webhook server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	info := infoFrom(r.Context())

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		info.failed = true
		s.log.Warn().Err(err).Str("request_id", info.requestID).Msg("read webhook body")
		s.respond(w, domain.ResponseEnvelope{Error: domain.ErrMalformedPayload.Error()})
		return
	}
	s.log.Debug().Str("request_id", info.requestID).RawJSON("body", jsonOrString(raw)).Msg("webhook body")

	call, err := s.normalizer.Normalize(r.Context(), raw)
	if err != nil {
		info.failed = true
		env := domain.ResponseEnvelope{Error: domain.ErrMalformedPayload.Error()}
		if call != nil {
			env.CorrelationID = call.CorrelationID
			info.correlation = call.CorrelationID
		}
		s.log.Warn().Err(err).Str("request_id", info.requestID).Msg("payload not understood")
		s.respond(w, env)
		return
	}

	info.operation = call.Operation
	info.strategy = call.Strategy
	info.correlation = call.CorrelationID

	env := s.dispatcher.Dispatch(r.Context(), *call)
	info.failed = env.Failed()
	s.respond(w, env)
}

func (s *Server) respond(w http.ResponseWriter, env domain.ResponseEnvelope) {
	writeJSON(w, http.StatusOK, Shape(s.style, env))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOptions answers OPTIONS requests that are not CORS preflights.
func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// jsonOrString keeps logged bodies valid JSON.
func jsonOrString(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
