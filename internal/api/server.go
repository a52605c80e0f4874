// Package api serves the Grid Point Code codec and the places store over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/gridpoint/internal/config"
	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/internal/store"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	store   store.Store
	cfg     config.ServerConfig
	limiter *rate.Limiter
}

// NewServer creates a Server. A nil store disables the /v1/places routes.
func NewServer(st store.Store, cfg config.ServerConfig) *Server {
	s := &Server{store: st, cfg: cfg}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter))
		}
		r.Get("/encode", s.handleEncode)
		r.Get("/decode/{code}", s.handleDecode)
		r.Get("/validate", s.handleValidate)

		if s.store != nil {
			r.Route("/places", func(r chi.Router) {
				r.Post("/", s.handleCreatePlace)
				r.Get("/", s.handleListPlaces)
				r.Get("/code/{code}", s.handleGetPlaceByCode)
				r.Get("/{id}", s.handleGetPlace)
				r.Delete("/{id}", s.handleDeletePlace)
			})
		}
	})
	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.AllowedOrigins
}

type errorResponse struct {
	Error  string     `json:"error"`
	Reason gpc.Reason `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeJSONType(w, "application/json", status, v)
}

func writeJSONType(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps an error onto a status code. Codec and input errors are the
// caller's fault; everything else is logged and hidden.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if reason := gpc.ReasonOf(err); reason != gpc.ReasonNone {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Reason: reason})
		return
	}
	switch {
	case eris.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case eris.Is(err, model.ErrNameRequired), eris.Is(err, model.ErrMissingLocation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("api: request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
