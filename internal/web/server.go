package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	gosync "sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"github.com/conorfennell/knoldeck/internal/review"
	"github.com/conorfennell/knoldeck/internal/sampler"
	"github.com/conorfennell/knoldeck/internal/stats"
	"github.com/conorfennell/knoldeck/internal/storage"
	"github.com/conorfennell/knoldeck/internal/sync"
	"github.com/conorfennell/knoldeck/internal/weight"
)

// Options tune a Server.
type Options struct {
	Origins []string         // allowed CORS origins
	Seed    int64            // base sampler seed, 0 for random
	Params  *weight.Params   // nil for the defaults
	Clock   func() time.Time // nil for time.Now
	Syncer  *sync.Syncer     // nil disables POST /api/sync

	// SessionTTL is how long a review session may sit unused before it is
	// dropped. Zero means DefaultSessionTTL.
	SessionTTL time.Duration
}

// DefaultSessionTTL is the idle lifetime of a review session.
const DefaultSessionTTL = 30 * time.Minute

// Server holds the dependencies for the HTTP server.
type Server struct {
	db       *storage.DB
	stats    *stats.Aggregator
	syncer   *sync.Syncer
	router   *http.ServeMux
	handler  http.Handler
	validate *validator.Validate
	opts     Options

	mu       gosync.Mutex
	sessions map[string]*liveSession
	seeds    int64
}

// liveSession serializes the requests made against one review session.
// lastUsed is guarded by Server.mu.
type liveSession struct {
	mu       gosync.Mutex
	session  *review.Session
	lastUsed time.Time
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, opts Options) *Server {
	if opts.Params == nil {
		opts.Params = weight.DefaultParams()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		db:       db,
		stats:    stats.New(db),
		syncer:   opts.Syncer,
		router:   http.NewServeMux(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
		sessions: make(map[string]*liveSession),
	}
	s.routes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:         86400,
	}).Handler(s.router)
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	// Topics and cards
	s.router.HandleFunc("GET /api/topics", s.handleListTopics)
	s.router.HandleFunc("POST /api/topics", s.handleCreateTopic)
	s.router.HandleFunc("DELETE /api/topics/{topicID}", s.handleDeleteTopic)
	s.router.HandleFunc("GET /api/topics/{topicID}/cards", s.handleListCards)
	s.router.HandleFunc("POST /api/topics/{topicID}/cards", s.handleCreateCard)
	s.router.HandleFunc("DELETE /api/cards/{cardID}", s.handleDeleteCard)

	// Review sessions
	s.router.HandleFunc("POST /api/sessions", s.handleStartSession)
	s.router.HandleFunc("GET /api/sessions/{sessionID}", s.handleGetSession)
	s.router.HandleFunc("POST /api/sessions/{sessionID}/reveal", s.handleReveal)
	s.router.HandleFunc("POST /api/sessions/{sessionID}/judge", s.handleJudge)
	s.router.HandleFunc("POST /api/sessions/{sessionID}/next", s.handleNext)
	s.router.HandleFunc("DELETE /api/sessions/{sessionID}", s.handleEndSession)

	// Stats and administration
	s.router.HandleFunc("GET /api/stats", s.handleStats)
	s.router.HandleFunc("GET /api/debug/cards", s.handleDebugCards)
	s.router.HandleFunc("POST /api/admin/reset-weights", s.handleResetWeights)
	s.router.HandleFunc("POST /api/sync", s.handleSync)
}

// newSampler gives every session its own random source. With a fixed base
// seed the sessions are reproducible in creation order.
func (s *Server) newSampler() *sampler.Sampler {
	if s.opts.Seed == 0 {
		return sampler.NewSeeded(0)
	}
	s.seeds++
	return sampler.NewSeeded(s.opts.Seed + s.seeds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errBadRequest{err}
	}
	if err := s.validate.Struct(dst); err != nil {
		return errBadRequest{err}
	}
	return nil
}

type errBadRequest struct{ err error }

func (e errBadRequest) Error() string { return e.err.Error() }
func (e errBadRequest) Unwrap() error { return e.err }

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var bad errBadRequest
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, errNoSession):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrTopicInUse), errors.Is(err, storage.ErrTopicExists),
		errors.Is(err, review.ErrNoCard):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		http.Error(w, "Internal Server Error", status)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, errBadRequest{errors.New("invalid " + name)}
	}
	return id, nil
}
