package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/mikey/phish-verdict/internal/core"
	"go.uber.org/zap"
)

const (
	// SessionHeader groups requests from one analysis screen
	SessionHeader = "X-Session-ID"

	maxRequestBytes = 10 * 1024 * 1024

	// statusClientClosedRequest is the nginx convention for a client that went away
	statusClientClosedRequest = 499
)

type analyzeRequest struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// sessionEntry is kept only while requests for its session are in flight
type sessionEntry struct {
	session *core.Session
	active  int
}

// HTTPFrontend serves verdicts over a JSON API
type HTTPFrontend struct {
	analyzer    core.Analyzer
	logger      *zap.Logger
	listenAddr  string
	metricsPath string
	metrics     http.Handler
	router      *mux.Router
	server      *http.Server

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewHTTPFrontend creates a new HTTP frontend. metrics may be nil.
func NewHTTPFrontend(analyzer core.Analyzer, logger *zap.Logger, listenAddr, metricsPath string, metrics http.Handler) *HTTPFrontend {
	f := &HTTPFrontend{
		analyzer:    analyzer,
		logger:      logger,
		listenAddr:  listenAddr,
		metricsPath: metricsPath,
		metrics:     metrics,
		router:      mux.NewRouter(),
		sessions:    make(map[string]*sessionEntry),
	}
	f.routes()
	return f
}

func (f *HTTPFrontend) routes() {
	f.router.HandleFunc("/analyze", f.handleAnalyze).Methods(http.MethodPost)
	f.router.HandleFunc("/sessions/{id}", f.handleCancel).Methods(http.MethodDelete)
	f.router.HandleFunc("/healthz", f.handleHealth).Methods(http.MethodGet)
	if f.metrics != nil && f.metricsPath != "" {
		f.router.Handle(f.metricsPath, f.metrics).Methods(http.MethodGet)
	}
}

// Handler returns the router
func (f *HTTPFrontend) Handler() http.Handler {
	return f.router
}

// Start starts listening in the background
func (f *HTTPFrontend) Start() error {
	ln, err := net.Listen("tcp", f.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.listenAddr, err)
	}

	f.server = &http.Server{
		Handler:           f.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	f.logger.Info("HTTP frontend started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := f.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// ProcessEmail analyzes email text without a session
func (f *HTTPFrontend) ProcessEmail(ctx context.Context, emailText string) (*core.Verdict, error) {
	return f.analyzer.Analyze(ctx, emailText)
}

func (f *HTTPFrontend) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	var verdict *core.Verdict
	var err error
	if id := r.Header.Get(SessionHeader); id != "" {
		verdict, err = f.submitInSession(r.Context(), id, req.Email)
	} else {
		verdict, err = f.analyzer.Analyze(r.Context(), req.Email)
	}
	if err != nil {
		f.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

func (f *HTTPFrontend) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	f.mu.Lock()
	entry, ok := f.sessions[id]
	f.mu.Unlock()

	if ok {
		entry.session.Cancel()
		f.logger.Debug("Canceled session analysis", zap.String("session", id))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *HTTPFrontend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submitInSession runs text through the session named id so a newer request replaces an older one
func (f *HTTPFrontend) submitInSession(ctx context.Context, id, text string) (*core.Verdict, error) {
	f.mu.Lock()
	entry, ok := f.sessions[id]
	if !ok {
		entry = &sessionEntry{session: core.NewSession(f.analyzer)}
		f.sessions[id] = entry
	}
	entry.active++
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		entry.active--
		if entry.active == 0 {
			delete(f.sessions, id)
		}
		f.mu.Unlock()
	}()

	return entry.session.Submit(ctx, text)
}

// activeSessions returns the number of sessions with requests in flight
func (f *HTTPFrontend) activeSessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *HTTPFrontend) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: core.UserMessage(err)})
	case errors.Is(err, core.ErrSuperseded):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		writeJSON(w, statusClientClosedRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: core.UserMessage(err)})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
