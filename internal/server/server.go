// Package server exposes the synthesis engine over HTTP. Workflows started
// through the API run in the background; clients poll their status by run
// ID. The server owns a task table and nothing else: all synthesis
// semantics live in the engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ralvarado/sigma/internal/engine"
	"github.com/ralvarado/sigma/internal/phase"
)

// ProtocolVersion identifies the task API revision.
const ProtocolVersion = "1.0"

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

var errServerDisabled = errors.New("server: disabled by configuration")

// ContextFactory builds a fresh run context for each workflow. Every
// workflow gets its own context; the server never shares state between
// runs.
type ContextFactory func() (*phase.Context, error)

// Logger is the minimal logging surface the server needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// task pairs a workflow's run context with its latest record. The task
// mutex serializes engine execution on the context; the record itself is
// guarded by the server mutex.
type task struct {
	mu     sync.Mutex
	record engine.RunRecord
	pc     *phase.Context
}

// Server wraps the HTTP listener and handlers backing the task API.
type Server struct {
	settings   Settings
	engine     *engine.Engine
	newContext ContextFactory
	logger     Logger
	clock      func() time.Time

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
	tasks     map[string]*task
	wg        sync.WaitGroup
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New prepares a task API server. The factory is invoked once per started
// workflow.
func New(settings Settings, eng *engine.Engine, factory ContextFactory, opts ...Option) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("server: engine is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("server: context factory is required")
	}
	s := &Server{
		settings:   settings,
		engine:     eng,
		newContext: factory,
		logger:     nopLogger{},
		clock:      func() time.Time { return time.Now().UTC() },
		status:     StatusStarting,
		tasks:      map[string]*task{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Handler returns the HTTP routing table. Exposed so tests can drive the
// API through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/workflow/start", s.handleWorkflowStart)
	mux.HandleFunc("/workflow/", s.handleWorkflowStatus)
	mux.HandleFunc("/phase/execute", s.handlePhaseExecute)
	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server: server is nil")
	}
	if !s.settings.Enabled {
		return errServerDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server: already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		srv.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = srv
	s.status = StatusReady
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("server: serve error: %v", err)
		}
	}()
	s.logger.Printf("server: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections, waits for in-flight requests
// and background workflows to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.listener == nil || s.server == nil {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusDraining
	srv := s.server
	s.listener = nil
	s.server = nil
	s.mu.Unlock()

	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := srv.Shutdown(deadline); err != nil {
		return err
	}
	s.wg.Wait()
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(s.startTime).Seconds())
}

type healthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	ActiveWorkflows int    `json:"active_workflows"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	s.mu.RLock()
	active := 0
	for _, t := range s.tasks {
		if t.record.Status == engine.StatusRunning {
			active++
		}
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "healthy",
		Version:         ProtocolVersion,
		ActiveWorkflows: active,
		UptimeSeconds:   s.uptimeSeconds(),
	})
}

type startResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

func (s *Server) handleWorkflowStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	pc, err := s.newContext()
	if err != nil {
		s.logger.Printf("server: context factory: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("unable to prepare workflow"))
		return
	}
	id, t := s.registerTask(pc)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t.mu.Lock()
		record := s.engine.Run(context.Background(), pc)
		t.mu.Unlock()
		s.storeRecord(id, record)
	}()
	writeJSON(w, http.StatusAccepted, startResponse{WorkflowID: id, Status: string(engine.StatusRunning)})
}

func (s *Server) handleWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	// Path shape: /workflow/{id}/status
	rest := strings.TrimPrefix(r.URL.Path, "/workflow/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "status" || parts[0] == "" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	record, ok := s.lookupRecord(parts[0])
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("workflow %s not found", parts[0])))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type executeRequest struct {
	WorkflowID string `json:"workflow_id,omitempty"`
	Phase      string `json:"phase"`
}

func (s *Server) handlePhaseExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		return
	}
	var req executeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	if strings.TrimSpace(req.Phase) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("phase is required"))
		return
	}

	var record engine.RunRecord
	if req.WorkflowID == "" {
		pc, err := s.newContext()
		if err != nil {
			s.logger.Printf("server: context factory: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorBody("unable to prepare workflow"))
			return
		}
		record = s.engine.RunPhase(r.Context(), pc, req.Phase)
	} else {
		s.mu.RLock()
		t, ok := s.tasks[req.WorkflowID]
		var status engine.Status
		if ok {
			status = t.record.Status
		}
		s.mu.RUnlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("workflow %s not found", req.WorkflowID)))
			return
		}
		// A background run owns the context until it finishes; executing a
		// phase against it now would race on the shared run state.
		if status == engine.StatusRunning {
			writeJSON(w, http.StatusConflict, errorBody(fmt.Sprintf("workflow %s is still running", req.WorkflowID)))
			return
		}
		t.mu.Lock()
		record = s.engine.RunPhase(r.Context(), t.pc, req.Phase)
		t.mu.Unlock()
		s.storeRecord(req.WorkflowID, record)
	}
	if record.Status == engine.StatusFailed {
		// Invalid phase names and missing prerequisites are client mistakes.
		if engine.IsInvalidPhase(record) || strings.Contains(record.Error, phase.ErrMissingPrerequisite.Error()) {
			writeJSON(w, http.StatusBadRequest, errorBody(record.Error))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody(record.Error))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) registerTask(pc *phase.Context) (string, *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pc.RunID
	if id == "" {
		id = s.engine.NewRunID()
		pc.RunID = id
	}
	t := &task{
		record: engine.RunRecord{RunID: id, Status: engine.StatusRunning, StartedAt: s.clock()},
		pc:     pc,
	}
	s.tasks[id] = t
	return id, t
}

func (s *Server) storeRecord(id string, record engine.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		t = &task{}
		s.tasks[id] = t
	}
	t.record = record
}

func (s *Server) lookupRecord(id string) (engine.RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return engine.RunRecord{}, false
	}
	return t.record, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("empty body"))
		return nil, fmt.Errorf("server: empty body")
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload exceeds limit"))
			return nil, err
		}
		writeJSON(w, http.StatusBadRequest, errorBody("unable to read body"))
		return nil, err
	}
	return body, nil
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
