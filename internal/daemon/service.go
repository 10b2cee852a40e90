// Package daemon serves break-even projections over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"
	"github.com/theirongolddev/meshroi/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Horizon      int
	Defaults     costmodel.Params
	RecordRuns   bool
}

// ScenarioStore is the subset of the scenario database the daemon uses.
type ScenarioStore interface {
	ListScenarios() ([]scenario.Scenario, error)
	LoadScenario(name string) (scenario.Scenario, error)
	RecordRun(sum report.Summary) error
}

// Event is emitted for every projection served.
type Event struct {
	ID                int64     `json:"id"`
	Type              string    `json:"type"`
	Timestamp         time.Time `json:"timestamp"`
	Scenario          string    `json:"scenario,omitempty"`
	HorizonMonths     int       `json:"horizon_months"`
	InitialInvestment float64   `json:"initial_investment"`
	MonthlyNetBenefit float64   `json:"monthly_net_benefit"`
	BreakevenMonth    int       `json:"breakeven_month,omitempty"`
	FinalROIPercent   float64   `json:"final_roi_percent"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	Addr            string    `json:"addr"`
	HorizonMonths   int       `json:"horizon_months"`
	StoreAttached   bool      `json:"store_attached"`
	RequestCount    int64     `json:"request_count"`
	ProjectionCount int64     `json:"projection_count"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// ProjectionRequest is the JSON body accepted by POST /v1/projection.
type ProjectionRequest struct {
	Name    string           `json:"name,omitempty"`
	Horizon int              `json:"horizon_months,omitempty"`
	Params  costmodel.Params `json:"params"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	store ScenarioStore
	log   *zap.Logger

	requests    atomic.Int64
	projections atomic.Int64

	mu          sync.RWMutex
	startedAt   time.Time
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service. st may be nil, in which case the scenario
// endpoints answer 503.
func New(cfg Config, st ScenarioStore, logger *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = projection.DefaultHorizonMonths
	}
	if cfg.Defaults == (costmodel.Params{}) {
		cfg.Defaults = costmodel.Defaults()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		log:       logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/projection", s.handleProjectionQuery)
	mux.HandleFunc("POST /v1/projection", s.handleProjectionBody)
	mux.HandleFunc("GET /v1/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /v1/scenarios/{name}/projection", s.handleScenarioProjection)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return s.logRequests(mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", zap.String("addr", s.cfg.Addr), zap.Bool("store", s.store != nil))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("daemon shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the stream endpoint working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// paramsFromQuery overlays query values onto the configured defaults.
func (s *Service) paramsFromQuery(r *http.Request) (costmodel.Params, int, error) {
	q := r.URL.Query()
	p := s.cfg.Defaults
	for _, f := range costmodel.Fields() {
		raw := q.Get(f.Key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, 0, fmt.Errorf("%s: %w", f.Key, err)
		}
		f.Set(&p, v)
	}

	horizon := s.cfg.Horizon
	if raw := q.Get("horizon"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil {
			return p, 0, fmt.Errorf("horizon: %w", err)
		}
		horizon = h
	}
	return p, horizon, nil
}

func (s *Service) project(name string, p costmodel.Params, horizon int) (report.Summary, error) {
	if err := p.Validate(); err != nil {
		return report.Summary{}, err
	}
	sum, err := report.Build(p, horizon)
	if err != nil {
		return report.Summary{}, err
	}
	sum.Name = name

	s.projections.Add(1)
	if s.store != nil && s.cfg.RecordRuns {
		if err := s.store.RecordRun(sum); err != nil {
			s.setError(err)
			s.log.Warn("record run failed", zap.Error(err))
		}
	}
	s.publishEvent(eventFromSummary(sum))
	return sum, nil
}

func eventFromSummary(sum report.Summary) Event {
	return Event{
		Type:              "projection",
		Timestamp:         time.Now(),
		Scenario:          sum.Name,
		HorizonMonths:     sum.Input.HorizonMonths,
		InitialInvestment: sum.Input.InitialInvestment,
		MonthlyNetBenefit: sum.Input.MonthlyNetBenefit,
		BreakevenMonth:    sum.Series.BreakevenMonth,
		FinalROIPercent:   sum.Metrics.FinalROIPercent,
	}
}

func (s *Service) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		UptimeSec:       int64(time.Since(s.startedAt).Seconds()),
		Addr:            s.cfg.Addr,
		HorizonMonths:   s.cfg.Horizon,
		StoreAttached:   s.store != nil,
		RequestCount:    s.requests.Load(),
		ProjectionCount: s.projections.Load(),
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func projectionStatus(err error) int {
	if errors.Is(err, projection.ErrInvalidInput) || errors.Is(err, costmodel.ErrOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleProjectionQuery(w http.ResponseWriter, r *http.Request) {
	p, horizon, err := s.paramsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sum, err := s.project(r.URL.Query().Get("name"), p, horizon)
	if err != nil {
		writeError(w, projectionStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Service) handleProjectionBody(w http.ResponseWriter, r *http.Request) {
	req := ProjectionRequest{Horizon: s.cfg.Horizon, Params: s.cfg.Defaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	sum, err := s.project(req.Name, req.Params, req.Horizon)
	if err != nil {
		writeError(w, projectionStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Service) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store not configured"))
		return
	}
	list, err := s.store.ListScenarios()
	if err != nil {
		s.setError(err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) handleScenarioProjection(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store not configured"))
		return
	}
	sc, err := s.store.LoadScenario(r.PathValue("name"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.setError(err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	horizon := sc.HorizonOr(s.cfg.Horizon)
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		h, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("horizon: %w", convErr))
			return
		}
		horizon = h
	}

	sum, err := s.project(sc.Name, sc.Params, horizon)
	if err != nil {
		writeError(w, projectionStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprintf(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
