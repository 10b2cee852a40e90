package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"
	"github.com/theirongolddev/meshroi/internal/store"
)

type memStore struct {
	scenarios map[string]scenario.Scenario
	runs      []report.Summary
}

func (m *memStore) ListScenarios() ([]scenario.Scenario, error) {
	out := make([]scenario.Scenario, 0, len(m.scenarios))
	for _, sc := range m.scenarios {
		out = append(out, sc)
	}
	return out, nil
}

func (m *memStore) LoadScenario(name string) (scenario.Scenario, error) {
	sc, ok := m.scenarios[name]
	if !ok {
		return scenario.Scenario{}, store.ErrNotFound
	}
	return sc, nil
}

func (m *memStore) RecordRun(sum report.Summary) error {
	m.runs = append(m.runs, sum)
	return nil
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSummary(t *testing.T, rec *httptest.ResponseRecorder) report.Summary {
	t.Helper()
	var sum report.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	return sum
}

func TestHealth(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestProjectionDefaults(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	rec := do(t, h, http.MethodGet, "/v1/projection", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decodeSummary(t, rec)
	if got := sum.Series.Len(); got != 36 {
		t.Fatalf("series length = %d, want 36", got)
	}
	if !sum.Series.HasBreakeven || sum.Series.BreakevenMonth != 2 {
		t.Fatalf("breakeven = %v/%d, want month 2", sum.Series.HasBreakeven, sum.Series.BreakevenMonth)
	}
	if sum.Metrics.BreakevenLabel != "Month 2" {
		t.Fatalf("label = %q", sum.Metrics.BreakevenLabel)
	}
}

func TestProjectionQueryOverrides(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	rec := do(t, h, http.MethodGet,
		"/v1/projection?horizon=24&initial_investment=25&monthly_savings=3&monthly_om=1.5&manual_cost_per_unit=50&ai_cost_per_unit=50", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decodeSummary(t, rec)
	if sum.Series.Len() != 24 {
		t.Fatalf("series length = %d, want 24", sum.Series.Len())
	}
	if sum.Series.BreakevenMonth != 17 {
		t.Fatalf("breakeven month = %d, want 17", sum.Series.BreakevenMonth)
	}
}

func TestProjectionBadRequests(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	tests := []struct {
		name, method, target, body string
	}{
		{"zero horizon", http.MethodGet, "/v1/projection?horizon=0", ""},
		{"non-numeric horizon", http.MethodGet, "/v1/projection?horizon=abc", ""},
		{"non-numeric param", http.MethodGet, "/v1/projection?monthly_om=x", ""},
		{"out of range", http.MethodGet, "/v1/projection?initial_investment=1000", ""},
		{"NaN param", http.MethodGet, "/v1/projection?monthly_savings=NaN", ""},
		{"infinite param", http.MethodGet, "/v1/projection?units_per_month=Inf", ""},
		{"bad body", http.MethodPost, "/v1/projection", "{"},
		{"negative body horizon", http.MethodPost, "/v1/projection", `{"horizon_months": -3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error == "" {
				t.Fatalf("error body missing: %v", err)
			}
		})
	}
}

func TestProjectionBodyKeepsDefaults(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	rec := do(t, h, http.MethodPost, "/v1/projection",
		`{"name":"pilot","horizon_months":12,"params":{"initial_investment":40}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decodeSummary(t, rec)
	if sum.Name != "pilot" || sum.Series.Len() != 12 {
		t.Fatalf("name/len = %q/%d", sum.Name, sum.Series.Len())
	}
	if sum.Params.MonthlySavings != costmodel.Defaults().MonthlySavings {
		t.Fatalf("monthly savings = %v, want default", sum.Params.MonthlySavings)
	}
	if sum.Params.InitialInvestment != 40 {
		t.Fatalf("investment = %v, want 40", sum.Params.InitialInvestment)
	}
}

func TestScenarioEndpointsWithoutStore(t *testing.T) {
	h := New(Config{}, nil, nil).Handler()
	for _, target := range []string{"/v1/scenarios", "/v1/scenarios/pilot/projection"} {
		if rec := do(t, h, http.MethodGet, target, ""); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s status = %d, want 503", target, rec.Code)
		}
	}
}

func TestScenarioEndpoints(t *testing.T) {
	pilot := scenario.New("pilot")
	pilot.Horizon = 12
	st := &memStore{scenarios: map[string]scenario.Scenario{"pilot": pilot}}
	h := New(Config{RecordRuns: true}, st, nil).Handler()

	rec := do(t, h, http.MethodGet, "/v1/scenarios", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []scenario.Scenario
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "pilot" {
		t.Fatalf("list = %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/v1/scenarios/pilot/projection", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("projection status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decodeSummary(t, rec)
	if sum.Name != "pilot" || sum.Series.Len() != 12 {
		t.Fatalf("name/len = %q/%d", sum.Name, sum.Series.Len())
	}
	if len(st.runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(st.runs))
	}

	if rec := do(t, h, http.MethodGet, "/v1/scenarios/missing/projection", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}
}

func TestEventsAndStatus(t *testing.T) {
	svc := New(Config{}, nil, nil)
	h := svc.Handler()
	do(t, h, http.MethodGet, "/v1/projection", "")
	do(t, h, http.MethodGet, "/v1/projection?horizon=12", "")
	do(t, h, http.MethodGet, "/v1/projection?horizon=0", "")

	rec := do(t, h, http.MethodGet, "/v1/events", "")
	var events []Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].ID != 1 || events[1].ID != 2 || events[1].HorizonMonths != 12 {
		t.Fatalf("events = %+v", events)
	}

	rec = do(t, h, http.MethodGet, "/v1/status", "")
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.ProjectionCount != 2 || st.EventCount != 2 || st.StoreAttached {
		t.Fatalf("status = %+v", st)
	}
	if st.RequestCount != 5 {
		t.Fatalf("request count = %d, want 5", st.RequestCount)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, nil, nil)

	s.publishEvent(Event{Type: "projection"})
	s.publishEvent(Event{Type: "projection"})
	s.publishEvent(Event{Type: "projection"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestStreamDeliversProjection(t *testing.T) {
	svc := New(Config{}, nil, nil)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(prefix string) string {
		t.Helper()
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q: %v", prefix, lines.Err())
		return ""
	}

	if got := waitFor("event:"); got != "event: ready" {
		t.Fatalf("first event = %q", got)
	}

	go func() {
		r, err := http.Get(srv.URL + "/v1/projection?horizon=6") //nolint:noctx // test probe
		if err == nil {
			_ = r.Body.Close()
		}
	}()

	if got := waitFor("event:"); got != "event: projection" {
		t.Fatalf("second event = %q", got)
	}
	data := strings.TrimPrefix(waitFor("data:"), "data: ")
	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.HorizonMonths != 6 {
		t.Fatalf("event horizon = %d, want 6", ev.HorizonMonths)
	}
}
