package jpi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/infra/logger"
)

// Fixtures is the data served by ServerMock.
type Fixtures struct {
	Settings  model.Settings
	Jobs      []model.Job
	Resources []model.Resource
}

// ServerMock is an in-process JPI API used by tests and local dry runs.
// It serves /settings, /jobs and /resources and checks the API key.
type ServerMock struct {
	*httptest.Server

	apiKey string
	log    logger.Logger

	mu       sync.Mutex
	data     Fixtures
	raw      map[string]string
	failures map[string][]int
	hits     map[string]int
}

// NewServerMock starts a mock accepting apiKey and serving data.
func NewServerMock(apiKey string, data Fixtures) *ServerMock {
	m := &ServerMock{
		apiKey:   apiKey,
		log:      logger.New("jpi-server-mock"),
		data:     data,
		raw:      make(map[string]string),
		failures: make(map[string][]int),
		hits:     make(map[string]int),
	}
	m.Server = httptest.NewServer(m.routes())
	return m
}

func (m *ServerMock) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /settings", m.handle("settings", func() any { return m.data.Settings }))
	mux.HandleFunc("GET /jobs", m.handle("jobs", func() any { return m.data.Jobs }))
	mux.HandleFunc("GET /resources", m.handle("resources", func() any { return m.data.Resources }))
	return mux
}

func (m *ServerMock) handle(endpoint string, payload func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.hits[endpoint]++
		if r.Header.Get("X-Api-Key") != m.apiKey {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		if codes := m.failures[endpoint]; len(codes) > 0 {
			m.failures[endpoint] = codes[1:]
			http.Error(w, "injected failure", codes[0])
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if body, ok := m.raw[endpoint]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		if err := json.NewEncoder(w).Encode(payload()); err != nil {
			m.log.Errorf("encode %s: %v", endpoint, err)
		}
	}
}

// FailNext makes the next requests to endpoint answer with the given
// status codes, in order.
func (m *ServerMock) FailNext(endpoint string, codes ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	endpoint = strings.TrimPrefix(endpoint, "/")
	m.failures[endpoint] = append(m.failures[endpoint], codes...)
}

// SetRaw serves body verbatim on endpoint instead of the fixtures.
func (m *ServerMock) SetRaw(endpoint, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw[strings.TrimPrefix(endpoint, "/")] = body
}

// Hits returns how many requests endpoint received.
func (m *ServerMock) Hits(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[strings.TrimPrefix(endpoint, "/")]
}
