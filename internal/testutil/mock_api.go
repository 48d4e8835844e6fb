// Package testutil provides testing utilities for the SpaceTraders client.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock SpaceTraders server for testing. Handlers are
// keyed by "METHOD /path", e.g. "GET /my/ships".
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	counts   map[string]int

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastRequestBody   []byte
	LastRequestQuery  string
}

// NewMockAPI creates a new mock API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]http.HandlerFunc),
		counts:   make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.counts[key]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastRequestBody = body
		mock.LastRequestQuery = r.URL.RawQuery
		handler, exists := mock.handlers[key]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{
				"code":    404,
				"message": fmt.Sprintf("no route for %s", key),
			},
		})
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.counts = make(map[string]int)
	m.LastRequestHeader = nil
	m.LastRequestBody = nil
	m.LastRequestQuery = ""
}

// SetHandler sets a custom handler for a method and path.
func (m *MockAPI) SetHandler(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" "+path] = handler
}

// SetResponse configures a fixed response for a method and path.
func (m *MockAPI) SetResponse(method, path string, resp MockResponse) {
	m.SetHandler(method, path, resp.ServeHTTP)
}

// SetSequence serves the responses in order. The last one repeats once the
// sequence is exhausted.
func (m *MockAPI) SetSequence(method, path string, resps ...MockResponse) {
	var (
		mu sync.Mutex
		n  int
	)
	m.SetHandler(method, path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := resps[min(n, len(resps)-1)]
		n++
		mu.Unlock()
		resp.ServeHTTP(w, r)
	})
}

// SetData responds with {"data": v}.
func (m *MockAPI) SetData(method, path string, v any) {
	m.SetResponse(method, path, NewDataResponse(http.StatusOK, v))
}

// SetPaged serves items as a paged listing honoring the page and limit
// query parameters.
func (m *MockAPI) SetPaged(method, path string, items []any) {
	m.SetHandler(method, path, func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		start := min((page-1)*limit, len(items))
		end := min(start+limit, len(items))

		writeJSON(w, http.StatusOK, map[string]any{
			"data": items[start:end],
			"meta": map[string]int{
				"total": len(items),
				"page":  page,
				"limit": limit,
			},
		})
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Count returns the number of requests made to a method and path.
func (m *MockAPI) Count(method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[method+" "+path]
}

// Authorization returns the Authorization header of the last request.
func (m *MockAPI) Authorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader.Get("Authorization")
}

// ServeHTTP writes the configured response.
func (resp MockResponse) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = w.Write([]byte(resp.Body))
	}
}

// NewDataResponse wraps v in a data envelope.
func NewDataResponse(status int, v any) MockResponse {
	body, err := json.Marshal(map[string]any{"data": v})
	if err != nil {
		panic(err)
	}
	return MockResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// NewErrorResponse creates an API error response.
func NewErrorResponse(status, code int, message string) MockResponse {
	body, err := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
	if err != nil {
		panic(err)
	}
	return MockResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// NewRateLimitResponse creates a 429 response asking the client to retry
// after the given number of seconds.
func NewRateLimitResponse(retryAfter int) MockResponse {
	resp := NewErrorResponse(http.StatusTooManyRequests, 429, "Rate limit exceeded")
	resp.Headers["Retry-After"] = strconv.Itoa(retryAfter)
	resp.Headers["X-Ratelimit-Type"] = "IP_ADDRESS"
	resp.Headers["X-Ratelimit-Remaining"] = "0"
	return resp
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return NewErrorResponse(http.StatusInternalServerError, 500, "Internal server error")
}

// NewNoContentResponse creates a 204 response.
func NewNoContentResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusNoContent}
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json; charset=utf-8",
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
