// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/shopgraph/shopgraph/internal/eventprocessor"
	"github.com/shopgraph/shopgraph/internal/recommend"
)

// mockService is a configurable RecommendationService.
type mockService struct {
	recommendations []recommend.RecommendedProduct
	similar         []recommend.SimilarProduct
	trending        []recommend.TrendingProduct
	history         []recommend.HistoryEntry
	err             error

	lastUserID    string
	lastProductID string
	lastLimit     int
	lastDays      int
	lastItems     []recommend.PurchaseItem
}

func (m *mockService) PersonalizedRecommendations(_ context.Context, userID string, limit int) ([]recommend.RecommendedProduct, error) {
	m.lastUserID = userID
	m.lastLimit = limit
	return m.recommendations, m.err
}

func (m *mockService) SimilarProducts(_ context.Context, productID string, limit int) ([]recommend.SimilarProduct, error) {
	m.lastProductID = productID
	m.lastLimit = limit
	return m.similar, m.err
}

func (m *mockService) TrendingProducts(_ context.Context, days, limit int) ([]recommend.TrendingProduct, error) {
	m.lastDays = days
	m.lastLimit = limit
	return m.trending, m.err
}

func (m *mockService) UserHistory(_ context.Context, userID string, limit int) ([]recommend.HistoryEntry, error) {
	m.lastUserID = userID
	m.lastLimit = limit
	return m.history, m.err
}

func (m *mockService) RecordView(_ context.Context, userID, productID string, _ int, _ string) error {
	m.lastUserID = userID
	m.lastProductID = productID
	return m.err
}

func (m *mockService) RecordPurchase(_ context.Context, userID, orderID string, items []recommend.PurchaseItem) error {
	m.lastUserID = userID
	m.lastItems = items
	return m.err
}

// mockPinger reports a fixed store health state.
type mockPinger struct {
	err error
}

func (p *mockPinger) Ping(context.Context) error { return p.err }

// mockPublisher captures published recommendation events.
type mockPublisher struct {
	events chan *eventprocessor.RecommendationGeneratedEvent
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{events: make(chan *eventprocessor.RecommendationGeneratedEvent, 1)}
}

func (p *mockPublisher) PublishRecommendationGenerated(_ context.Context, event *eventprocessor.RecommendationGeneratedEvent) error {
	p.events <- event
	return nil
}

// newTestServer builds a full routing tree over mocks with rate
// limiting disabled.
func newTestServer(service *mockService, store *mockPinger) http.Handler {
	handler := NewHandler(service, store, HandlerConfig{DefaultLimit: 10, MaxLimit: 50}, zerolog.Nop())

	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.RateLimitDisabled = true

	return NewRouter(handler, mwConfig).Setup()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func dataMap(t *testing.T, resp APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("response data is %T, want object", resp.Data)
	}
	return data
}

func TestGetRecommendations(t *testing.T) {
	service := &mockService{
		recommendations: []recommend.RecommendedProduct{
			{ProductID: "p1", Name: "Widget", Category: "tools", Score: 0.9, Reason: "popular among similar shoppers"},
			{ProductID: "p2", Name: "Gadget", Category: "tools", Score: 0.7, Reason: "popular among similar shoppers"},
		},
	}
	server := newTestServer(service, &mockPinger{})

	rec, resp := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/user-1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Meta == nil || resp.Meta.Count != 2 {
		t.Errorf("Meta.Count = %v, want 2", resp.Meta)
	}
	if service.lastUserID != "user-1" {
		t.Errorf("service called with userID %q, want user-1", service.lastUserID)
	}
	if service.lastLimit != 10 {
		t.Errorf("service called with limit %d, want default 10", service.lastLimit)
	}

	data := dataMap(t, resp)
	if data["user_id"] != "user-1" {
		t.Errorf("data.user_id = %v, want user-1", data["user_id"])
	}
}

func TestGetRecommendationsLimitClamped(t *testing.T) {
	service := &mockService{}
	server := newTestServer(service, &mockPinger{})

	rec, _ := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/user-1?limit=9000", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastLimit != 50 {
		t.Errorf("limit = %d, want clamped to 50", service.lastLimit)
	}
}

func TestGetRecommendationsStorageError(t *testing.T) {
	service := &mockService{err: errors.New("neo4j: connection refused")}
	server := newTestServer(service, &mockPinger{})

	rec, resp := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/user-1", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeStorageError {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeStorageError)
	}
	if resp.Error != nil && strings.Contains(resp.Error.Message, "neo4j") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestGetRecommendationsPublishesEvent(t *testing.T) {
	service := &mockService{
		recommendations: []recommend.RecommendedProduct{{ProductID: "p1"}, {ProductID: "p2"}},
	}
	publisher := newMockPublisher()

	handler := NewHandler(service, &mockPinger{}, HandlerConfig{}, zerolog.Nop())
	handler.SetEventPublisher(publisher)

	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.RateLimitDisabled = true
	server := NewRouter(handler, mwConfig).Setup()

	doRequest(t, server, http.MethodGet, "/api/v1/recommendations/user-1", "")

	select {
	case event := <-publisher.events:
		if event.UserID != "user-1" {
			t.Errorf("event.UserID = %q, want user-1", event.UserID)
		}
		if event.AlgorithmUsed != "collaborative" {
			t.Errorf("event.AlgorithmUsed = %q, want collaborative", event.AlgorithmUsed)
		}
		if len(event.RecommendedProductIDs) != 2 {
			t.Errorf("event.RecommendedProductIDs = %v, want 2 IDs", event.RecommendedProductIDs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recommendation event was not published")
	}
}

func TestGetSimilar(t *testing.T) {
	service := &mockService{
		similar: []recommend.SimilarProduct{
			{ProductID: "p2", Category: "tools", SimilarityScore: 0.8},
		},
	}
	server := newTestServer(service, &mockPinger{})

	rec, resp := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/similar/p1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastProductID != "p1" {
		t.Errorf("service called with productID %q, want p1", service.lastProductID)
	}

	data := dataMap(t, resp)
	if data["product_id"] != "p1" {
		t.Errorf("data.product_id = %v, want p1", data["product_id"])
	}
}

func TestGetTrending(t *testing.T) {
	service := &mockService{
		trending: []recommend.TrendingProduct{
			{ProductID: "p1", RecentPurchases: 12, TrendScore: 3.5},
		},
	}
	server := newTestServer(service, &mockPinger{})

	rec, resp := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/trending?days=30&limit=5", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastDays != 30 {
		t.Errorf("days = %d, want 30", service.lastDays)
	}
	if service.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", service.lastLimit)
	}

	data := dataMap(t, resp)
	if data["window_days"] != float64(30) {
		t.Errorf("data.window_days = %v, want 30", data["window_days"])
	}
}

// "trending" must route to the trending handler, not match the
// {userID} wildcard at the same level.
func TestTrendingNotShadowedByUserRoute(t *testing.T) {
	service := &mockService{}
	server := newTestServer(service, &mockPinger{})

	doRequest(t, server, http.MethodGet, "/api/v1/recommendations/trending", "")

	if service.lastDays != recommend.DefaultTrendingDays {
		t.Errorf("trending handler not invoked, days = %d", service.lastDays)
	}
	if service.lastUserID != "" {
		t.Errorf("user handler invoked with userID %q", service.lastUserID)
	}
}

func TestGetHistory(t *testing.T) {
	service := &mockService{
		history: []recommend.HistoryEntry{
			{ProductID: "p1", Quantity: 1, Price: 19.99, PurchaseDate: time.Now()},
		},
	}
	server := newTestServer(service, &mockPinger{})

	rec, resp := doRequest(t, server, http.MethodGet, "/api/v1/recommendations/history/user-1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Meta == nil || resp.Meta.Count != 1 {
		t.Errorf("Meta.Count = %v, want 1", resp.Meta)
	}
	if service.lastUserID != "user-1" {
		t.Errorf("service called with userID %q, want user-1", service.lastUserID)
	}
}

func TestPostView(t *testing.T) {
	service := &mockService{}
	server := newTestServer(service, &mockPinger{})

	body := `{"user_id":"u1","product_id":"p1","duration":30,"source":"search"}`
	rec, resp := doRequest(t, server, http.MethodPost, "/api/v1/recommendations/view", body)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if service.lastUserID != "u1" || service.lastProductID != "p1" {
		t.Errorf("service called with (%q, %q), want (u1, p1)", service.lastUserID, service.lastProductID)
	}
}

func TestPostViewInvalidBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "malformed json",
			body:     `{"user_id":`,
			wantCode: ErrCodeBadRequest,
		},
		{
			name:     "unknown field",
			body:     `{"user_id":"u1","product_id":"p1","color":"red"}`,
			wantCode: ErrCodeBadRequest,
		},
		{
			name:     "missing user id",
			body:     `{"product_id":"p1"}`,
			wantCode: ErrCodeValidationFailed,
		},
		{
			name:     "missing product id",
			body:     `{"user_id":"u1"}`,
			wantCode: ErrCodeValidationFailed,
		},
		{
			name:     "negative duration",
			body:     `{"user_id":"u1","product_id":"p1","duration":-5}`,
			wantCode: ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&mockService{}, &mockPinger{})

			rec, resp := doRequest(t, server, http.MethodPost, "/api/v1/recommendations/view", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestPostPurchase(t *testing.T) {
	service := &mockService{}
	server := newTestServer(service, &mockPinger{})

	body := `{"user_id":"u1","order_id":"o1","items":[
		{"product_id":"p1","quantity":2,"price":9.99},
		{"product_id":"p2","quantity":1,"price":24.50}
	]}`
	rec, resp := doRequest(t, server, http.MethodPost, "/api/v1/recommendations/purchase", body)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	data := dataMap(t, resp)
	if data["items"] != float64(2) {
		t.Errorf("data.items = %v, want 2", data["items"])
	}
	if len(service.lastItems) != 2 {
		t.Fatalf("service received %d items, want 2", len(service.lastItems))
	}
	if service.lastItems[0].ProductID != "p1" || service.lastItems[0].Quantity != 2 {
		t.Errorf("first item = %+v", service.lastItems[0])
	}
}

func TestPostPurchaseValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "empty items",
			body: `{"user_id":"u1","order_id":"o1","items":[]}`,
		},
		{
			name: "missing order id",
			body: `{"user_id":"u1","items":[{"product_id":"p1","quantity":1,"price":1}]}`,
		},
		{
			name: "zero quantity",
			body: `{"user_id":"u1","order_id":"o1","items":[{"product_id":"p1","quantity":0,"price":1}]}`,
		},
		{
			name: "zero price",
			body: `{"user_id":"u1","order_id":"o1","items":[{"product_id":"p1","quantity":1,"price":0}]}`,
		},
		{
			name: "negative price",
			body: `{"user_id":"u1","order_id":"o1","items":[{"product_id":"p1","quantity":1,"price":-2.50}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockService{}
			server := newTestServer(service, &mockPinger{})

			rec, resp := doRequest(t, server, http.MethodPost, "/api/v1/recommendations/purchase", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
				t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeValidationFailed)
			}
			if service.lastUserID != "" {
				t.Error("service should not be called on validation failure")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{
			name:       "healthy",
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name:       "store unreachable",
			pingErr:    errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&mockService{}, &mockPinger{err: tt.pingErr})

			rec, resp := doRequest(t, server, http.MethodGet, "/healthz", "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.pingErr == nil {
				data := dataMap(t, resp)
				if data["status"] != tt.wantState {
					t.Errorf("data.status = %v, want %s", data["status"], tt.wantState)
				}
				if data["store_connected"] != true {
					t.Error("data.store_connected = false, want true")
				}
			} else {
				if resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
					t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeServiceUnavailable)
				}
			}
		})
	}
}

func TestRequestIDEchoed(t *testing.T) {
	server := newTestServer(&mockService{}, &mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID = %q, want req-abc-123", got)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Meta == nil || resp.Meta.RequestID != "req-abc-123" {
		t.Errorf("Meta.RequestID = %v, want req-abc-123", resp.Meta)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(&mockService{}, &mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing standard Go collector metrics")
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	server := newTestServer(&mockService{}, &mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
