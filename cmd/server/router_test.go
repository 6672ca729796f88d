package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/api"
	"github.com/phrazzld/estate-api/internal/config"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/mocks"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const completionBody = `{
  "choices": [{
    "message": {"role": "assistant", "content": "` + "```json\\n" + `{\"key_highlights\": [\"Sea view\", \"Gated community\"], \"investment_data\": \"Yield near 4%\", \"nearby_places\": [\"RK Beach, 2 km\"], \"unique_features\": \"Rooftop garden\"}` + "\\n```" + `"},
    "finish_reason": "stop"
  }]
}`

type testServer struct {
	handler    http.Handler
	db         sqlmock.Sqlmock
	properties *mocks.MockPropertyStore
	categories *mocks.MockCategoryStore
	app        *application
}

func newTestServer(t *testing.T, llm http.HandlerFunc, opts ...func(*config.Config)) *testServer {
	t.Helper()

	llmServer := httptest.NewServer(llm)
	t.Cleanup(llmServer.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("operator-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug"},
		Auth: config.AuthConfig{
			JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
			TokenLifetimeMinutes: 60,
			OperatorUsername:     "operator",
			OperatorPasswordHash: string(hash),
		},
		LLM: config.LLMConfig{
			Provider:        "openai",
			APIKey:          "sk-test",
			BaseURL:         llmServer.URL,
			ModelName:       "gpt-4o-mini",
			MaxOutputTokens: 800,
			TimeoutSeconds:  5,
		},
		Task: config.TaskConfig{WorkerCount: 1, QueueSize: 4, BackfillBatchSize: 5},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ts := &testServer{
		db:         dbMock,
		properties: &mocks.MockPropertyStore{},
		categories: &mocks.MockCategoryStore{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts.app, err = buildApplication(cfg, logger, db, ts.properties, ts.categories)
	require.NoError(t, err)
	ts.handler = ts.app.setupRouter()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/token", "", api.TokenRequest{
		Username: "operator",
		Password: "operator-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.AccessToken
}

func okCompletion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, completionBody)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)
	id := uuid.NewString()

	for _, path := range []string{
		"/api/properties",
		"/api/categories",
		"/api/properties/" + id + "/content",
		"/api/properties/" + id + "/content/jobs",
	} {
		rec := ts.do(t, http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := ts.do(t, http.MethodPost, "/api/auth/token", "", api.TokenRequest{Username: "operator", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSynchronousRegeneration(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)
	id := uuid.New()

	facts := domain.PropertyFacts{Name: "Lakeview Residency", Address: "Beach Road, Visakhapatnam", Price: 7500000, Area: 1450}
	ts.properties.On("GetFacts", mock.Anything, id).Return(facts, nil)

	var persisted *domain.GeneratedContent
	ts.properties.On("PersistContent", mock.Anything, id, mock.Anything).
		Run(func(args mock.Arguments) { persisted = args.Get(2).(*domain.GeneratedContent) }).
		Return(nil)

	rec := ts.do(t, http.MethodPost, "/api/properties/"+id.String()+"/content", ts.token(t), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.ContentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "<ul><li>Sea view</li><li>Gated community</li></ul>", resp.KeyHighlights)
	assert.Equal(t, "Yield near 4%", resp.InvestmentData)
	assert.Equal(t, "<ul><li>RK Beach, 2 km</li></ul>", resp.NearbyPlaces)
	assert.Equal(t, "Rooftop garden", resp.UniqueFeatures)
	assert.False(t, resp.Degraded)

	require.NotNil(t, persisted)
	assert.Equal(t, resp.KeyHighlights, persisted.KeyHighlights)
}

func TestSynchronousRegeneration_ProviderDown(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}, func(cfg *config.Config) { cfg.LLM.MaxRetries = 0 })

	id := uuid.New()
	ts.properties.On("GetFacts", mock.Anything, id).Return(domain.PropertyFacts{Name: "Plot 9"}, nil)

	rec := ts.do(t, http.MethodPost, "/api/properties/"+id.String()+"/content", ts.token(t), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "overloaded")
	ts.properties.AssertNotCalled(t, "PersistContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynchronousRegeneration_MissingAPIKey(t *testing.T) {
	t.Parallel()
	var calls int
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		okCompletion(w, r)
	}, func(cfg *config.Config) { cfg.LLM.APIKey = "" })

	id := uuid.New()
	ts.properties.On("GetFacts", mock.Anything, id).Return(domain.PropertyFacts{Name: "Plot 9"}, nil)

	rec := ts.do(t, http.MethodPost, "/api/properties/"+id.String()+"/content", ts.token(t), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, calls, "no request is sent without an API key")
}

func TestViewPropertySchedulesContent(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)

	p, err := domain.NewProperty("Lakeview Residency")
	require.NoError(t, err)
	ts.properties.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	ts.properties.On("IncrementViews", mock.Anything, p.ID).Return(nil)
	ts.properties.On("IsContentGenerated", mock.Anything, p.ID).Return(false, nil)

	rec := ts.do(t, http.MethodGet, "/api/properties/"+p.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.app.taskQueue.Len(), "view queues background generation")

	missing := uuid.New()
	ts.properties.On("GetByID", mock.Anything, missing).Return(nil, store.ErrPropertyNotFound)
	rec = ts.do(t, http.MethodGet, "/api/properties/"+missing.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePropertyAndEnqueueJob(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)
	token := ts.token(t)

	ts.db.ExpectBegin()
	ts.properties.On("Create", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)
	ts.db.ExpectCommit()
	rec := ts.do(t, http.MethodPost, "/api/properties", token, api.CreatePropertyRequest{Name: "Harbour View Villa", Price: 12000000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created api.PropertyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NoError(t, ts.db.ExpectationsWereMet())

	ts.properties.On("IsContentGenerated", mock.Anything, created.ID).Return(false, nil)
	rec = ts.do(t, http.MethodPost, "/api/properties/"+created.ID.String()+"/content/jobs", token, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	missing := uuid.New()
	ts.properties.On("IsContentGenerated", mock.Anything, missing).Return(false, store.ErrPropertyNotFound)
	rec = ts.do(t, http.MethodPost, "/api/properties/"+missing.String()+"/content/jobs", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPropertiesIsPublic(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, okCompletion)

	p, err := domain.NewProperty("Lakeview Residency")
	require.NoError(t, err)
	p.City = "Visakhapatnam"
	ts.properties.On("FindPublished", mock.Anything, store.PropertyFilter{Location: "visakha", Limit: store.DefaultPropertyListLimit}).
		Return([]*domain.Property{p}, nil)

	rec := ts.do(t, http.MethodGet, "/api/properties?location=visakha", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.PropertyListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Properties, 1)
	assert.Equal(t, p.ID, resp.Properties[0].ID)
}
