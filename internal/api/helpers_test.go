package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/stretchr/testify/require"
)

type fakePropertyService struct {
	CreatePropertyFn func(ctx context.Context, p *domain.Property) (*domain.Property, error)
	CreateCategoryFn func(ctx context.Context, c *domain.Category) error
	ViewPropertyFn   func(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	MapPropertiesFn  func(ctx context.Context) ([]*domain.Property, error)
	ListPropertiesFn func(ctx context.Context, filter store.PropertyFilter) ([]*domain.Property, error)
}

func (f *fakePropertyService) ListProperties(ctx context.Context, filter store.PropertyFilter) ([]*domain.Property, error) {
	return f.ListPropertiesFn(ctx, filter)
}

func (f *fakePropertyService) CreateProperty(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	if f.CreatePropertyFn != nil {
		return f.CreatePropertyFn(ctx, p)
	}
	return p, nil
}

func (f *fakePropertyService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if f.CreateCategoryFn != nil {
		return f.CreateCategoryFn(ctx, c)
	}
	return nil
}

func (f *fakePropertyService) ViewProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return f.ViewPropertyFn(ctx, id)
}

func (f *fakePropertyService) MapProperties(ctx context.Context) ([]*domain.Property, error) {
	return f.MapPropertiesFn(ctx)
}

type fakeContentService struct {
	RegenerateFn          func(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error)
	RequestRegenerationFn func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

func (f *fakeContentService) Regenerate(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	return f.RegenerateFn(ctx, id)
}

func (f *fakeContentService) RequestRegeneration(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return f.RequestRegenerationFn(ctx, id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter mounts the property handler routes without authentication.
func newTestRouter(h *PropertyHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/properties", h.ListProperties)
	r.Get("/api/properties/map", h.MapProperties)
	r.Get("/api/properties/{id}", h.GetProperty)
	r.Post("/api/properties", h.CreateProperty)
	r.Post("/api/categories", h.CreateCategory)
	r.Post("/api/properties/{id}/content", h.RegenerateContent)
	r.Post("/api/properties/{id}/content/jobs", h.EnqueueContentJob)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
