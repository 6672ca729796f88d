package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/phrazzld/estate-api/internal/api/shared"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/phrazzld/estate-api/internal/store"
)

// PropertyService is the property surface used by the handlers.
type PropertyService interface {
	CreateProperty(ctx context.Context, p *domain.Property) (*domain.Property, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	ViewProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	ListProperties(ctx context.Context, filter store.PropertyFilter) ([]*domain.Property, error)
	MapProperties(ctx context.Context) ([]*domain.Property, error)
}

// ContentService is the content surface used by the handlers.
type ContentService interface {
	Regenerate(ctx context.Context, propertyID uuid.UUID) (*domain.GeneratedContent, error)
	RequestRegeneration(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error)
}

// PropertyHandler serves property, category and content endpoints.
type PropertyHandler struct {
	properties PropertyService
	content    ContentService
	logger     *slog.Logger
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(properties PropertyService, content ContentService, logger *slog.Logger) *PropertyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyHandler{
		properties: properties,
		content:    content,
		logger:     logger.With("component", "property_handler"),
	}
}

// GetProperty handles GET /api/properties/{id}.
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.properties.ViewProperty(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, propertyToResponse(p))
}

// CreateProperty handles POST /api/properties.
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	p, err := req.toDomain()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	created, err := h.properties.CreateProperty(r.Context(), p)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).InfoContext(r.Context(), "property created",
		"property_id", created.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, propertyToResponse(created))
}

// CreateCategory handles POST /api/categories.
func (h *PropertyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	c, err := domain.NewCategory(req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.properties.CreateCategory(r.Context(), c); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, categoryToResponse(c))
}

// RegenerateContent handles POST /api/properties/{id}/content. It blocks
// until the content is generated and stored.
func (h *PropertyHandler) RegenerateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	content, err := h.content.Regenerate(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, contentToResponse(content))
}

// EnqueueContentJob handles POST /api/properties/{id}/content/jobs.
func (h *PropertyHandler) EnqueueContentJob(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	taskID, err := h.content.RequestRegeneration(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, ContentJobResponse{
		TaskID:     taskID,
		PropertyID: id,
		Status:     "queued",
	})
}

// ListProperties handles GET /api/properties. The optional location
// parameter matches city, zip code or street; category_id, limit and offset
// narrow and page the result.
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	q, err := parseListPropertiesQuery(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	if err := shared.ValidateRequest(&q); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	filter := q.toFilter()
	props, err := h.properties.ListProperties(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := PropertyListResponse{
		Properties: make([]PropertyResponse, 0, len(props)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	for _, p := range props {
		resp.Properties = append(resp.Properties, propertyToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func parseListPropertiesQuery(r *http.Request) (ListPropertiesQuery, error) {
	values := r.URL.Query()
	q := ListPropertiesQuery{
		Location:   strings.TrimSpace(values.Get("location")),
		CategoryID: values.Get("category_id"),
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &q.Limit}, {"offset", &q.Offset}} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%s must be an integer: %w", p.name, err)
		}
		*p.dst = n
	}
	return q, nil
}

// MapProperties handles GET /api/properties/map and answers with a GeoJSON
// FeatureCollection of published, located properties.
func (h *PropertyHandler) MapProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.MapProperties(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithContentType(w, r, http.StatusOK, "application/geo+json", propertiesToFeatureCollection(props))
}

func propertiesToFeatureCollection(props []*domain.Property) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range props {
		if !p.HasLocation() {
			continue
		}
		f := geojson.NewFeature(*p.Location)
		f.ID = p.ID.String()
		f.Properties["id"] = p.ID.String()
		f.Properties["name"] = p.Name
		f.Properties["street"] = p.Street
		f.Properties["price"] = p.Price
		f.Properties["contact_phone"] = p.ContactPhone
		f.Properties["contact_email"] = p.ContactEmail
		fc.Append(f)
	}
	return fc
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// HealthHandler returns GET /health. A nil checker skips the database ping.
func HealthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "skipped"})
			return
		}
		if err := db.PingContext(r.Context()); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable",
				errors.Join(errors.New("health check failed"), err))
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
