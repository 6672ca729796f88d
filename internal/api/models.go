package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/store"
)

// TokenRequest is the payload of the operator token endpoint.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	// ExpiresAt is the RFC 3339 expiry of AccessToken.
	ExpiresAt string `json:"expires_at"`
}

// CreateCategoryRequest is the payload for creating a property category.
type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// CategoryResponse is the API view of a category.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePropertyRequest is the payload for creating a property.
// Latitude and Longitude must be given together.
type CreatePropertyRequest struct {
	Name             string     `json:"name"              validate:"required,max=255"`
	AliasName        string     `json:"alias_name"        validate:"max=255"`
	ShortDescription string     `json:"short_description" validate:"max=500"`
	Description      string     `json:"description"`
	Price            float64    `json:"price"             validate:"gte=0"`
	Area             float64    `json:"area"              validate:"gte=0"`
	Street           string     `json:"street"            validate:"max=255"`
	Locality         string     `json:"locality"          validate:"max=255"`
	City             string     `json:"city"              validate:"max=100"`
	ZipCode          string     `json:"zip_code"          validate:"max=10"`
	Latitude         *float64   `json:"latitude"          validate:"omitempty,latitude"`
	Longitude        *float64   `json:"longitude"         validate:"omitempty,longitude"`
	ContactName      string     `json:"contact_name"      validate:"max=100"`
	ContactPhone     string     `json:"contact_phone"     validate:"max=15"`
	ContactEmail     string     `json:"contact_email"     validate:"omitempty,email"`
	CategoryID       *uuid.UUID `json:"category_id"`
	IsPublished      bool       `json:"is_published"`
}

// toDomain builds a new domain property from the request.
func (req *CreatePropertyRequest) toDomain() (*domain.Property, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("%w: %w: latitude and longitude must be set together", domain.ErrValidation, domain.ErrInvalidLocation)
	}
	p, err := domain.NewProperty(req.Name)
	if err != nil {
		return nil, err
	}
	p.AliasName = strings.TrimSpace(req.AliasName)
	p.ShortDescription = req.ShortDescription
	p.Description = req.Description
	p.Price = req.Price
	p.Area = req.Area
	p.Street = strings.TrimSpace(req.Street)
	p.Locality = strings.TrimSpace(req.Locality)
	if city := strings.TrimSpace(req.City); city != "" {
		p.City = city
	}
	p.ZipCode = strings.TrimSpace(req.ZipCode)
	if req.Latitude != nil && req.Longitude != nil {
		p.Location = &orb.Point{*req.Longitude, *req.Latitude}
	}
	p.ContactName = req.ContactName
	p.ContactPhone = req.ContactPhone
	p.ContactEmail = req.ContactEmail
	p.CategoryID = req.CategoryID
	p.IsPublished = req.IsPublished
	return p, p.Validate()
}

// ContentResponse is the generated copy of a property. Fields are empty
// strings when nothing has been generated yet.
type ContentResponse struct {
	KeyHighlights  string     `json:"key_highlights"`
	InvestmentData string     `json:"investment_data"`
	NearbyPlaces   string     `json:"nearby_places"`
	UniqueFeatures string     `json:"unique_features"`
	Degraded       bool       `json:"degraded"`
	GeneratedAt    *time.Time `json:"generated_at,omitempty"`
}

// PropertyResponse is the API view of a property.
type PropertyResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	AliasName        string          `json:"alias_name,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	Description      string          `json:"description,omitempty"`
	Price            float64         `json:"price"`
	Area             float64         `json:"area"`
	Street           string          `json:"street,omitempty"`
	Locality         string          `json:"locality,omitempty"`
	City             string          `json:"city,omitempty"`
	ZipCode          string          `json:"zip_code,omitempty"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	ContactName      string          `json:"contact_name,omitempty"`
	ContactPhone     string          `json:"contact_phone,omitempty"`
	ContactEmail     string          `json:"contact_email,omitempty"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName     string          `json:"category_name,omitempty"`
	IsPublished      bool            `json:"is_published"`
	ViewsCount       int             `json:"views_count"`
	ContentGenerated bool            `json:"content_generated"`
	Content          ContentResponse `json:"content"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListPropertiesQuery holds the query parameters of GET /api/properties.
type ListPropertiesQuery struct {
	Location   string `validate:"max=100"`
	CategoryID string `validate:"omitempty,uuid"`
	Limit      int    `validate:"gte=0,lte=100"`
	Offset     int    `validate:"gte=0"`
}

func (q *ListPropertiesQuery) toFilter() store.PropertyFilter {
	filter := store.PropertyFilter{Location: q.Location, Limit: q.Limit, Offset: q.Offset}
	if id, err := uuid.Parse(q.CategoryID); err == nil {
		filter.CategoryID = &id
	}
	return filter.Normalized()
}

// PropertyListResponse is one page of published properties.
type PropertyListResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// ContentJobResponse acknowledges a queued regeneration.
type ContentJobResponse struct {
	TaskID     uuid.UUID `json:"task_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Status     string    `json:"status"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func contentToResponse(c *domain.GeneratedContent) ContentResponse {
	if c == nil {
		return ContentResponse{}
	}
	resp := ContentResponse{
		KeyHighlights:  c.KeyHighlights,
		InvestmentData: c.InvestmentData,
		NearbyPlaces:   c.NearbyPlaces,
		UniqueFeatures: c.UniqueFeatures,
		Degraded:       c.Degraded,
	}
	if !c.GeneratedAt.IsZero() {
		at := c.GeneratedAt
		resp.GeneratedAt = &at
	}
	return resp
}

func propertyToResponse(p *domain.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:               p.ID,
		Name:             p.Name,
		AliasName:        p.AliasName,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Price:            p.Price,
		Area:             p.Area,
		Street:           p.Street,
		Locality:         p.Locality,
		City:             p.City,
		ZipCode:          p.ZipCode,
		ContactName:      p.ContactName,
		ContactPhone:     p.ContactPhone,
		ContactEmail:     p.ContactEmail,
		CategoryID:       p.CategoryID,
		CategoryName:     p.CategoryName,
		IsPublished:      p.IsPublished,
		ViewsCount:       p.ViewsCount,
		ContentGenerated: p.ContentGenerated,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.Location != nil {
		lat, lon := p.Location.Lat(), p.Location.Lon()
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	if p.ContentGenerated {
		resp.Content = contentToResponse(p.Content)
	}
	return resp
}

func categoryToResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
