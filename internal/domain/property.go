package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// DefaultCity is applied to new properties that do not name a city.
const DefaultCity = "Visakhapatnam"

// Property is a real-estate listing.
type Property struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	AliasName        string     `json:"alias_name,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	Description      string     `json:"description,omitempty"`
	Price            float64    `json:"price"`
	Area             float64    `json:"area"`
	Street           string     `json:"street,omitempty"`
	Locality         string     `json:"locality,omitempty"`
	City             string     `json:"city,omitempty"`
	ZipCode          string     `json:"zip_code,omitempty"`
	Location         *orb.Point `json:"location,omitempty"`
	ContactName      string     `json:"contact_name,omitempty"`
	ContactPhone     string     `json:"contact_phone,omitempty"`
	ContactEmail     string     `json:"contact_email,omitempty"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	CategoryName     string     `json:"category_name,omitempty"`
	IsPublished      bool       `json:"is_published"`
	ViewsCount       int        `json:"views_count"`

	// ContentGenerated mirrors whether Content holds a successful generation.
	ContentGenerated bool              `json:"content_generated"`
	Content          *GeneratedContent `json:"content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProperty creates a Property with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewProperty(name string) (*Property, error) {
	now := time.Now().UTC()
	p := &Property{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		City:      DefaultCity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Property has valid data.
func (p *Property) Validate() error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyPropertyID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyPropertyName)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNegativePrice)
	}
	if p.Area < 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNegativeArea)
	}
	if p.Location != nil {
		lon, lat := p.Location.Lon(), p.Location.Lat()
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fmt.Errorf("%w: %w: lat=%v lon=%v", ErrValidation, ErrInvalidLocation, lat, lon)
		}
	}
	return nil
}

// Address joins the non-empty street, locality and city parts.
func (p *Property) Address() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Street, p.Locality, p.City} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Facts projects the property onto the attributes used for content generation.
func (p *Property) Facts() PropertyFacts {
	return PropertyFacts{
		Name:     strings.TrimSpace(p.Name),
		Address:  p.Address(),
		Price:    p.Price,
		Area:     p.Area,
		Category: strings.TrimSpace(p.CategoryName),
	}
}

// HasLocation reports whether the property can be placed on a map.
func (p *Property) HasLocation() bool {
	return p.Location != nil && !(p.Location.Lat() == 0 && p.Location.Lon() == 0)
}
