package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
)

// Listing page bounds applied by FindPublished.
const (
	DefaultPropertyListLimit = 20
	MaxPropertyListLimit     = 100
)

// PropertyFilter narrows a published property listing.
type PropertyFilter struct {
	// Location matches city, zip code or street, case-insensitively.
	// Empty matches every property.
	Location string

	// CategoryID restricts results to one category when set.
	CategoryID *uuid.UUID

	// Limit is clamped to [1, MaxPropertyListLimit]; zero means DefaultPropertyListLimit.
	Limit  int
	Offset int
}

// Normalized returns the filter with trimmed location and bounded paging.
func (f PropertyFilter) Normalized() PropertyFilter {
	f.Location = strings.TrimSpace(f.Location)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPropertyListLimit
	case f.Limit > MaxPropertyListLimit:
		f.Limit = MaxPropertyListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// PropertyStore defines the interface for property data persistence.
type PropertyStore interface {
	// Create saves a new property. It validates the property first and
	// returns validation errors from the domain if the data is invalid.
	Create(ctx context.Context, property *domain.Property) error

	// GetByID retrieves a property with its category name and generated content.
	// Returns ErrPropertyNotFound if the property does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)

	// GetFacts retrieves the attributes used to build a generation prompt.
	// Returns ErrPropertyNotFound if the property does not exist.
	GetFacts(ctx context.Context, id uuid.UUID) (domain.PropertyFacts, error)

	// IsContentGenerated reports whether the property holds generated content.
	// Returns ErrPropertyNotFound if the property does not exist.
	IsContentGenerated(ctx context.Context, id uuid.UUID) (bool, error)

	// PersistContent overwrites the four content fields, the generated flag
	// and its timestamp in a single statement.
	// Returns ErrPropertyNotFound if the property does not exist.
	PersistContent(ctx context.Context, id uuid.UUID, content *domain.GeneratedContent) error

	// FindWithoutContent lists up to limit property IDs that have no
	// generated content, oldest first.
	FindWithoutContent(ctx context.Context, limit int) ([]uuid.UUID, error)

	// FindPublishedWithLocation lists published properties that have coordinates.
	FindPublishedWithLocation(ctx context.Context) ([]*domain.Property, error)

	// FindPublished lists published properties matching the filter, newest first.
	FindPublished(ctx context.Context, filter PropertyFilter) ([]*domain.Property, error)

	// IncrementViews adds one to the property's view counter.
	// Returns ErrPropertyNotFound if the property does not exist.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PropertyStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PropertyStore
}
