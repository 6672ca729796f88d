package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/phrazzld/estate-api/internal/redact"
	"github.com/phrazzld/estate-api/internal/store"
)

// ContentRequester schedules background content generation.
type ContentRequester interface {
	RequestContent(ctx context.Context, propertyID uuid.UUID) error
}

// PropertyService serves property reads and writes for the API.
type PropertyService struct {
	db         store.TxBeginner
	properties store.PropertyStore
	categories store.CategoryStore
	content    ContentRequester
	logger     *slog.Logger
}

// NewPropertyService creates a PropertyService.
func NewPropertyService(
	db store.TxBeginner,
	properties store.PropertyStore,
	categories store.CategoryStore,
	content ContentRequester,
	logger *slog.Logger,
) (*PropertyService, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	if properties == nil || categories == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if content == nil {
		return nil, errors.New("content requester cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &PropertyService{
		db:         db,
		properties: properties,
		categories: categories,
		content:    content,
		logger:     logger.With("component", "property_service"),
	}, nil
}

// CreateProperty validates and stores a new property. When CategoryID is set
// the category must exist; its name is copied onto the returned property.
// The category check and the insert share one transaction.
func (s *PropertyService) CreateProperty(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if p.CategoryID != nil {
			c, err := s.categories.WithTx(tx).GetByID(ctx, *p.CategoryID)
			if err != nil {
				return NewServiceError("create_property", "failed to load category", err)
			}
			p.CategoryName = c.Name
		}
		if err := s.properties.WithTx(tx).Create(ctx, p); err != nil {
			return NewServiceError("create_property", "failed to store property", err)
		}
		return nil
	})
	if errors.Is(err, store.ErrTransactionFailed) {
		return nil, NewServiceError("create_property", "transaction failed", err)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateCategory stores a new category.
func (s *PropertyService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.categories.Create(ctx, c); err != nil {
		if store.IsDuplicateError(err) {
			return err
		}
		return NewServiceError("create_category", "failed to store category", err)
	}
	return nil
}

// ViewProperty returns a property for display, counts the view and, when the
// property has no content yet, schedules generation in the background.
// Counting and scheduling failures are logged and never fail the view.
func (s *PropertyService) ViewProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("view_property", "failed to load property", err)
	}

	if err := s.properties.IncrementViews(ctx, id); err != nil {
		log.WarnContext(ctx, "failed to count property view", "property_id", id, "error", redact.Error(err))
	} else {
		p.ViewsCount++
	}

	if !p.ContentGenerated {
		if err := s.content.RequestContent(ctx, id); err != nil {
			log.WarnContext(ctx, "failed to schedule content generation",
				"property_id", id, "error", redact.Error(err))
		}
	}
	return p, nil
}

// ListProperties returns a page of published properties matching filter.
func (s *PropertyService) ListProperties(ctx context.Context, filter store.PropertyFilter) ([]*domain.Property, error) {
	props, err := s.properties.FindPublished(ctx, filter.Normalized())
	if err != nil {
		return nil, NewServiceError("list_properties", "failed to list properties", err)
	}
	return props, nil
}

// MapProperties lists published properties that can be placed on a map.
func (s *PropertyService) MapProperties(ctx context.Context) ([]*domain.Property, error) {
	props, err := s.properties.FindPublishedWithLocation(ctx)
	if err != nil {
		return nil, NewServiceError("map_properties", "failed to list properties", err)
	}
	return props, nil
}
