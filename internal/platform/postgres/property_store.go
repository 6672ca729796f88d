package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/phrazzld/estate-api/internal/store"
)

// PostgresPropertyStore implements the store.PropertyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPropertyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPropertyStore creates a new PostgreSQL implementation of the PropertyStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPropertyStore(db store.DBTX, logger *slog.Logger) *PostgresPropertyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPropertyStore{
		db:     db,
		logger: logger.With(slog.String("component", "property_store")),
	}
}

// Ensure PostgresPropertyStore implements store.PropertyStore interface
var _ store.PropertyStore = (*PostgresPropertyStore)(nil)

const propertyColumns = `
	p.id, p.name, p.alias_name, p.short_description, p.description,
	p.price, p.area, p.street, p.locality, p.city, p.zip_code,
	p.latitude, p.longitude, p.contact_name, p.contact_phone, p.contact_email,
	p.category_id, COALESCE(c.name, ''), p.is_published, p.views_count,
	p.key_highlights, p.investment_data, p.nearby_places, p.unique_features,
	p.content_degraded, p.content_generated, p.content_generated_at,
	p.created_at, p.updated_at`

const propertyFrom = `
	FROM properties p
	LEFT JOIN property_categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	var (
		p           domain.Property
		lat, lon    sql.NullFloat64
		categoryID  uuid.NullUUID
		content     domain.GeneratedContent
		generatedAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.AliasName, &p.ShortDescription, &p.Description,
		&p.Price, &p.Area, &p.Street, &p.Locality, &p.City, &p.ZipCode,
		&lat, &lon, &p.ContactName, &p.ContactPhone, &p.ContactEmail,
		&categoryID, &p.CategoryName, &p.IsPublished, &p.ViewsCount,
		&content.KeyHighlights, &content.InvestmentData, &content.NearbyPlaces, &content.UniqueFeatures,
		&content.Degraded, &p.ContentGenerated, &generatedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		p.Location = &orb.Point{lon.Float64, lat.Float64}
	}
	if categoryID.Valid {
		id := categoryID.UUID
		p.CategoryID = &id
	}
	if p.ContentGenerated {
		if generatedAt.Valid {
			content.GeneratedAt = generatedAt.Time.UTC()
		}
		p.Content = &content
	}
	return &p, nil
}

func nullableCoords(loc *orb.Point) (lat, lon sql.NullFloat64) {
	if loc == nil {
		return lat, lon
	}
	return sql.NullFloat64{Float64: loc.Lat(), Valid: true}, sql.NullFloat64{Float64: loc.Lon(), Valid: true}
}

// Create implements store.PropertyStore.Create
func (s *PostgresPropertyStore) Create(ctx context.Context, property *domain.Property) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := property.Validate(); err != nil {
		log.Warn("property validation failed during create",
			slog.String("error", err.Error()),
			slog.String("property_id", property.ID.String()))
		return err
	}

	lat, lon := nullableCoords(property.Location)
	query := `
		INSERT INTO properties (
			id, name, alias_name, short_description, description,
			price, area, street, locality, city, zip_code,
			latitude, longitude, contact_name, contact_phone, contact_email,
			category_id, is_published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := s.db.ExecContext(ctx, query,
		property.ID, property.Name, property.AliasName, property.ShortDescription, property.Description,
		property.Price, property.Area, property.Street, property.Locality, property.City, property.ZipCode,
		lat, lon, property.ContactName, property.ContactPhone, property.ContactEmail,
		uuidOrNull(property.CategoryID), property.IsPublished, property.CreatedAt, property.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("unknown category during property creation",
				slog.String("property_id", property.ID.String()))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, store.ErrCategoryNotFound)
		}
		log.Error("failed to create property",
			slog.String("error", err.Error()),
			slog.String("property_id", property.ID.String()))
		return MapError(err)
	}

	log.Info("property created", slog.String("property_id", property.ID.String()))
	return nil
}

// GetByID implements store.PropertyStore.GetByID
func (s *PostgresPropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + propertyColumns + propertyFrom + ` WHERE p.id = $1`
	p, err := scanProperty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("property not found", slog.String("property_id", id.String()))
			return nil, store.ErrPropertyNotFound
		}
		log.Error("failed to get property",
			slog.String("error", err.Error()),
			slog.String("property_id", id.String()))
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// GetFacts implements store.PropertyStore.GetFacts
func (s *PostgresPropertyStore) GetFacts(ctx context.Context, id uuid.UUID) (domain.PropertyFacts, error) {
	query := `
		SELECT p.name, p.street, p.locality, p.city, p.price, p.area, COALESCE(c.name, '')
		FROM properties p
		LEFT JOIN property_categories c ON c.id = p.category_id
		WHERE p.id = $1
	`
	var p domain.Property
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.Name, &p.Street, &p.Locality, &p.City, &p.Price, &p.Area, &p.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PropertyFacts{}, store.ErrPropertyNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get property facts",
			slog.String("error", err.Error()),
			slog.String("property_id", id.String()))
		return domain.PropertyFacts{}, fmt.Errorf("failed to get property facts: %w", err)
	}
	return p.Facts(), nil
}

// IsContentGenerated implements store.PropertyStore.IsContentGenerated
func (s *PostgresPropertyStore) IsContentGenerated(ctx context.Context, id uuid.UUID) (bool, error) {
	var generated bool
	err := s.db.QueryRowContext(ctx,
		`SELECT content_generated FROM properties WHERE id = $1`, id,
	).Scan(&generated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrPropertyNotFound
		}
		return false, fmt.Errorf("failed to read content flag: %w", err)
	}
	return generated, nil
}

// PersistContent implements store.PropertyStore.PersistContent.
// All four fields, the flag and the timestamp change in one UPDATE.
func (s *PostgresPropertyStore) PersistContent(
	ctx context.Context,
	id uuid.UUID,
	content *domain.GeneratedContent,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if content == nil {
		return fmt.Errorf("%w: content cannot be nil", store.ErrInvalidEntity)
	}

	query := `
		UPDATE properties
		SET key_highlights = $2,
			investment_data = $3,
			nearby_places = $4,
			unique_features = $5,
			content_degraded = $6,
			content_generated = TRUE,
			content_generated_at = $7,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id,
		content.KeyHighlights, content.InvestmentData, content.NearbyPlaces, content.UniqueFeatures,
		content.Degraded, content.GeneratedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to persist generated content",
			slog.String("error", err.Error()),
			slog.String("property_id", id.String()))
		return store.NewStoreError("property", "persist_content", "update failed", MapError(err))
	}
	if err := checkRowsAffected(result, store.ErrPropertyNotFound); err != nil {
		return err
	}

	log.Info("generated content persisted",
		slog.String("property_id", id.String()),
		slog.Bool("degraded", content.Degraded))
	return nil
}

// FindWithoutContent implements store.PropertyStore.FindWithoutContent
func (s *PostgresPropertyStore) FindWithoutContent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return []uuid.UUID{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM properties
		WHERE NOT content_generated
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties without content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties without content: %w", err)
	}
	return ids, nil
}

// FindPublishedWithLocation implements store.PropertyStore.FindPublishedWithLocation
func (s *PostgresPropertyStore) FindPublishedWithLocation(ctx context.Context) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + propertyFrom + `
		WHERE p.is_published AND p.latitude IS NOT NULL AND p.longitude IS NOT NULL
		ORDER BY p.name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query published properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	properties := []*domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		if p.HasLocation() {
			properties = append(properties, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating published properties: %w", err)
	}
	return properties, nil
}

// FindPublished implements store.PropertyStore.FindPublished
func (s *PostgresPropertyStore) FindPublished(
	ctx context.Context,
	filter store.PropertyFilter,
) ([]*domain.Property, error) {
	filter = filter.Normalized()

	query := `SELECT ` + propertyColumns + propertyFrom + `
		WHERE p.is_published
			AND ($1 = '' OR p.city ILIKE $2 OR p.zip_code ILIKE $2 OR p.street ILIKE $2)
			AND ($3::uuid IS NULL OR p.category_id = $3)
		ORDER BY p.created_at DESC, p.id
		LIMIT $4 OFFSET $5`

	rows, err := s.db.QueryContext(ctx, query,
		filter.Location, containsPattern(filter.Location), uuidOrNull(filter.CategoryID),
		filter.Limit, filter.Offset,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list published properties",
			slog.String("error", err.Error()),
			slog.String("location", filter.Location))
		return nil, fmt.Errorf("failed to list published properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	properties := make([]*domain.Property, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating published properties: %w", err)
	}
	return properties, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, with
// wildcard characters in term taken literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// IncrementViews implements store.PropertyStore.IncrementViews
func (s *PostgresPropertyStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE properties SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return checkRowsAffected(result, store.ErrPropertyNotFound)
}

// WithTx implements store.PropertyStore.WithTx
func (s *PostgresPropertyStore) WithTx(tx *sql.Tx) store.PropertyStore {
	return &PostgresPropertyStore{db: tx, logger: s.logger}
}

func uuidOrNull(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
