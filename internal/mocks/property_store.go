package mocks

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockPropertyStore is a mock of store.PropertyStore for use with testify/mock
type MockPropertyStore struct {
	mock.Mock
	txCalls atomic.Int32
}

var _ store.PropertyStore = (*MockPropertyStore)(nil)

// Create is a mock implementation of store.PropertyStore.Create
func (m *MockPropertyStore) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

// GetByID is a mock implementation of store.PropertyStore.GetByID
func (m *MockPropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Property); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetFacts is a mock implementation of store.PropertyStore.GetFacts
func (m *MockPropertyStore) GetFacts(ctx context.Context, id uuid.UUID) (domain.PropertyFacts, error) {
	args := m.Called(ctx, id)
	facts, _ := args.Get(0).(domain.PropertyFacts)
	return facts, args.Error(1)
}

// IsContentGenerated is a mock implementation of store.PropertyStore.IsContentGenerated
func (m *MockPropertyStore) IsContentGenerated(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// PersistContent is a mock implementation of store.PropertyStore.PersistContent
func (m *MockPropertyStore) PersistContent(ctx context.Context, id uuid.UUID, content *domain.GeneratedContent) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

// FindWithoutContent is a mock implementation of store.PropertyStore.FindWithoutContent
func (m *MockPropertyStore) FindWithoutContent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// FindPublishedWithLocation is a mock implementation of store.PropertyStore.FindPublishedWithLocation
func (m *MockPropertyStore) FindPublishedWithLocation(ctx context.Context) ([]*domain.Property, error) {
	args := m.Called(ctx)
	props, _ := args.Get(0).([]*domain.Property)
	return props, args.Error(1)
}

// IncrementViews is a mock implementation of store.PropertyStore.IncrementViews
func (m *MockPropertyStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FindPublished is a mock implementation of store.PropertyStore.FindPublished
func (m *MockPropertyStore) FindPublished(ctx context.Context, filter store.PropertyFilter) ([]*domain.Property, error) {
	args := m.Called(ctx, filter)
	props, _ := args.Get(0).([]*domain.Property)
	return props, args.Error(1)
}

// WithTx is a mock implementation of store.PropertyStore.WithTx.
// It returns the mock itself and counts the call.
func (m *MockPropertyStore) WithTx(tx *sql.Tx) store.PropertyStore {
	m.txCalls.Add(1)
	return m
}

// TxCalls reports how many times WithTx was called.
func (m *MockPropertyStore) TxCalls() int {
	return int(m.txCalls.Load())
}

// MockCategoryStore is a mock of store.CategoryStore for use with testify/mock
type MockCategoryStore struct {
	mock.Mock
	txCalls atomic.Int32
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// Create is a mock implementation of store.CategoryStore.Create
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// GetByID is a mock implementation of store.CategoryStore.GetByID
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*domain.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx is a mock implementation of store.CategoryStore.WithTx.
// It returns the mock itself and counts the call.
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	m.txCalls.Add(1)
	return m
}

// TxCalls reports how many times WithTx was called.
func (m *MockCategoryStore) TxCalls() int {
	return int(m.txCalls.Load())
}
