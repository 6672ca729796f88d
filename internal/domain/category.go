package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups properties (plot, apartment, villa, ...).
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCategory creates a validated Category with a fresh ID.
func NewCategory(name, description string) (*Category, error) {
	c := &Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCategoryID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCategoryName)
	}
	return nil
}
