// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyPropertyID is returned when a property has a nil ID.
	ErrEmptyPropertyID = errors.New("property ID cannot be empty")

	// ErrEmptyPropertyName is returned when a property or its facts have no name.
	ErrEmptyPropertyName = errors.New("property name cannot be empty")

	// ErrNegativePrice is returned when a price is below zero.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeArea is returned when an area is below zero.
	ErrNegativeArea = errors.New("area cannot be negative")

	// ErrInvalidLocation is returned when coordinates fall outside WGS84 bounds.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrEmptyCategoryName is returned when a category has no name.
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// ErrEmptyCategoryID is returned when a category has a nil ID.
	ErrEmptyCategoryID = errors.New("category ID cannot be empty")
)
