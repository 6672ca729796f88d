// Package mocks provides shared test doubles for the store, generation and
// auth interfaces.
//
// Function-field mocks (MockGenerator, MockCompletionClient, MockJWTService)
// fall back to their default fields when no function is set. The store mocks
// use testify/mock expectations:
//
//	props := &mocks.MockPropertyStore{}
//	props.On("IsContentGenerated", mock.Anything, id).Return(false, nil)
package mocks
