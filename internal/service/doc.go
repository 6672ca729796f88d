// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// ContentService is the caller policy around the content generator: it
// fetches facts, retries transient failures with backoff, persists successful
// results, serializes work per property, applies a cool-down after failures
// and schedules background generation so page views never wait on the model.
package service
