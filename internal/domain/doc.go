// Package domain contains the core business entities, value objects, and
// domain logic of the application: properties, their categories, the facts
// used to describe them to a language model, and the marketing content
// generated from those facts. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
