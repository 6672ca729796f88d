// Package api exposes the property, category and content operations over
// HTTP. Handlers decode and validate requests, call the service layer and
// map its errors onto status codes with MapErrorToStatusCode.
package api
