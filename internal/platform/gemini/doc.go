// Package gemini implements generation.CompletionClient on top of Google's
// Gemini API using the google.golang.org/genai SDK.
//
// This package is an infrastructure adapter in the hexagonal architecture. It
// translates the provider-neutral chat request into a GenerateContent call:
// system messages become the SystemInstruction, the remaining messages become
// the contents, and the first candidate's text parts are returned as the
// completion. SDK and network errors surface unchanged so the generator can
// classify them as transport failures; a response without candidates wraps
// generation.ErrMalformedResponse.
//
// A genai client is created per call because the API key travels with each
// request rather than being fixed at startup.
package gemini
