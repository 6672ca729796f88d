// Package openai implements generation.CompletionClient against any
// OpenAI-compatible chat completions endpoint.
package openai
