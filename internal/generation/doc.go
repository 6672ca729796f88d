// Package generation turns a property's facts into marketing copy by calling
// an external language model (LLM) through a CompletionClient.
//
// The ContentGenerator owns prompt construction, response extraction and
// defensive JSON parsing. Transport is pluggable: see internal/platform/openai
// and internal/platform/gemini. Persistence, retries and scheduling belong to
// the caller (internal/service).
package generation
