// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. It guards against leaking
// language-model API keys, bearer tokens, database connection strings and file
// paths that transport and driver errors tend to embed.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; credential-shaped patterns run before the
// generic path and host patterns so that URLs keep a recognizable shape.
var rules = []rule{
	// Database connection strings with inline credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`), RedactedCredentialPlaceholder},
	// Authorization headers
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), "Bearer " + RedactedKeyPlaceholder},
	// OpenAI-style and Google API keys
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	// key=value style secrets, including ?key= query parameters
	{regexp.MustCompile(`(?i)(api[_-]?key|key|token|secret|password)=[^&\s"']{3,}`), "$1=" + RedactionPlaceholder},
	// JWTs
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	// Absolute file paths
	{regexp.MustCompile(`(^|[\s"'(])(/[\w.-]+){2,}`), "$1" + RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
