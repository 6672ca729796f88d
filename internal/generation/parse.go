package generation

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"

	"github.com/phrazzld/estate-api/internal/domain"
)

// Keys requested from the model.
const (
	keyHighlights  = "key_highlights"
	keyInvestment  = "investment_data"
	keyNearby      = "nearby_places"
	keyUniqueFeats = "unique_features"
)

const fence = "```"

// stripFences removes a leading ``` (with optional language tag) and a
// trailing ``` around the completion text.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			tag := strings.TrimSpace(s[:i])
			if tag == "" || !strings.ContainsAny(tag, "{[\"") {
				s = s[i+1:]
			}
		} else {
			s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// parseContent maps completion text onto GeneratedContent. Text that is not
// a JSON object yields degraded content holding the raw text in KeyHighlights.
func parseContent(raw string) domain.GeneratedContent {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &fields); err != nil || fields == nil {
		return domain.GeneratedContent{KeyHighlights: raw, Degraded: true}
	}

	content := domain.GeneratedContent{
		KeyHighlights:  renderValue(fields[keyHighlights]),
		InvestmentData: renderValue(fields[keyInvestment]),
		NearbyPlaces:   renderValue(fields[keyNearby]),
		UniqueFeatures: renderValue(fields[keyUniqueFeats]),
	}

	found := false
	for _, k := range []string{keyHighlights, keyInvestment, keyNearby, keyUniqueFeats} {
		if _, ok := fields[k]; ok {
			found = true
			break
		}
	}
	content.Degraded = !found
	return content
}

// renderValue converts one JSON value to an HTML fragment. Strings pass
// through, lists become <ul>, null or absent values become "".
func renderValue(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}

	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err == nil {
			return renderList(items)
		}
	}
	return string(v)
}

// renderList renders items as an unordered list in input order. Item text is
// HTML-escaped since the markup around it is ours. An empty list renders as "".
func renderList(items []json.RawMessage) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>")
		item = bytes.TrimSpace(item)
		var s string
		if len(item) > 0 && item[0] == '"' && json.Unmarshal(item, &s) == nil {
			b.WriteString(html.EscapeString(s))
		} else {
			b.WriteString(html.EscapeString(string(item)))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
