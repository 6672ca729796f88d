package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n  ```JSON\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"single line", "```json{\"a\":1}```", `{"a":1}`},
		{"object on fence line", "```{\"a\":1}\n```", `{"a":1}`},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"prose untouched", "just text", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestParseContent(t *testing.T) {
	t.Parallel()

	t.Run("object without known keys is degraded", func(t *testing.T) {
		t.Parallel()
		c := parseContent(`{"summary":"nice"}`)
		assert.True(t, c.Degraded)
		assert.True(t, c.IsEmpty())
	})

	t.Run("json array is not an object", func(t *testing.T) {
		t.Parallel()
		raw := `["a","b"]`
		c := parseContent(raw)
		assert.True(t, c.Degraded)
		assert.Equal(t, raw, c.KeyHighlights)
	})

	t.Run("json null is not an object", func(t *testing.T) {
		t.Parallel()
		c := parseContent("null")
		assert.True(t, c.Degraded)
		assert.Equal(t, "null", c.KeyHighlights)
	})

	t.Run("degraded keeps the fenced raw text", func(t *testing.T) {
		t.Parallel()
		raw := "```\nnot json\n```"
		c := parseContent(raw)
		assert.True(t, c.Degraded)
		assert.Equal(t, raw, c.KeyHighlights)
	})

	t.Run("scalars render as literals", func(t *testing.T) {
		t.Parallel()
		c := parseContent(`{"investment_data": 7.5, "unique_features": false, "nearby_places": []}`)
		assert.False(t, c.Degraded)
		assert.Equal(t, "7.5", c.InvestmentData)
		assert.Equal(t, "false", c.UniqueFeatures)
		assert.Empty(t, c.NearbyPlaces)
		assert.Empty(t, c.KeyHighlights)
	})

	t.Run("list items are html-escaped", func(t *testing.T) {
		t.Parallel()
		c := parseContent(`{"key_highlights": ["<script>alert(1)</script>", "R&D park", {"k":"v"}]}`)
		assert.False(t, c.Degraded)
		assert.Equal(t,
			"<ul><li>&lt;script&gt;alert(1)&lt;/script&gt;</li><li>R&amp;D park</li><li>{&#34;k&#34;:&#34;v&#34;}</li></ul>",
			c.KeyHighlights)
	})
}
