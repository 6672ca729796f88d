package generation

import (
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/phrazzld/estate-api/internal/domain"
)

// SystemPrompt is sent as the system message of every completion request.
const SystemPrompt = "You are a real estate data analyst. You write accurate, concise " +
	"marketing content for property listings and always answer in valid JSON."

// WordBudget caps the length of each generated section.
const WordBudget = 60

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("property").
	Funcs(template.FuncMap{"amount": formatAmount}).
	Parse(promptSource))

type promptData struct {
	domain.PropertyFacts
	WordBudget int
}

// BuildPrompt renders the user prompt for facts. It is a pure function:
// identical facts always produce identical text.
func BuildPrompt(facts domain.PropertyFacts) string {
	facts.Name = strings.TrimSpace(facts.Name)
	facts.Address = strings.TrimSpace(facts.Address)
	facts.Category = strings.TrimSpace(facts.Category)

	var buf bytes.Buffer
	// The template is parsed at init and only reads plain fields.
	if err := promptTemplate.Execute(&buf, promptData{PropertyFacts: facts, WordBudget: WordBudget}); err != nil {
		panic("generation: executing prompt template: " + err.Error())
	}
	return buf.String()
}

// formatAmount prints a number without exponent and without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// buildMessages returns the chat messages for facts.
func buildMessages(facts domain.PropertyFacts) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemPrompt},
		{Role: RoleUser, Content: BuildPrompt(facts)},
	}
}
