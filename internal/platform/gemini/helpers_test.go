package gemini_test

import "github.com/phrazzld/estate-api/internal/domain"

func facts() domain.PropertyFacts {
	return domain.PropertyFacts{Name: "Lakeview Plot 12", Category: "Plot"}
}
