package openai_test

import "github.com/phrazzld/estate-api/internal/domain"

func lakeview() domain.PropertyFacts {
	return domain.PropertyFacts{Name: "Lakeview Plot 12", Address: "MG Road, Visakhapatnam", Price: 4500000}
}
