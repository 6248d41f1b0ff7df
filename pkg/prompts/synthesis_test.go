package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milltech/erpchat/pkg/models"
)

func TestScopeClause(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"empty scope is unrestricted", nil, ""},
		{"single value", []string{"ravi"}, "marketing_person = 'ravi'"},
		{"two values", []string{"ravi", "priya"}, "marketing_person IN ('ravi', 'priya')"},
		{"quote escaped", []string{"o'brien"}, "marketing_person = 'o''brien'"},
		{"quote escaped in list", []string{"o'brien", "d'souza"}, "marketing_person IN ('o''brien', 'd''souza')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeClause(tt.values))
		})
	}
}

func TestSynthesisSpec_Build(t *testing.T) {
	spec := &SynthesisSpec{
		Question:    "pending orders for apex",
		ScopeValues: []string{"ravi"},
		Customer: &models.CustomerMatch{
			Keyword: "apex",
			Matches: []models.Customer{
				{ID: 1, Name: "Apex Forgings"},
				{ID: 7, Name: "Apex Tubes"},
			},
		},
		SchemaText: "orders:\n  order_number text\n",
	}

	prompt := spec.Build()

	assert.Contains(t, prompt, "marketing_person = 'ravi'")
	assert.Contains(t, prompt, `The word "apex" in the question refers to these customers`)
	assert.Contains(t, prompt, "- id 1: Apex Forgings")
	assert.Contains(t, prompt, "customer_id IN (1, 7)")
	assert.Contains(t, prompt, "orders:\n  order_number text")
	assert.Contains(t, prompt, "pending orders for apex")
	// Rules are numbered from 1.
	assert.Contains(t, prompt, "1. Generate exactly one SELECT statement.")
	// Question comes after the schema and rules.
	assert.Greater(t, strings.LastIndex(prompt, "pending orders for apex"), strings.Index(prompt, "## Rules"))
}

func TestSynthesisSpec_Build_NoScopeNoCustomer(t *testing.T) {
	spec := &SynthesisSpec{
		Question:   "total dispatched quantity this month",
		SchemaText: "schema here",
	}

	prompt := spec.Build()

	assert.NotContains(t, prompt, "Security requirement")
	assert.NotContains(t, prompt, "Pre-resolved customer filter")
	assert.Contains(t, prompt, "schema here")
	assert.Contains(t, prompt, "total dispatched quantity this month")
}
