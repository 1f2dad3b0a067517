package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
		known bool
	}{
		{"canonical value", "food", Food, true},
		{"canonical uppercase", "FOOD", Food, true},
		{"canonical padded", "  housing  ", Housing, true},
		{"display label", "Food & Dining", Food, true},
		{"display collapses", "Personal Care", Healthcare, true},
		{"display to other", "Investments", Other, true},
		{"unknown", "gibberish", Other, false},
		{"empty", "", Other, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := Canonicalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestAsStringSlice(t *testing.T) {
	cats := AsStringSlice()
	assert.Len(t, cats, 11)
	assert.Contains(t, cats, "food")
	assert.Contains(t, cats, "education")
	assert.Contains(t, cats, "other")
}

func TestDisplayCategoriesAllCanonicalize(t *testing.T) {
	for _, label := range DisplayCategories {
		_, known := Canonicalize(label)
		assert.True(t, known, "display label %q must canonicalize", label)
	}
}
