package service

import (
	"sort"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/collation"
)

// compareOrder orders optional sort keys ascending with absent keys last.
func compareOrder(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

// sortTerms orders terms by (order, name collation, id).
func sortTerms(terms []models.Term, collator *collation.Collator) {
	sort.SliceStable(terms, func(i, j int) bool {
		if c := compareOrder(terms[i].Order, terms[j].Order); c != 0 {
			return c < 0
		}
		if c := collator.Compare(terms[i].Name, terms[j].Name); c != 0 {
			return c < 0
		}
		return terms[i].ID < terms[j].ID
	})
}

func maxOrder(terms []models.Term) float64 {
	highest := 0.0
	for _, term := range terms {
		if term.Order != nil && *term.Order > highest {
			highest = *term.Order
		}
	}
	return highest
}

func findTermByName(terms []models.Term, normalized, excludeID string) int {
	for i := range terms {
		if terms[i].ID == excludeID {
			continue
		}
		if models.NormalizeTermName(terms[i].Name) == normalized {
			return i
		}
	}
	return -1
}

func float64Ptr(v float64) *float64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
