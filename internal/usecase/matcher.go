package usecase

import (
	"strings"

	"github.com/aggarwalComputronix/website/internal/domain"
)

// QueryTerms splits a raw query into normalized search terms.
// The query is lowercased and split on whitespace first, since normalizing the
// whole query would glue the words together. Terms that normalize to nothing
// (e.g. a lone "-") are dropped rather than matched.
func QueryTerms(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if t := Normalize(w); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// SearchBlob concatenates a record's searchable fields with single spaces and
// normalizes the result.
func SearchBlob(r domain.Searchable) string {
	if r == nil {
		return ""
	}
	return Normalize(strings.Join(r.SearchFields(), " "))
}

// Matches reports whether every query term occurs somewhere in the record.
// An empty or whitespace-only query matches every record.
func Matches(query string, r domain.Searchable) bool {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return true
	}
	return containsAll(SearchBlob(r), terms)
}

// FilterProducts keeps the products matching query, preserving input order.
func FilterProducts(query string, products []domain.Product) []domain.Product {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return products
	}

	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		if containsAll(SearchBlob(&products[i]), terms) {
			matched = append(matched, products[i])
		}
	}
	return matched
}

func containsAll(blob string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(blob, t) {
			return false
		}
	}
	return true
}
