package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
)

// FacetAll is the wildcard facet value matching anything.
const FacetAll = "All"

// ProductFilter holds the shop page facets. Zero values behave like
// wildcards.
type ProductFilter struct {
	Search   string
	Category string
	Brand    string
}

// FilterProducts derives the visible product list. Source order is
// preserved; the search term matches the name case-insensitively.
func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	search := strings.ToLower(f.Search)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !facetMatches(f.Category, p.Category) {
			continue
		}
		if !facetMatches(f.Brand, p.Brand) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterEvents filters the gallery by calendar year and search term.
// The term matches name or description.
func FilterEvents(events []domain.Event, year, search string) []domain.Event {
	search = strings.ToLower(search)

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !yearMatches(year, e) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EventYears lists the distinct calendar years present, newest first.
func EventYears(events []domain.Event) []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range events {
		y := e.Year.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// SortOrder toggles the emcee roster sort.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterEmcees filters the roster by name and optionally applies a
// case-insensitive lexicographic sort. Without an explicit order the
// source order is kept.
func FilterEmcees(emcees []domain.Emcee, search string, order SortOrder) []domain.Emcee {
	search = strings.ToLower(search)

	out := make([]domain.Emcee, 0, len(emcees))
	for _, e := range emcees {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, e)
	}

	switch order {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) > strings.ToLower(out[j].Name)
		})
	}
	return out
}

func facetMatches(facet, value string) bool {
	return facet == "" || facet == FacetAll || facet == value
}

func yearMatches(facet string, e domain.Event) bool {
	if facet == "" || facet == FacetAll {
		return true
	}
	y, err := strconv.Atoi(facet)
	if err != nil {
		return false
	}
	return e.Year.Year() == y
}
