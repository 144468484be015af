package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a course search query.
type SearchParams struct {
	Query string // User's search query

	// Filters
	TagNames      []string // Filter by exact tag names (OR across names)
	MinPrice      float64  // Minimum effective price
	MaxPrice      float64  // Maximum effective price (0 = unbounded)
	MinRating     float64  // Minimum average rating
	PublishedOnly bool     // Exclude unpublished drafts

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "price", "rating", "popular", "recent"
	SortOrder string // "asc", "desc"

	// Options
	Highlight bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults for public catalog search.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		PublishedOnly: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single course hit.
type SearchHit struct {
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Title         string            `json:"title"`
	TagNames      []string          `json:"tag_names,omitempty"`
	Price         float64           `json:"price"`
	Enrollments   int               `json:"enrollments"`
	AverageRating float64           `json:"average_rating"`
	Highlights    map[string]string `json:"highlights,omitempty"`
}

// Search executes a course search query.
func (s *CourseIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
	}

	searchRequest.Fields = []string{
		"id", "title", "tag_names", "price", "enrollments", "average_rating",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		searchHit.TagNames = stringsField(hit.Fields["tag_names"])
		if p, ok := hit.Fields["price"].(float64); ok {
			searchHit.Price = p
		}
		if e, ok := hit.Fields["enrollments"].(float64); ok {
			searchHit.Enrollments = int(e)
		}
		if r, ok := hit.Fields["average_rating"].(float64); ok {
			searchHit.AverageRating = r
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// stringsField normalizes a stored field that Bleve returns as either a
// single string or a []interface{} depending on cardinality.
func stringsField(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query: title carries the highest boost, description
	// matches still count, and a fuzzy + prefix pair gives typo
	// tolerance and autocomplete behavior on the title.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Tag filter (exact match, OR across names)
	if len(params.TagNames) > 0 {
		tagQueries := make([]query.Query, len(params.TagNames))
		for i, name := range params.TagNames {
			tq := bleve.NewTermQuery(name)
			tq.SetField("tag_names")
			tagQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
	}

	// Published filter
	if params.PublishedOnly {
		published := true
		bq := bleve.NewBoolFieldQuery(published)
		bq.SetField("published")
		queries = append(queries, bq)
	}

	// Price range filter
	if params.MinPrice > 0 || params.MaxPrice > 0 {
		min := params.MinPrice
		max := params.MaxPrice
		if params.MaxPrice == 0 {
			max = math.MaxFloat64
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("price")
		queries = append(queries, rangeQuery)
	}

	// Rating floor filter
	if params.MinRating > 0 {
		min := params.MinRating
		max := 5.0
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("average_rating")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "price":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-price"})
		} else {
			req.SortBy([]string{"price"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"average_rating"})
		} else {
			req.SortBy([]string{"-average_rating"})
		}
	case "popular":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"enrollments"})
		} else {
			req.SortBy([]string{"-enrollments"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		// Relevance (score) is the default
		req.SortBy([]string{"-_score"})
	}
}
