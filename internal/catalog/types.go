// Package catalog searches the NDL OpenSearch API and normalizes its
// namespaced XML records into books this service can store and shelve.
package catalog

// NoImage is the placeholder cover used when no provider returned one.
const NoImage = "/noimage.png"

// Book is a normalized search hit. Entries without a valid ISBN are
// dropped during parsing, so ISBN is always set.
type Book struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Link      string   `json:"link"`
	Cover     string   `json:"cover"`
}

// Classification is an NDC code decomposed into its hierarchy prefixes.
// Level2 and Level3 are empty when the code is too short to provide them.
type Classification struct {
	Code   string `json:"ndc_full"`
	Level1 string `json:"ndc_level1"`
	Level2 string `json:"ndc_level2,omitempty"`
	Level3 string `json:"ndc_level3,omitempty"`
}

// Metadata is the full record fetched for a single ISBN before graph
// ingestion. NDC is nil when the record carries no classification.
type Metadata struct {
	ISBN          string          `json:"isbn"`
	Title         string          `json:"title"`
	Authors       []string        `json:"authors"`
	Publisher     string          `json:"publisher"`
	PublishedYear string          `json:"published_year"`
	Language      string          `json:"language"`
	Description   string          `json:"description"`
	NDC           *Classification `json:"ndc,omitempty"`
	Subjects      []string        `json:"subjects"`
	Cover         string          `json:"cover"`
}

// SearchResult is one page of resolved search hits.
type SearchResult struct {
	Books      []Book `json:"books"`
	Page       int    `json:"page"`
	TotalItems int    `json:"total_items_found"`
	TotalPages int    `json:"total_pages"`
}
