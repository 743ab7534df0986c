// Package metadata defines the canonical book metadata record and the mapping
// from raw storefront product data into it.
package metadata

import "time"

// Record is the canonical metadata shape handed back to callers.
// Pointer fields distinguish "not set" from "empty"; a field missing from the
// storefront response stays nil, it is never filled with a placeholder.
type Record struct {
	// Title is the book's title. Always present; records without one are dropped.
	Title string `json:"title" yaml:"title"`

	// Authors are the book's author names, in storefront order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Publisher is the publishing company name.
	Publisher *string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Description is the product blurb, HTML passed through as-is.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`

	// Rating is the storefront rating on a 0-5 scale.
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`

	// Price is the list price in the storefront's currency.
	Price *float64 `json:"price,omitempty" yaml:"price,omitempty"`

	// PubDate is the publication date.
	PubDate *time.Time `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`

	// Identifiers maps source name to product id. Always contains the
	// originating site's product id so the cover can be re-fetched later
	// without another search.
	Identifiers map[string]string `json:"identifiers" yaml:"identifiers"`

	// CoverURL is the full URL of the cover image, when the product has one.
	CoverURL *string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`

	// Source is the site the record came from (e.g. "dmsguild").
	Source string `json:"source" yaml:"source"`

	// Score is the relevance score assigned by the ranker, 0-1.
	Score float64 `json:"score" yaml:"score"`

	// BestMatch marks the highest-ranked record of a search.
	BestMatch bool `json:"best_match,omitempty" yaml:"best_match,omitempty"`
}

// ID returns the record's product id on its originating site.
func (r *Record) ID() string {
	return r.Identifiers[r.Source]
}
