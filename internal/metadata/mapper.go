package metadata

import (
	"log/slog"
	"strconv"
	"time"

	obserrors "github.com/jmiller/grimoire/internal/errors"
	"github.com/jmiller/grimoire/internal/obs"
)

// Date layouts seen in dateAvailable values, most common first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapProduct converts raw product attributes into a canonical Record.
// Missing optional fields stay absent, and a rating or price that fails to
// parse is dropped rather than guessed at. A product without a title cannot
// be mapped and returns a ParseError so the caller drops the record.
func MapProduct(site string, coverURL string, product *obs.Product) (*Record, error) {
	if product == nil || product.Title == "" {
		return nil, obserrors.NewParseError(site, "title", obs.ErrNotFound)
	}

	record := &Record{
		Title:       product.Title,
		Source:      site,
		Identifiers: map[string]string{site: product.ID},
	}

	if len(product.Authors) > 0 {
		authors := make([]string, 0, len(product.Authors))
		for _, author := range product.Authors {
			if author != "" {
				authors = append(authors, author)
			}
		}
		record.Authors = authors
	}

	if product.Publisher != "" {
		record.Publisher = &product.Publisher
	}

	// Description HTML is passed through untouched; the consumer renders it.
	if product.Description != "" {
		record.Description = &product.Description
	}

	if rating, ok := parseDecimal(product.Rating); ok && rating >= 0 && rating <= 5 {
		record.Rating = &rating
	} else if product.Rating != nil && !ok {
		slog.Debug("Dropping unparseable rating", "site", site, "id", product.ID, "rating", product.Rating)
	}

	if price, ok := parseDecimal(product.Price); ok && price >= 0 {
		record.Price = &price
	}

	if product.DateAvail != "" {
		if pubDate, ok := parseDate(product.DateAvail); ok {
			record.PubDate = &pubDate
		} else {
			slog.Debug("Dropping unparseable date", "site", site, "id", product.ID, "date", product.DateAvail)
		}
	}

	if coverURL != "" {
		record.CoverURL = &coverURL
	}

	return record, nil
}

// parseDecimal extracts a decimal from an untyped API value.
// The storefronts return numbers as JSON numbers or strings interchangeably.
func parseDecimal(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
