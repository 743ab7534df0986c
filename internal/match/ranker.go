// Package match ranks mapped candidates by similarity to the user's query.
package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jmiller/grimoire/internal/metadata"
)

const (
	titleWeight  = 0.7
	authorWeight = 0.3
)

// Rank scores every record against the query and sorts them best-first.
// The sort is stable, so candidates with equal scores keep the order the API
// returned them in. The top record is marked as the best match. The input
// slice is sorted in place and returned.
func Rank(title string, authors []string, records []*metadata.Record) []*metadata.Record {
	for _, record := range records {
		record.Score = score(title, authors, record)
		record.BestMatch = false
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	if len(records) > 0 {
		records[0].BestMatch = true
	}

	return records
}

// score computes a 0-1 relevance estimate: weighted title similarity plus the
// best similarity across the candidate's authors. A query without authors is
// scored on title alone.
func score(title string, authors []string, record *metadata.Record) float64 {
	titleScore := Similarity(title, record.Title)

	if len(authors) == 0 || len(record.Authors) == 0 {
		return titleScore
	}

	var authorScore float64
	for _, want := range authors {
		for _, got := range record.Authors {
			if s := Similarity(want, got); s > authorScore {
				authorScore = s
			}
		}
	}

	return titleWeight*titleScore + authorWeight*authorScore
}

// Similarity returns a normalized Levenshtein similarity between two strings:
// 1.0 for identical (after case/whitespace folding), 0.0 for nothing in common.
func Similarity(a, b string) float64 {
	a = fold(a)
	b = fold(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}

	return 1.0 - float64(distance)/float64(longest)
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
