package match

import (
	"regexp"
	"strings"
)

var (
	versionTagRe = regexp.MustCompile(`(?i)\b(v|ver|vol)\.?\s*\d+(\.\d+)*\b`)
	bracketsRe   = regexp.MustCompile(`[\(\[].*?[\)\]]`)
)

const shortTitleWords = 4

// CleanTitle strips version tags like "v1.0" and bracketed chunks like
// "(2020)" or "[PDF]" that ebook library titles tend to accumulate and the
// storefront search chokes on.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}
	t := versionTagRe.ReplaceAllString(title, "")
	t = bracketsRe.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}

// KeywordLadder builds the sequence of search keywords to try, strictest
// first: title + first author, bare title, cleaned title, then the first few
// words of the cleaned title. Duplicates and empties are dropped so each
// keyword is only ever sent once.
func KeywordLadder(title string, authors []string) []string {
	var candidates []string

	if title != "" && len(authors) > 0 && authors[0] != "" {
		candidates = append(candidates, title+" "+authors[0])
	}
	if title != "" {
		candidates = append(candidates, title)
	}

	cleaned := CleanTitle(title)
	if cleaned != "" {
		candidates = append(candidates, cleaned)

		words := strings.Fields(cleaned)
		if len(words) > shortTitleWords {
			candidates = append(candidates, strings.Join(words[:shortTitleWords], " "))
		}
	}

	seen := make(map[string]bool, len(candidates))
	ladder := make([]string, 0, len(candidates))
	for _, keyword := range candidates {
		if !seen[keyword] {
			seen[keyword] = true
			ladder = append(ladder, keyword)
		}
	}

	return ladder
}
