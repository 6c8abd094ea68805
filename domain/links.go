package domain

import (
	"regexp"
	"strings"
)

// MaxRelevantLinks caps the number of links returned with an answer.
const MaxRelevantLinks = 5

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// DedupeLinks drops links with an empty or repeated URL, keeping the first
// occurrence, and truncates the result to limit entries. A non-positive
// limit means MaxRelevantLinks. The result is never nil.
func DedupeLinks(links []Link, limit int) []Link {
	if limit <= 0 {
		limit = MaxRelevantLinks
	}
	out := make([]Link, 0, min(len(links), limit))
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		key := strings.TrimSpace(l.Link)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ExtractLinks returns every http(s) URL mentioned in text, in order.
func ExtractLinks(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
