package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Exact title match bonus (huge boost)
	ScoreExactTitleBonus = 200.0

	// Usage weight (click counter contributes to final score)
	ScoreUsageWeight = 0.1
)

// LinkCandidate is a link with its match score for a query.
type LinkCandidate struct {
	Link         *Link
	LexicalScore float64 // Score from fuzzy matching
	UsageScore   float64 // Score from click counts
	TotalScore   float64 // Combined score
}

// ScoreLink scores a link against a free-text query.
// The title and the first label of the link's host are both tried; the best wins.
func ScoreLink(query string, link *Link) float64 {
	if link == nil {
		return 0.0
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0.0
	}

	title := strings.ToLower(link.Title)
	best := scoreTitle(query, title)

	if host := link.Hostname(); host != "" {
		label := strings.Split(host, ".")[0]
		if s := scoreFragment(query, label, 0); s > best {
			best = s
		}
	}

	return best
}

// scoreTitle scores the whole query against a lower-cased title.
func scoreTitle(query, title string) float64 {
	if title == "" {
		return 0.0
	}

	// Exact match (highest score)
	if query == title {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	if strings.HasPrefix(title, query) {
		return ScorePrefixMatch
	}

	if idx := strings.Index(title, query); idx >= 0 {
		// Earlier substring matches get higher score
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(idx)/float64(len(title)))
	}

	// Every query word appears somewhere in the title
	words := strings.Fields(query)
	if len(words) > 1 {
		allMatch := true
		for _, w := range words {
			if !strings.Contains(title, w) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	if similarity := calculateSimilarity(normalizeFragment(query), normalizeFragment(title)); similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// scoreFragment scores a single query fragment against a hostname label
func scoreFragment(queryFrag, hostFrag string, position int) float64 {
	queryFrag = normalizeFragment(queryFrag)
	hostFrag = normalizeFragment(hostFrag)

	if queryFrag == "" || hostFrag == "" {
		return 0.0
	}

	if queryFrag == hostFrag {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	if strings.HasPrefix(hostFrag, queryFrag) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	if strings.Contains(hostFrag, queryFrag) {
		index := strings.Index(hostFrag, queryFrag)
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(hostFrag)))
		return ScoreSubstringMatch + substringBonus
	}

	similarity := calculateSimilarity(queryFrag, hostFrag)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is the share of s1's characters that also occur in s2.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches := 0
	for _, c := range s1 {
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(len([]rune(s1)))
}

// normalizeFragment keeps lower-cased letters and digits only.
func normalizeFragment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// RankLinks ranks active links for query, best first.
func RankLinks(query string, links []*Link) []*LinkCandidate {
	candidates := make([]*LinkCandidate, 0, len(links))

	for _, link := range links {
		if link.Disabled {
			continue
		}

		lexical := ScoreLink(query, link)
		if lexical == 0.0 {
			continue
		}

		// Logarithmic so heavy use cannot drown a better textual match
		usage := 0.0
		if link.Clicks > 0 {
			usage = math.Log10(float64(link.Clicks)+1) * ScoreUsageWeight * 100
		}

		candidates = append(candidates, &LinkCandidate{
			Link:         link,
			LexicalScore: lexical,
			UsageScore:   usage,
			TotalScore:   lexical + usage,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalScore != candidates[j].TotalScore {
			return candidates[i].TotalScore > candidates[j].TotalScore
		}
		return CompareLinks(candidates[i].Link, candidates[j].Link) < 0
	})

	return candidates
}

// FindBestLink returns the highest ranked link for query, or nil.
func FindBestLink(query string, links []*Link) *Link {
	candidates := RankLinks(query, links)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].Link
}
