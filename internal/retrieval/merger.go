// Package retrieval runs the vector and lexical search branches and merges
// their results into a single ranked candidate list.
package retrieval

import (
	"sort"

	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

// Origin identifies which retrieval branch produced a candidate.
type Origin string

const (
	OriginVector  Origin = "vector"
	OriginLexical Origin = "lexical"
	// OriginBoth marks passages found by both branches independently,
	// the strongest relevance signal the merge can produce.
	OriginBoth Origin = "both"
)

// Candidate is a merged retrieval hit. Score is the branch-local score that
// was kept as canonical for this entry: for both-branch hits that is the
// vector score, since this pipeline prioritizes semantic similarity.
type Candidate struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Origin Origin  `json:"origin"`
}

// Merge combines the two branch result sets into one deduplicated, ranked
// list of at most finalK candidates.
//
// Branch scores live on incomparable scales (cosine similarity vs. text
// relevance), so entries are never ordered by comparing scores across
// branches. Instead: passages found by both branches rank first, then
// vector-only, then lexical-only, each group ordered by its own descending
// branch-local score. Duplicates are detected by exact text content; the
// surviving entry keeps the vector branch's score.
func Merge(vector, lexical []store.SearchResult, finalK int) []Candidate {
	if finalK <= 0 {
		return []Candidate{}
	}

	byText := make(map[string]*Candidate, len(vector))

	vectorOnly := make([]*Candidate, 0, len(vector))
	for _, r := range vector {
		if _, seen := byText[r.Text]; seen {
			// The vector branch itself can return duplicate passages when
			// the same text was ingested under two sources; keep the first
			// (highest-scored) occurrence.
			continue
		}
		c := &Candidate{Text: r.Text, Source: r.Source, Score: r.Score, Origin: OriginVector}
		byText[r.Text] = c
		vectorOnly = append(vectorOnly, c)
	}

	lexicalOnly := make([]*Candidate, 0, len(lexical))
	for _, r := range lexical {
		if existing, seen := byText[r.Text]; seen {
			if existing.Origin == OriginVector {
				existing.Origin = OriginBoth
			}
			continue
		}
		c := &Candidate{Text: r.Text, Source: r.Source, Score: r.Score, Origin: OriginLexical}
		byText[r.Text] = c
		lexicalOnly = append(lexicalOnly, c)
	}

	both := make([]*Candidate, 0, len(vectorOnly))
	remaining := vectorOnly[:0]
	for _, c := range vectorOnly {
		if c.Origin == OriginBoth {
			both = append(both, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	vectorOnly = remaining

	byScore := func(group []*Candidate) {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}
	byScore(both)
	byScore(vectorOnly)
	byScore(lexicalOnly)

	merged := make([]Candidate, 0, len(both)+len(vectorOnly)+len(lexicalOnly))
	for _, group := range [][]*Candidate{both, vectorOnly, lexicalOnly} {
		for _, c := range group {
			merged = append(merged, *c)
		}
	}

	if len(merged) > finalK {
		merged = merged[:finalK]
	}
	return merged
}
