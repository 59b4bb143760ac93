package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// Find returns the blocks of doc matching query, in document order
func Find(doc *model.Document, query string) ([]*model.Node, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Filter(doc, expr), nil
}

// Filter returns the blocks of doc matching expr, in document order
func Filter(doc *model.Document, expr FilterExpr) []*model.Node {
	var out []*model.Node
	for n := range doc.AllBlocks() {
		if expr.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// HeadingMatch is a heading ranked against a jump query
type HeadingMatch struct {
	Node  *model.Node
	Title string
	// Distance is the Levenshtein distance between query and title, lower
	// is closer
	Distance int
}

// RankHeadings fuzzy-matches query against every heading title and returns
// the matches closest first. Ties keep document order.
func RankHeadings(doc *model.Document, query string) []HeadingMatch {
	var (
		titles []string
		nodes  []*model.Node
	)
	for n := range doc.AllBlocks() {
		if n.IsHeading() {
			titles = append(titles, blockText(n))
			nodes = append(nodes, n)
		}
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]HeadingMatch, len(ranks))
	for i, r := range ranks {
		out[i] = HeadingMatch{Node: nodes[r.OriginalIndex], Title: r.Target, Distance: r.Distance}
	}
	return out
}
