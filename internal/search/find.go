package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// Result is a matching node with its depth (1-based)
type Result struct {
	Node  *model.Node
	Depth int
}

// Filter returns the nodes matching expr in document order, including
// nodes inside collapsed subtrees
func Filter(tree model.Tree, expr FilterExpr) []Result {
	type frame struct {
		node      *model.Node
		ancestors []*model.Node
	}

	var out []Result
	stack := make([]frame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: tree[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := Candidate{Node: f.node, Ancestors: f.ancestors}
		if expr.Matches(c) {
			out = append(out, Result{Node: f.node, Depth: c.Depth()})
		}

		if len(f.node.Children) == 0 {
			continue
		}
		ancestors := make([]*model.Node, len(f.ancestors)+1)
		copy(ancestors, f.ancestors)
		ancestors[len(f.ancestors)] = f.node
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], ancestors: ancestors})
		}
	}
	return out
}

// Query parses query and filters the tree with it
func Query(tree model.Tree, query string) ([]Result, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Filter(tree, expr), nil
}

// Rank returns the nodes whose text fuzzy-matches term, best match first.
// Ties keep document order.
func Rank(tree model.Tree, term string) []Result {
	all := Filter(tree, AlwaysMatchExpr{})
	texts := make([]string, len(all))
	for i, r := range all {
		texts[i] = r.Node.Text()
	}

	ranks := fuzzy.RankFindFold(term, texts)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]Result, len(ranks))
	for i, r := range ranks {
		out[i] = all[r.OriginalIndex]
	}
	return out
}

// MatchPositions returns the rune offsets in text that a fuzzy match of
// term consumes, or nil when term does not match
func MatchPositions(term, text string) []int {
	if term == "" {
		return nil
	}
	want := []rune(strings.ToLower(term))
	var positions []int
	i := 0
	for pos, r := range []rune(text) {
		if i < len(want) && unicode.ToLower(r) == want[i] {
			positions = append(positions, pos)
			i++
		}
	}
	if i < len(want) {
		return nil
	}
	return positions
}
