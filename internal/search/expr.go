package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// Candidate is a node under test together with its position in the tree
type Candidate struct {
	Node *model.Node
	// Ancestors runs from the root down to the parent
	Ancestors []*model.Node
}

// Depth returns the 1-based depth of the node
func (c Candidate) Depth() int {
	return len(c.Ancestors) + 1
}

// Parent returns the parent node, or nil for a root node
func (c Candidate) Parent() *model.Node {
	if len(c.Ancestors) == 0 {
		return nil
	}
	return c.Ancestors[len(c.Ancestors)-1]
}

// FilterExpr represents a filter expression that can match nodes
type FilterExpr interface {
	Matches(c Candidate) bool
	String() string
}

// ComparisonOp represents comparison operators
type ComparisonOp string

const (
	OpEqual        ComparisonOp = "="
	OpNotEqual     ComparisonOp = "!="
	OpGreater      ComparisonOp = ">"
	OpGreaterEqual ComparisonOp = ">="
	OpLess         ComparisonOp = "<"
	OpLessEqual    ComparisonOp = "<="
)

// TextExpr matches nodes whose text contains the term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(c Candidate) bool {
	return strings.Contains(strings.ToLower(c.Node.Text()), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches nodes whose text fuzzy-matches the term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(c Candidate) bool {
	return fuzzy.MatchFold(e.term, c.Node.Text())
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches nodes whose text matches a regular expression
type RegexExpr struct {
	re *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return &RegexExpr{re: re}, nil
}

func (e *RegexExpr) Matches(c Candidate) bool {
	return e.re.MatchString(c.Node.Text())
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(%q)", e.re.String())
}

// AlwaysMatchExpr matches all nodes (for empty queries)
type AlwaysMatchExpr struct{}

func (AlwaysMatchExpr) Matches(Candidate) bool { return true }

func (AlwaysMatchExpr) String() string { return "all" }

// AndExpr matches when both sides match
type AndExpr struct {
	left, right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(c Candidate) bool {
	return e.left.Matches(c) && e.right.Matches(c)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("and(%s, %s)", e.left, e.right)
}

// OrExpr matches when either side matches
type OrExpr struct {
	left, right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(c Candidate) bool {
	return e.left.Matches(c) || e.right.Matches(c)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("or(%s, %s)", e.left, e.right)
}

// NotExpr inverts an expression
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(c Candidate) bool {
	return !e.expr.Matches(c)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("not(%s)", e.expr)
}

// CountFilter compares a number derived from the candidate
type CountFilter struct {
	name  string
	op    ComparisonOp
	value int
	count func(Candidate) int
}

func (e *CountFilter) Matches(c Candidate) bool {
	return compare(e.count(c), e.op, e.value)
}

func (e *CountFilter) String() string {
	return fmt.Sprintf("%s%s%d", e.name, e.op, e.value)
}

// DateFilter compares the created or updated time of a node. Nodes without
// the timestamp never match.
type DateFilter struct {
	field string
	op    ComparisonOp
	at    time.Time
}

func (e *DateFilter) Matches(c Candidate) bool {
	ts := c.Node.CreatedAt
	if e.field == "m" {
		ts = c.Node.UpdatedAt
	}
	if ts == nil {
		return false
	}
	return compare(ts.Compare(e.at), e.op, 0)
}

func (e *DateFilter) String() string {
	return fmt.Sprintf("%s%s%s", e.field, e.op, e.at.Format(time.RFC3339))
}

// MarkFilter matches nodes whose content carries a mark type anywhere
type MarkFilter struct {
	mark richtext.MarkType
}

func (e *MarkFilter) Matches(c Candidate) bool {
	return c.Node.Content.RangeHasMark(0, c.Node.Content.Size(), e.mark)
}

func (e *MarkFilter) String() string {
	return fmt.Sprintf("mark(%s)", e.mark)
}

// BlockFilter matches nodes by block type
type BlockFilter struct {
	block richtext.BlockType
}

func (e *BlockFilter) Matches(c Candidate) bool {
	return c.Node.Content.Type == e.block
}

func (e *BlockFilter) String() string {
	return fmt.Sprintf("type(%s)", e.block)
}

// StateFilter matches nodes by a named predicate such as collapsed or leaf
type StateFilter struct {
	name string
	test func(*model.Node) bool
}

func (e *StateFilter) Matches(c Candidate) bool {
	return e.test(c.Node)
}

func (e *StateFilter) String() string {
	return fmt.Sprintf("is(%s)", e.name)
}

// ParentFilter matches nodes whose parent matches the inner expression
type ParentFilter struct {
	inner FilterExpr
}

func (e *ParentFilter) Matches(c Candidate) bool {
	parent := c.Parent()
	if parent == nil {
		return false
	}
	return e.inner.Matches(Candidate{Node: parent, Ancestors: c.Ancestors[:len(c.Ancestors)-1]})
}

func (e *ParentFilter) String() string {
	return fmt.Sprintf("parent(%s)", e.inner)
}

// AncestorFilter matches nodes with any ancestor matching the inner expression
type AncestorFilter struct {
	inner FilterExpr
}

func (e *AncestorFilter) Matches(c Candidate) bool {
	for i, a := range c.Ancestors {
		if e.inner.Matches(Candidate{Node: a, Ancestors: c.Ancestors[:i]}) {
			return true
		}
	}
	return false
}

func (e *AncestorFilter) String() string {
	return fmt.Sprintf("ancestor(%s)", e.inner)
}

// compare performs a comparison between two integers based on the operator
func compare(a int, op ComparisonOp, b int) bool {
	switch op {
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	default:
		return false
	}
}
